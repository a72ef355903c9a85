/*
Package registry creates custody vaults and keeps track of them.

Each vault gets the next sequential ID. The registry stores a record of
every vault, indexed by vault address and by signer, and announces new
vaults with a VaultCreated event. Vaults are never removed.
*/
package registry
