/*

Package custody defines the types shared by the custody engine packages:
identities (Address, Condition), amounts, storage interfaces, events and
the genesis configuration hooks.

The engine itself lives in the vault package (one custody relationship,
unanimous 3-of-3 approval) and the registry package (creation and lookup
of vaults). Value is held and moved by a ledger.Ledger implementation.

*/

package custody
