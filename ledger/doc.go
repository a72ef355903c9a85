/*
Package ledger keeps account balances and moves value between addresses.

A Ledger is what a vault pays out of. Bank is the in-memory
implementation: every account is a Wallet stored in the "cash" bucket and
keyed by its address. All operations are serialized and each one runs in
its own cache-wrap, so a failed operation never leaves partial writes.
*/
package ledger
