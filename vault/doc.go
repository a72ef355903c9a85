/*
Package vault implements a custody vault: funds held on behalf of a fixed
set of three signers, released only with the approval of all of them.

A signer proposes a transfer, every signer approves it and then anyone may
execute it. Executing marks the proposal as done and pays the recipient
through the Ledger in one step. A proposal is executed at most once.

  Open -> Approved -> Executed

Open and Approved are not stored. They are derived from the approval set
of a proposal, see Vault.Status.
*/
package vault
