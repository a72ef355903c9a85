package vault

// Status is the lifecycle stage of a proposal.
type Status int

const (
	// Open proposals are waiting for approvals.
	Open Status = iota
	// Approved proposals have all approvals and can be executed.
	Approved
	// Executed proposals were paid out. This is terminal.
	Executed
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Approved:
		return "approved"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}

func statusOf(signers SignerSet, p *Proposal) Status {
	switch {
	case p.Executed:
		return Executed
	case signers.Unanimous(p.Approvals):
		return Approved
	default:
		return Open
	}
}
