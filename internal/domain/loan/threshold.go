package loan

// ThresholdCeiling is the largest amount the record-surface rule approves.
const ThresholdCeiling Money = 5000

// ThresholdApprover is the fixed-amount rule applied to loans created or
// updated through the generic record endpoints. It looks at the amount only;
// score, history and rate play no part.
type ThresholdApprover struct {
	Ceiling Money
}

func NewThresholdApprover() ThresholdApprover {
	return ThresholdApprover{Ceiling: ThresholdCeiling}
}

func (a ThresholdApprover) Approves(amount Money) bool {
	return amount <= a.Ceiling
}

// Apply re-decides l in place.
func (a ThresholdApprover) Apply(l *Loan) {
	l.Reevaluate()
	if a.Approves(l.Amount) {
		_ = l.Approve()
		return
	}
	_ = l.Reject()
}
