package payment

type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

func (s IntentStatus) String() string {
	return string(s)
}

func (s IntentStatus) IsValid() bool {
	switch s {
	case IntentPending, IntentSucceeded, IntentFailed:
		return true
	default:
		return false
	}
}
