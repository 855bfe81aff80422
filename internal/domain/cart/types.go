package cart

type Status string

const (
	StatusActive     Status = "active"
	StatusCheckedOut Status = "checked_out"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCheckedOut:
		return true
	default:
		return false
	}
}
