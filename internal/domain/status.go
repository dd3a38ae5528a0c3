package domain

// GroupStatus is the derived status of a Category or SubCategory. It is a
// two-state machine: the propagation engine completes a group when every
// child is done and reopens it as soon as any child leaves the done state.
// Users only ever trigger the COMPLETED→ACTIVE edge via an explicit reopen.
type GroupStatus string

const (
	GroupActive    GroupStatus = "ACTIVE"
	GroupCompleted GroupStatus = "COMPLETED"
)

// String returns the display string.
func (s GroupStatus) String() string {
	return string(s)
}

// Completed reports whether the group is in the COMPLETED state.
func (s GroupStatus) Completed() bool {
	return s == GroupCompleted
}

// Complete transitions ACTIVE→COMPLETED.
func (s GroupStatus) Complete() (GroupStatus, error) {
	if s == GroupCompleted {
		return s, ErrInvalidTransition
	}
	return GroupCompleted, nil
}

// Reopen transitions COMPLETED→ACTIVE.
func (s GroupStatus) Reopen() (GroupStatus, error) {
	if s == GroupActive {
		return s, ErrInvalidTransition
	}
	return GroupActive, nil
}
