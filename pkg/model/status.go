package model

import "fmt"

// Status is the closed set of loan application statuses.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusPending, StatusVerified, StatusApproved, StatusRejected}

// ParseStatus validates s against the known statuses.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}
