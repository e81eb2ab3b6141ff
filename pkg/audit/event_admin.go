package audit

import "fmt"

// AdminEvent represents a change to the admin roster
type AdminEvent struct {
	UserID       string
	ClientIP     string
	Operation    string // "add" or "remove"
	AdminID      string
	AdminEmail   string
	Success      bool
	ErrorMessage string
}

func (e AdminEvent) MessageID() string {
	return "admin-" + e.Operation
}

func (e AdminEvent) Message() string {
	target := e.AdminEmail
	if target == "" {
		target = e.AdminID
	}

	var verb string
	switch e.Operation {
	case "add":
		verb = "added"
	case "remove":
		verb = "removed"
	default:
		verb = e.Operation
	}

	if e.Success {
		return fmt.Sprintf("%s %s admin %s", e.UserID, verb, target)
	}
	msg := fmt.Sprintf("%s tried to %s admin %s", e.UserID, e.Operation, target)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AdminEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e AdminEvent) Facility() int {
	return FacilityAuth
}

func (e AdminEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.AdminID != "" {
		sd[SDIDSubject]["admin"] = e.AdminID
	}
	if e.AdminEmail != "" {
		sd[SDIDSubject]["email"] = e.AdminEmail
	}
	return sd
}
