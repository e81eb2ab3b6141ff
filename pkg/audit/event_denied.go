package audit

import "fmt"

// DeniedEvent represents a request refused by the role authorizer
type DeniedEvent struct {
	UserID   string
	Role     string
	ClientIP string
	Action   string
	Target   string
	Reason   string
}

func (e DeniedEvent) MessageID() string {
	return "authz-denied"
}

func (e DeniedEvent) Message() string {
	msg := fmt.Sprintf("%s (%s) was denied %s", e.UserID, e.Role, e.Action)
	if e.Target != "" && e.Target != "*" {
		msg += " on " + e.Target
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e DeniedEvent) Severity() Severity {
	return SeverityWarning
}

func (e DeniedEvent) Facility() int {
	return FacilityAuthPriv
}

func (e DeniedEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
			"role": e.Role,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Action,
			"result":    "denied",
		},
	}
	if e.Target != "" {
		sd[SDIDSubject] = map[string]string{"target": e.Target}
	}
	return sd
}
