package audit

import "fmt"

// LoanSubmitEvent represents a loan application submission
type LoanSubmitEvent struct {
	UserID       string
	ClientIP     string
	LoanID       string
	Success      bool
	ErrorMessage string
}

func (e LoanSubmitEvent) MessageID() string {
	return "loan-submit"
}

func (e LoanSubmitEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s submitted loan application %s", e.UserID, e.LoanID)
	}
	msg := fmt.Sprintf("%s tried to submit a loan application", e.UserID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LoanSubmitEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoanSubmitEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoanSubmitEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"loan": e.LoanID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "submit",
			"result":    result(e.Success),
		},
	}
}

// LoanStatusEvent represents a loan application status change
type LoanStatusEvent struct {
	UserID       string
	Role         string
	ClientIP     string
	LoanID       string
	FromStatus   string
	ToStatus     string
	Success      bool
	ErrorMessage string
}

func (e LoanStatusEvent) MessageID() string {
	return "loan-status"
}

func (e LoanStatusEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s changed status of loan application %s from %s to %s", e.UserID, e.LoanID, e.FromStatus, e.ToStatus)
	}
	msg := fmt.Sprintf("%s tried to set status of loan application %s to %s", e.UserID, e.LoanID, e.ToStatus)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LoanStatusEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e LoanStatusEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoanStatusEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
			"role": e.Role,
		},
		SDIDSubject: {
			"loan": e.LoanID,
			"to":   e.ToStatus,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "change-status",
			"result":    result(e.Success),
		},
	}
	if e.FromStatus != "" {
		sd[SDIDSubject]["from"] = e.FromStatus
	}
	return sd
}
