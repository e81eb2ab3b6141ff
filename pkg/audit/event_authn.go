package audit

import "fmt"

// LoginEvent represents a login attempt
type LoginEvent struct {
	Email             string
	SubjectID         string
	Role              string
	ClientIP          string
	AuthenticatorName string
	Success           bool
	ErrorMessage      string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully logged in as %s", e.Email, e.Role)
	}
	msg := fmt.Sprintf("%s failed to log in", e.Email)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LoginEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"email": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "login",
			"result":    result(e.Success),
		},
	}
	if e.AuthenticatorName != "" {
		sd[SDIDAuth]["authenticator"] = e.AuthenticatorName
	}
	if e.SubjectID != "" {
		sd[SDIDAuth]["user"] = e.SubjectID
	}
	return sd
}

// RegisterEvent represents a self-registration attempt
type RegisterEvent struct {
	Email        string
	Role         string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e RegisterEvent) MessageID() string {
	return "register"
}

func (e RegisterEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s registered with role %s", e.Email, e.Role)
	}
	msg := fmt.Sprintf("%s failed to register with role %s", e.Email, e.Role)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RegisterEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e RegisterEvent) Facility() int {
	return FacilityAuth
}

func (e RegisterEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"email": e.Email,
			"role":  e.Role,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "register",
			"result":    result(e.Success),
		},
	}
}
