package loan

import (
	"strings"

	"github.com/loandesk/loandesk/pkg/apierr"
	"github.com/loandesk/loandesk/pkg/model"
)

// Application is the applicant-supplied part of a loan application.
type Application struct {
	FullName           string  `json:"fullName"`
	LoanAmount         float64 `json:"loanAmount"`
	LoanTenure         int     `json:"loanTenure"`
	EmploymentStatus   string  `json:"employmentStatus"`
	LoanReason         string  `json:"loanReason"`
	EmploymentAddress1 string  `json:"employmentAddress1"`
	EmploymentAddress2 string  `json:"employmentAddress2,omitempty"`
	TermsAccepted      bool    `json:"termsAccepted"`
	Consent            bool    `json:"consent"`
}

// Validate reports every invalid field at once, in declaration order.
func (a Application) Validate() error {
	var fields []string
	if strings.TrimSpace(a.FullName) == "" {
		fields = append(fields, "fullName")
	}
	if a.LoanAmount <= 0 {
		fields = append(fields, "loanAmount")
	}
	if a.LoanTenure <= 0 {
		fields = append(fields, "loanTenure")
	}
	if strings.TrimSpace(a.EmploymentStatus) == "" {
		fields = append(fields, "employmentStatus")
	}
	if strings.TrimSpace(a.LoanReason) == "" {
		fields = append(fields, "loanReason")
	}
	if strings.TrimSpace(a.EmploymentAddress1) == "" {
		fields = append(fields, "employmentAddress1")
	}
	if !a.TermsAccepted {
		fields = append(fields, "termsAccepted")
	}
	if !a.Consent {
		fields = append(fields, "consent")
	}

	if len(fields) > 0 {
		return apierr.Validation("invalid loan application", fields...)
	}
	return nil
}

func (a Application) toModel(ownerID string) *model.LoanApplication {
	return &model.LoanApplication{
		OwnerID:            ownerID,
		FullName:           strings.TrimSpace(a.FullName),
		LoanAmount:         a.LoanAmount,
		LoanTenure:         a.LoanTenure,
		EmploymentStatus:   strings.TrimSpace(a.EmploymentStatus),
		LoanReason:         strings.TrimSpace(a.LoanReason),
		EmploymentAddress1: strings.TrimSpace(a.EmploymentAddress1),
		EmploymentAddress2: strings.TrimSpace(a.EmploymentAddress2),
		TermsAccepted:      a.TermsAccepted,
		Consent:            a.Consent,
		Status:             model.StatusPending,
	}
}
