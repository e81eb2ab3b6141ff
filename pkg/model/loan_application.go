package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoanApplication is a borrower's request tracked through a status lifecycle.
type LoanApplication struct {
	ID                 string    `gorm:"column:id;primaryKey" json:"id"`
	OwnerID            string    `gorm:"column:owner_id;index;not null" json:"ownerId"`
	FullName           string    `gorm:"column:full_name;not null" json:"fullName"`
	LoanAmount         float64   `gorm:"column:loan_amount;not null" json:"loanAmount"`
	LoanTenure         int       `gorm:"column:loan_tenure;not null" json:"loanTenure"`
	EmploymentStatus   string    `gorm:"column:employment_status;not null" json:"employmentStatus"`
	LoanReason         string    `gorm:"column:loan_reason;not null" json:"loanReason"`
	EmploymentAddress1 string    `gorm:"column:employment_address1;not null" json:"employmentAddress1"`
	EmploymentAddress2 string    `gorm:"column:employment_address2" json:"employmentAddress2,omitempty"`
	TermsAccepted      bool      `gorm:"column:terms_accepted;not null" json:"termsAccepted"`
	Consent            bool      `gorm:"column:consent;not null" json:"consent"`
	Status             Status    `gorm:"column:status;not null;default:pending" json:"status"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (LoanApplication) TableName() string {
	return "loan_applications"
}

// BeforeCreate assigns a random ID and the initial status when unset.
func (l *LoanApplication) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = StatusPending
	}
	return nil
}
