package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is an account record. Role is the single source of truth for what
// the account may do; there is no separate super-admin flag.
type Identity struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash []byte    `gorm:"column:password_hash;not null" json:"-"`
	Role         Role      `gorm:"column:role;not null" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Identity) TableName() string {
	return "identities"
}

// BeforeCreate assigns a random ID when none was provided.
func (i *Identity) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsSuperAdmin reports whether the identity holds the super-admin role.
func (i *Identity) IsSuperAdmin() bool {
	return i.Role == RoleSuperAdmin
}
