package model

import "time"

// Account is the shared row shape of the mentors and mentees tables.
// The two tables have identical columns; repositories pick the table
// by role.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Homi         int64     `gorm:"not null;default:0" json:"homi"`
	Intro        string    `gorm:"type:text" json:"intro"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Ref returns the account's composite reference for the given role.
func (a *Account) Ref(role Role) UserRef {
	return UserRef{Role: role, ID: a.ID}
}

func TableForRole(role Role) string {
	if role == RoleMentor {
		return "mentors"
	}
	return "mentees"
}
