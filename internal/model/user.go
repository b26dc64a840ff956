package model

import "time"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserActive, UserSuspended, UserPending:
		return true
	}
	return false
}

// User is a registered account. WalletBalance is only ever changed through
// the ledger (debit on post submission, credit on deposit approval).
type User struct {
	ID            string     `bson:"_id" json:"id"`
	Username      string     `bson:"username" json:"username"`
	Email         string     `bson:"email" json:"email"`
	PasswordHash  string     `bson:"hashed_password" json:"-"`
	FullName      string     `bson:"full_name" json:"full_name"`
	Phone         string     `bson:"phone" json:"phone"`
	Address       string     `bson:"address" json:"address"`
	Role          Role       `bson:"role" json:"role"`
	Status        UserStatus `bson:"status" json:"status"`
	WalletBalance float64    `bson:"wallet_balance" json:"wallet_balance"`
	EmailVerified bool       `bson:"email_verified" json:"email_verified"`
	AdminNotes    string     `bson:"admin_notes" json:"admin_notes,omitempty"`
	LastLogin     *time.Time `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName falls back to the username when no full name was given.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
