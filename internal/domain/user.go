package domain

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type User struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	Role               Role               `json:"role"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Caller is the identity attached to a request by the auth layer.
type Caller struct {
	UserID             string
	Role               Role
	VerificationStatus VerificationStatus
}

func (u User) AsCaller() Caller {
	return Caller{
		UserID:             u.ID,
		Role:               u.Role,
		VerificationStatus: u.VerificationStatus,
	}
}

// CanParticipate reports whether the caller holds the participant-eligible role.
func (c Caller) CanParticipate() bool {
	return c.Role == RoleStudent
}

func (c Caller) IsVerified() bool {
	return c.VerificationStatus == VerificationApproved
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
