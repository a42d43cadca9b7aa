package models

import "time"

// UserStatus gates whether an account may authenticate.
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// User is the stored account record. PasswordHash never leaves the identity
// package; use Public() for anything caller-facing.
//
// IsDeleted is a tri-state logical-delete marker: nil means visible, true
// means permanently hidden. Once true it is never reset.
type User struct {
	ID             string
	Name           string
	LastName       string
	SecondLastName string
	Birthdate      string
	Phone          string
	PasswordHash   string
	Status         UserStatus
	IsDeleted      *bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the credential-free projection exposed in responses and
// joined onto products.
type PublicUser struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	LastName       string     `json:"lastName"`
	SecondLastName string     `json:"secondLastName"`
	Birthdate      string     `json:"birthdate,omitempty"`
	Phone          string     `json:"phone"`
	Status         UserStatus `json:"userStatus"`
	IsDeleted      *bool      `json:"isDeleted"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Public strips credentials from the record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		LastName:       u.LastName,
		SecondLastName: u.SecondLastName,
		Birthdate:      u.Birthdate,
		Phone:          u.Phone,
		Status:         u.Status,
		IsDeleted:      u.IsDeleted,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Name           string `json:"name"`
	LastName       string `json:"lastName"`
	SecondLastName string `json:"secondLastName"`
	Birthdate      string `json:"birthdate"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
}

// LoginRequest carries login credentials. Username is the phone number.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by both login and signup.
type AuthResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}
