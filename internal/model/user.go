package model

import "encoding/json"

// UserStatus is the lifecycle status of a managed user.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// UserStatuses lists every accepted status in display order.
var UserStatuses = []UserStatus{UserStatusPending, UserStatusActive, UserStatusInactive}

// User represents a managed user record
type User struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	Status      UserStatus `json:"status"`
}

// UnmarshalJSON decodes a user and defaults a missing status to pending.
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Status == "" {
		p.Status = UserStatusPending
	}
	*u = User(p)
	return nil
}

// CreateUserRequest is used for creating a new user
type CreateUserRequest struct {
	FirstName   string     `json:"firstName" validate:"required,min=2" label:"First name"`
	LastName    string     `json:"lastName" validate:"required,min=2" label:"Last name"`
	Email       string     `json:"email" validate:"required,email" label:"Email"`
	PhoneNumber string     `json:"phoneNumber" validate:"required,digits" label:"Phone number"`
	Status      UserStatus `json:"status" validate:"required,oneof=pending active inactive" label:"Status"`
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName   *string     `json:"firstName,omitempty" validate:"omitempty,min=2" label:"First name"`
	LastName    *string     `json:"lastName,omitempty" validate:"omitempty,min=2" label:"Last name"`
	Email       *string     `json:"email,omitempty" validate:"omitempty,email" label:"Email"`
	PhoneNumber *string     `json:"phoneNumber,omitempty" validate:"omitempty,digits" label:"Phone number"`
	Status      *UserStatus `json:"status,omitempty" validate:"omitempty,oneof=pending active inactive" label:"Status"`
}

// IsEmpty reports whether the update carries no fields.
func (r UpdateUserRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil && r.PhoneNumber == nil && r.Status == nil
}
