package model

import "time"

// Customer is the account record as stored by the record store,
// credential included. It never leaves the api package.
type Customer struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Account is the credential-free view of a Customer handed to callers.
type Account struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Account strips the credential.
func (c Customer) Account() Account {
	return Account{
		ID:          c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FullName joins first and last name.
func (a Account) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// LoginRequest holds login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// SignupRequest holds the profile for a new account
type SignupRequest struct {
	FirstName   string `json:"firstName" validate:"required,min=2" label:"First name"`
	LastName    string `json:"lastName" validate:"required,min=2" label:"Last name"`
	Email       string `json:"email" validate:"required,email" label:"Email"`
	Password    string `json:"password" validate:"required,min=6" label:"Password"`
	PhoneNumber string `json:"phoneNumber" validate:"required,digits" label:"Phone number"`
}

// UpdateAccountRequest carries a partial profile update; nil fields are left untouched.
type UpdateAccountRequest struct {
	FirstName   *string `json:"firstName,omitempty" validate:"omitempty,min=2" label:"First name"`
	LastName    *string `json:"lastName,omitempty" validate:"omitempty,min=2" label:"Last name"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email" label:"Email"`
	PhoneNumber *string `json:"phoneNumber,omitempty" validate:"omitempty,digits" label:"Phone number"`
}

// HealthStatus is the record store liveness payload.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
