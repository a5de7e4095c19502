package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user_manager/internal/model"
)

func strPtr(s string) *string { return &s }

func TestStruct_ValidUser(t *testing.T) {
	req := model.CreateUserRequest{
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "a@x.com",
		PhoneNumber: "12345",
		Status:      model.UserStatusPending,
	}
	assert.NoError(t, Struct(req))
}

func TestStruct_UserFieldMessages(t *testing.T) {
	req := model.CreateUserRequest{
		FirstName:   "A",
		Email:       "not-an-email",
		PhoneNumber: "12-34",
		Status:      "archived",
	}
	err := Struct(req)
	require.ErrorIs(t, err, ErrValidation)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 5)

	msg, ok := verr.Field("firstName")
	assert.True(t, ok)
	assert.Equal(t, "First name must be at least 2 characters", msg)

	msg, _ = verr.Field("lastName")
	assert.Equal(t, "Last name is required", msg)
	msg, _ = verr.Field("email")
	assert.Equal(t, "Invalid email format", msg)
	msg, _ = verr.Field("phoneNumber")
	assert.Equal(t, "Phone number must contain only digits", msg)
	msg, _ = verr.Field("status")
	assert.Equal(t, "Invalid status", msg)

	assert.Equal(t, "firstName", verr.Fields[0].Field)
}

func TestStruct_PartialUpdate(t *testing.T) {
	assert.NoError(t, Struct(model.UpdateUserRequest{}))
	assert.NoError(t, Struct(model.UpdateUserRequest{LastName: strPtr("Smith")}))

	err := Struct(&model.UpdateUserRequest{PhoneNumber: strPtr("abc")})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	msg, ok := verr.Field("phoneNumber")
	assert.True(t, ok)
	assert.Equal(t, "Phone number must contain only digits", msg)
}

func TestStruct_SignupPasswordLength(t *testing.T) {
	req := model.SignupRequest{
		FirstName:   "Ann",
		LastName:    "Lee",
		Email:       "a@x.com",
		Password:    "12345",
		PhoneNumber: "555",
	}
	err := Struct(req)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Password must be at least 6 characters", verr.Error())
}
