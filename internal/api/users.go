package api

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"user_manager/internal/model"
)

const usersPath = "/users"

// UserClient manages user records
type UserClient struct {
	c *Client
}

// NewUserClient creates a new UserClient
func NewUserClient(c *Client) *UserClient {
	return &UserClient{c: c}
}

// List fetches every user. A body that is not a JSON array yields an empty list.
func (u *UserClient) List(ctx context.Context) ([]model.User, error) {
	var raw json.RawMessage
	if err := u.c.call(ctx, "users.list", "Failed to fetch users", "GET", usersPath, nil, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			u.c.log.Warn("user list response is not an array", "body", string(trimmed))
		}
		return []model.User{}, nil
	}

	users := []model.User{}
	if err := json.Unmarshal(trimmed, &users); err != nil {
		u.c.log.Error("Failed to fetch users", "op", "users.list", "error", err)
		return nil, &Error{Op: "users.list", Message: "Failed to fetch users", kind: ErrTransport}
	}
	return users, nil
}

func (u *UserClient) Get(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	if err := u.c.call(ctx, "users.get", "Failed to fetch user", "GET", userPath(id), nil, nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (u *UserClient) Create(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	var created model.User
	if err := u.c.call(ctx, "users.create", "Failed to create user", "POST", usersPath, nil, req, &created); err != nil {
		return model.User{}, err
	}
	return created, nil
}

// Update sends only the non-nil fields of req.
func (u *UserClient) Update(ctx context.Context, id int64, req model.UpdateUserRequest) (model.User, error) {
	var updated model.User
	if err := u.c.call(ctx, "users.update", "Failed to update user", "PUT", userPath(id), nil, req, &updated); err != nil {
		return model.User{}, err
	}
	return updated, nil
}

func (u *UserClient) Delete(ctx context.Context, id int64) error {
	return u.c.call(ctx, "users.delete", "Failed to delete user", "DELETE", userPath(id), nil, nil, nil)
}

func userPath(id int64) string {
	return usersPath + "/" + strconv.FormatInt(id, 10)
}
