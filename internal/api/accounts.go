package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"user_manager/internal/model"
	"user_manager/internal/utils"
)

const accountsPath = "/customers"

// AccountClient manages account records. Every Account it returns has the
// credential stripped.
type AccountClient struct {
	c   *Client
	now func() time.Time
}

// NewAccountClient creates a new AccountClient
func NewAccountClient(c *Client) *AccountClient {
	return &AccountClient{c: c, now: time.Now}
}

// customers fetches the account list. Entries that do not decode as a
// Customer are skipped with a warning so one bad record cannot lock out
// every other account.
func (a *AccountClient) customers(ctx context.Context, op, msg string, query url.Values) ([]model.Customer, error) {
	var raw []json.RawMessage
	if err := a.c.call(ctx, op, msg, "GET", accountsPath, query, nil, &raw); err != nil {
		return nil, err
	}

	customers := make([]model.Customer, 0, len(raw))
	for i, entry := range raw {
		var c model.Customer
		if err := json.Unmarshal(entry, &c); err != nil {
			a.c.log.Warn("skipping unreadable account record", "op", op, "index", i, "error", err)
			continue
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (a *AccountClient) List(ctx context.Context) ([]model.Account, error) {
	customers, err := a.customers(ctx, "accounts.list", "Failed to fetch accounts", nil)
	if err != nil {
		return nil, err
	}
	accounts := make([]model.Account, 0, len(customers))
	for _, c := range customers {
		accounts = append(accounts, c.Account())
	}
	return accounts, nil
}

func (a *AccountClient) Get(ctx context.Context, id int64) (model.Account, error) {
	var customer model.Customer
	if err := a.c.call(ctx, "accounts.get", "Failed to get profile", "GET", accountPath(id), nil, nil, &customer); err != nil {
		return model.Account{}, err
	}
	return customer.Account(), nil
}

// FindByCredentials scans every account for an exact email and credential match.
func (a *AccountClient) FindByCredentials(ctx context.Context, email, password string) (model.Account, bool, error) {
	customers, err := a.customers(ctx, "accounts.find_by_credentials", "Failed to fetch accounts", nil)
	if err != nil {
		return model.Account{}, false, err
	}
	for _, c := range customers {
		if c.Email == email && utils.MatchCredential(c.Password, password) {
			return c.Account(), true, nil
		}
	}
	return model.Account{}, false, nil
}

// ExistsByEmail reports whether any account already uses email.
func (a *AccountClient) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	customers, err := a.customers(ctx, "accounts.exists_by_email", "Failed to fetch accounts", url.Values{"email": {email}})
	if err != nil {
		return false, err
	}
	for _, c := range customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Create stores a new account with a hashed credential; the server assigns the id.
func (a *AccountClient) Create(ctx context.Context, req model.SignupRequest) (model.Account, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now().UTC()
	draft := model.Customer{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    hash,
		PhoneNumber: req.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var created model.Customer
	if err := a.c.call(ctx, "accounts.create", "Failed to create account", "POST", accountsPath, nil, draft, &created); err != nil {
		return model.Account{}, err
	}
	return created.Account(), nil
}

func (a *AccountClient) Update(ctx context.Context, id int64, req model.UpdateAccountRequest) (model.Account, error) {
	var updated model.Customer
	if err := a.c.call(ctx, "accounts.update", "Failed to update profile", "PATCH", accountPath(id), nil, req, &updated); err != nil {
		return model.Account{}, err
	}
	return updated.Account(), nil
}

func (a *AccountClient) Delete(ctx context.Context, id int64) error {
	return a.c.call(ctx, "accounts.delete", "Failed to delete account", "DELETE", accountPath(id), nil, nil, nil)
}

func accountPath(id int64) string {
	return accountsPath + "/" + strconv.FormatInt(id, 10)
}
