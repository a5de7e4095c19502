// Package cli implements the user_manager command-line client.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"user_manager/internal/api"
	"user_manager/internal/config"
	"user_manager/internal/logger"
	"user_manager/internal/session"
	"user_manager/internal/usercache"
	"user_manager/internal/utils"
)

// App bundles the client components a command works with.
type App struct {
	API     *api.Client
	Session *session.Manager
	Users   *usercache.Cache
	Log     *slog.Logger
}

// NewApp wires the client components from cfg. Logs go to logOut.
func NewApp(cfg *config.ClientConfig, logOut io.Writer) (*App, error) {
	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: logger.FormatText, Output: logOut})

	client, err := api.NewClient(cfg.APIURL, api.WithTimeout(cfg.Timeout), api.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	codec := utils.NewTokenUtil(cfg.TokenSecret, utils.SessionFreshness)
	tokens := session.NewFileTokenStore(cfg.TokenFile)
	mgr := session.NewManager(api.NewAccountClient(client), tokens, codec, log)
	client.SetTokenSource(mgr)

	return &App{
		API:     client,
		Session: mgr,
		Users:   usercache.New(api.NewUserClient(client), log),
		Log:     log,
	}, nil
}
