package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"mediadesk/internal/config"
	"mediadesk/internal/engine"
	"mediadesk/internal/repo"
)

const defaultAdminEmail = "admin@mediadesk.local"

// ResolveConfig loads mediadesk.yml from the workspace, writing a default one
// with a fresh JWT secret when none exists.
func ResolveConfig(workspace string) (*config.Config, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		return cfg, nil
	}
	secret, err := randomSecret()
	if err != nil {
		return nil, err
	}
	if err := config.WriteDefault(workspace, secret); err != nil {
		return nil, fmt.Errorf("write default config: %w", err)
	}
	return config.Load(workspace)
}

// EnsureAdmin guarantees at least one admin account exists and returns it.
func EnsureAdmin(ctx context.Context, e engine.Engine) (string, error) {
	u, err := e.Repo.GetUserByEmail(ctx, defaultAdminEmail)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}
	users, err := e.Repo.ListUsers(ctx)
	if err != nil {
		return "", err
	}
	for _, u := range users {
		if u.Role == "admin" {
			return u.ID, nil
		}
	}
	created, err := e.CreateUser(ctx, engine.UserCreateOptions{
		Email:     defaultAdminEmail,
		FirstName: "Admin",
		Role:      "admin",
		ActorID:   "system",
	})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
