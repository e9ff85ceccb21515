package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mediadesk/internal/config"
	"mediadesk/internal/domain"
	"mediadesk/internal/events"
	"mediadesk/internal/rbac"
	"mediadesk/internal/repo"
)

type Engine struct {
	DB     *sql.DB
	Repo   repo.Repo
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(db *sql.DB, cfg *config.Config) Engine {
	return Engine{
		DB:     db,
		Repo:   repo.Repo{DB: db},
		Events: events.Writer{DB: db},
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) nowRFC3339() string {
	return e.now().UTC().Format(time.RFC3339)
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func newID() string {
	return uuid.New().String()
}

// UserCreateOptions are parameters for creating a user account.
type UserCreateOptions struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	ActorID   string
}

func (e Engine) CreateUser(ctx context.Context, opts UserCreateOptions) (domain.User, error) {
	if opts.Email == "" {
		return domain.User{}, errors.New("email is required")
	}
	if !rbac.ValidRole(rbac.Role(opts.Role)) {
		return domain.User{}, fmt.Errorf("unknown role %s", opts.Role)
	}
	u := domain.User{
		ID:        newID(),
		Email:     opts.Email,
		FirstName: opts.FirstName,
		LastName:  opts.LastName,
		Role:      opts.Role,
		IsActive:  true,
		CreatedAt: e.nowRFC3339(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertUser(ctx, tx, u); err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	if err := e.Events.Append(ctx, tx, "user.created", "user", u.ID, opts.ActorID, events.Payload{"email": u.Email, "role": u.Role}); err != nil {
		return domain.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// UpdateUser changes role or active flag. Either may be nil to leave as is.
func (e Engine) UpdateUser(ctx context.Context, id string, role *string, isActive *bool, actorID string) (domain.User, error) {
	if role != nil && !rbac.ValidRole(rbac.Role(*role)) {
		return domain.User{}, fmt.Errorf("unknown role %s", *role)
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.User{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateUser(ctx, tx, id, role, isActive); err != nil {
		return domain.User{}, err
	}
	payload := events.Payload{}
	if role != nil {
		payload["role"] = *role
	}
	if isActive != nil {
		payload["is_active"] = *isActive
	}
	if err := e.Events.Append(ctx, tx, "user.updated", "user", id, actorID, payload); err != nil {
		return domain.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.User{}, err
	}
	return e.Repo.GetUser(ctx, id)
}

// MintAPIKey creates an API key for the user and returns the raw secret once.
func (e Engine) MintAPIKey(ctx context.Context, userID, name, actorID string) (domain.APIKey, string, error) {
	if _, err := e.Repo.GetUser(ctx, userID); err != nil {
		return domain.APIKey{}, "", err
	}
	raw := "mdk_" + uuid.NewString()
	key := domain.APIKey{
		ID:        newID(),
		UserID:    userID,
		Name:      name,
		KeyHash:   repo.HashAPIKey(raw),
		CreatedAt: e.nowRFC3339(),
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.APIKey{}, "", err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertAPIKey(ctx, tx, key); err != nil {
		return domain.APIKey{}, "", err
	}
	if err := e.Events.Append(ctx, tx, "apikey.created", "api_key", key.ID, actorID, events.Payload{"user_id": userID}); err != nil {
		return domain.APIKey{}, "", err
	}
	if err := tx.Commit(); err != nil {
		return domain.APIKey{}, "", err
	}
	return key, raw, nil
}
