package engine

import (
	"context"
	"errors"

	"mediadesk/internal/domain"
	"mediadesk/internal/events"
	"mediadesk/internal/repo"
)

// ClientCreateOptions are parameters for creating a client record.
type ClientCreateOptions struct {
	Name          string
	Industry      string
	Email         string
	Phone         string
	Website       string
	Status        string
	ContractValue *float64
	ContractStart string
	ContractEnd   string
	Notes         string
	ActorID       string
}

func (e Engine) CreateClient(ctx context.Context, opts ClientCreateOptions) (domain.Client, error) {
	if opts.Name == "" {
		return domain.Client{}, errors.New("name is required")
	}
	if opts.Status == "" {
		opts.Status = "prospect"
	}
	now := e.nowRFC3339()
	c := domain.Client{
		ID:            newID(),
		Name:          opts.Name,
		Industry:      opts.Industry,
		Email:         opts.Email,
		Phone:         opts.Phone,
		Website:       opts.Website,
		Status:        opts.Status,
		ContractValue: opts.ContractValue,
		ContractStart: optionalString(opts.ContractStart),
		ContractEnd:   optionalString(opts.ContractEnd),
		Notes:         opts.Notes,
		OwnerID:       opts.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Client{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertClient(ctx, tx, c); err != nil {
		return domain.Client{}, err
	}
	if err := e.Events.Append(ctx, tx, "client.created", "client", c.ID, opts.ActorID, events.Payload{"name": c.Name}); err != nil {
		return domain.Client{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Client{}, err
	}
	return c, nil
}

// ClientUpdateOptions carries partial updates for a client.
type ClientUpdateOptions struct {
	ID            string
	Name          *string
	Industry      *string
	Email         *string
	Phone         *string
	Website       *string
	Status        *string
	ContractValue *float64
	ContractStart *string
	ContractEnd   *string
	Notes         *string
	ActorID       string
}

func (e Engine) UpdateClient(ctx context.Context, opts ClientUpdateOptions) (domain.Client, error) {
	c, err := e.Repo.GetClient(ctx, opts.ID)
	if err != nil {
		return c, err
	}
	fields := map[string]any{}
	if opts.Name != nil {
		if *opts.Name == "" {
			return c, errors.New("name cannot be empty")
		}
		fields["name"] = *opts.Name
	}
	if opts.Industry != nil {
		fields["industry"] = nullableVal(*opts.Industry)
	}
	if opts.Email != nil {
		fields["email"] = nullableVal(*opts.Email)
	}
	if opts.Phone != nil {
		fields["phone"] = nullableVal(*opts.Phone)
	}
	if opts.Website != nil {
		fields["website"] = nullableVal(*opts.Website)
	}
	if opts.Status != nil {
		fields["status"] = *opts.Status
	}
	if opts.ContractValue != nil {
		fields["contract_value"] = *opts.ContractValue
	}
	if opts.ContractStart != nil {
		fields["contract_start"] = nullableVal(*opts.ContractStart)
	}
	if opts.ContractEnd != nil {
		fields["contract_end"] = nullableVal(*opts.ContractEnd)
	}
	if opts.Notes != nil {
		fields["notes"] = nullableVal(*opts.Notes)
	}
	if len(fields) == 0 {
		return c, nil
	}
	fields["updated_at"] = e.nowRFC3339()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return c, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateClientFields(ctx, tx, c.ID, fields); err != nil {
		return c, err
	}
	if err := e.Events.Append(ctx, tx, "client.updated", "client", c.ID, opts.ActorID, nil); err != nil {
		return c, err
	}
	if err := tx.Commit(); err != nil {
		return c, err
	}
	return e.Repo.GetClient(ctx, c.ID)
}

func (e Engine) DeleteClient(ctx context.Context, id, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.SoftDeleteClient(ctx, tx, id, e.nowRFC3339()); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "client.deleted", "client", id, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) ListClients(ctx context.Context, f repo.ClientFilter) ([]domain.Client, error) {
	return e.Repo.ListClients(ctx, f)
}
