package repo

import (
	"context"
	"database/sql"
	"strings"

	"mediadesk/internal/domain"
)

const clientCols = `id,name,COALESCE(industry,''),COALESCE(email,''),COALESCE(phone,''),COALESCE(website,''),status,contract_value,contract_start,contract_end,COALESCE(notes,''),owner_id,created_at,updated_at,deleted_at`

func scanClientRow(scan func(dest ...any) error) (domain.Client, error) {
	var c domain.Client
	var value sql.NullFloat64
	var start, end, deletedAt sql.NullString
	err := scan(&c.ID, &c.Name, &c.Industry, &c.Email, &c.Phone, &c.Website, &c.Status,
		&value, &start, &end, &c.Notes, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt, &deletedAt)
	if err != nil {
		return c, err
	}
	c.ContractValue = floatPtr(value)
	c.ContractStart = strPtr(start)
	c.ContractEnd = strPtr(end)
	c.DeletedAt = strPtr(deletedAt)
	return c, nil
}

func (r Repo) InsertClient(ctx context.Context, tx *sql.Tx, c domain.Client) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO clients(id,name,industry,email,phone,website,status,contract_value,contract_start,contract_end,notes,owner_id,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.Name, nullable(c.Industry), nullable(c.Email), nullable(c.Phone), nullable(c.Website), c.Status,
		nullableFloat(c.ContractValue), nullablePtr(c.ContractStart), nullablePtr(c.ContractEnd), nullable(c.Notes),
		c.OwnerID, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r Repo) GetClient(ctx context.Context, id string) (domain.Client, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+clientCols+` FROM clients WHERE id=? AND deleted_at IS NULL`, id)
	c, err := scanClientRow(row.Scan)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

type ClientFilter struct {
	Status  string
	OwnerID string
}

func (r Repo) ListClients(ctx context.Context, f ClientFilter) ([]domain.Client, error) {
	clauses := []string{"deleted_at IS NULL"}
	var args []any
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.OwnerID != "" {
		clauses = append(clauses, "owner_id=?")
		args = append(args, f.OwnerID)
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+clientCols+` FROM clients WHERE `+strings.Join(clauses, " AND ")+` ORDER BY name, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Client
	for rows.Next() {
		c, err := scanClientRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r Repo) UpdateClientFields(ctx context.Context, tx *sql.Tx, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	var (
		sets []string
		args []any
	)
	for col, v := range fields {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	args = append(args, id)
	res, err := tx.ExecContext(ctx, `UPDATE clients SET `+strings.Join(sets, ",")+` WHERE id=? AND deleted_at IS NULL`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) SoftDeleteClient(ctx context.Context, tx *sql.Tx, id, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE clients SET deleted_at=?, status='inactive', updated_at=? WHERE id=? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
