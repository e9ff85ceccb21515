package repo

import (
	"context"
	"database/sql"
	"strings"

	"mediadesk/internal/domain"
)

const campaignCols = `id,client_id,name,COALESCE(type,''),status,budget,actual_spend,start_date,end_date,created_by_id,assigned_to_id,created_at,updated_at,deleted_at`

func scanCampaignRow(scan func(dest ...any) error) (domain.Campaign, error) {
	var c domain.Campaign
	var budget, spend sql.NullFloat64
	var start, end, assignedTo, deletedAt sql.NullString
	err := scan(&c.ID, &c.ClientID, &c.Name, &c.Type, &c.Status, &budget, &spend,
		&start, &end, &c.CreatedByID, &assignedTo, &c.CreatedAt, &c.UpdatedAt, &deletedAt)
	if err != nil {
		return c, err
	}
	c.Budget = floatPtr(budget)
	c.ActualSpend = floatPtr(spend)
	c.StartDate = strPtr(start)
	c.EndDate = strPtr(end)
	c.AssignedToID = strPtr(assignedTo)
	c.DeletedAt = strPtr(deletedAt)
	return c, nil
}

func (r Repo) InsertCampaign(ctx context.Context, tx *sql.Tx, c domain.Campaign) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO campaigns(id,client_id,name,type,status,budget,actual_spend,start_date,end_date,created_by_id,assigned_to_id,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.ID, c.ClientID, c.Name, nullable(c.Type), c.Status, nullableFloat(c.Budget), nullableFloat(c.ActualSpend),
		nullablePtr(c.StartDate), nullablePtr(c.EndDate), c.CreatedByID, nullablePtr(c.AssignedToID), c.CreatedAt, c.UpdatedAt)
	return err
}

func (r Repo) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+campaignCols+` FROM campaigns WHERE id=? AND deleted_at IS NULL`, id)
	c, err := scanCampaignRow(row.Scan)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

func (r Repo) GetCampaignTx(ctx context.Context, tx *sql.Tx, id string) (domain.Campaign, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+campaignCols+` FROM campaigns WHERE id=? AND deleted_at IS NULL`, id)
	c, err := scanCampaignRow(row.Scan)
	if err == sql.ErrNoRows {
		return c, ErrNotFound
	}
	return c, err
}

type CampaignFilter struct {
	ClientID     string
	Status       string
	AssignedToID string
}

func (r Repo) ListCampaigns(ctx context.Context, f CampaignFilter) ([]domain.Campaign, error) {
	clauses := []string{"deleted_at IS NULL"}
	var args []any
	if f.ClientID != "" {
		clauses = append(clauses, "client_id=?")
		args = append(args, f.ClientID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.AssignedToID != "" {
		clauses = append(clauses, "assigned_to_id=?")
		args = append(args, f.AssignedToID)
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+campaignCols+` FROM campaigns WHERE `+strings.Join(clauses, " AND ")+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Campaign
	for rows.Next() {
		c, err := scanCampaignRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r Repo) UpdateCampaignFields(ctx context.Context, tx *sql.Tx, id string, fields map[string]any) error {
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
	res, err := tx.ExecContext(ctx, `UPDATE campaigns SET `+strings.Join(sets, ",")+` WHERE id=? AND deleted_at IS NULL`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) SoftDeleteCampaign(ctx context.Context, tx *sql.Tx, id, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE campaigns SET deleted_at=?, status='cancelled', updated_at=? WHERE id=? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
