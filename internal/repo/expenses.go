package repo

import (
	"context"
	"database/sql"
	"strings"

	"mediadesk/internal/domain"
)

const expenseCols = `id,campaign_id,description,amount,COALESCE(category,''),status,expense_date,created_by_id,approved_by_id,approved_at,created_at,updated_at,deleted_at`

func scanExpenseRow(scan func(dest ...any) error) (domain.Expense, error) {
	var e domain.Expense
	var campaignID, approvedBy, approvedAt, deletedAt sql.NullString
	err := scan(&e.ID, &campaignID, &e.Description, &e.Amount, &e.Category, &e.Status,
		&e.ExpenseDate, &e.CreatedByID, &approvedBy, &approvedAt, &e.CreatedAt, &e.UpdatedAt, &deletedAt)
	if err != nil {
		return e, err
	}
	e.CampaignID = strPtr(campaignID)
	e.ApprovedByID = strPtr(approvedBy)
	e.ApprovedAt = strPtr(approvedAt)
	e.DeletedAt = strPtr(deletedAt)
	return e, nil
}

func (r Repo) InsertExpense(ctx context.Context, tx *sql.Tx, e domain.Expense) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO expenses(id,campaign_id,description,amount,category,status,expense_date,created_by_id,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.ID, nullablePtr(e.CampaignID), e.Description, e.Amount, nullable(e.Category), e.Status,
		e.ExpenseDate, e.CreatedByID, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r Repo) GetExpense(ctx context.Context, id string) (domain.Expense, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id=? AND deleted_at IS NULL`, id)
	e, err := scanExpenseRow(row.Scan)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

func (r Repo) GetExpenseTx(ctx context.Context, tx *sql.Tx, id string) (domain.Expense, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+expenseCols+` FROM expenses WHERE id=? AND deleted_at IS NULL`, id)
	e, err := scanExpenseRow(row.Scan)
	if err == sql.ErrNoRows {
		return e, ErrNotFound
	}
	return e, err
}

type ExpenseFilter struct {
	CampaignID  string
	Status      string
	CreatedByID string
}

func (r Repo) ListExpenses(ctx context.Context, f ExpenseFilter) ([]domain.Expense, error) {
	clauses := []string{"deleted_at IS NULL"}
	var args []any
	if f.CampaignID != "" {
		clauses = append(clauses, "campaign_id=?")
		args = append(args, f.CampaignID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.CreatedByID != "" {
		clauses = append(clauses, "created_by_id=?")
		args = append(args, f.CreatedByID)
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+expenseCols+` FROM expenses WHERE `+strings.Join(clauses, " AND ")+` ORDER BY expense_date, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Expense
	for rows.Next() {
		e, err := scanExpenseRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r Repo) UpdateExpenseFields(ctx context.Context, tx *sql.Tx, id string, fields map[string]any) error {
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
	res, err := tx.ExecContext(ctx, `UPDATE expenses SET `+strings.Join(sets, ",")+` WHERE id=? AND deleted_at IS NULL`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) SoftDeleteExpense(ctx context.Context, tx *sql.Tx, id, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE expenses SET deleted_at=?, updated_at=? WHERE id=? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
