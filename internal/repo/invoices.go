package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mediadesk/internal/domain"
)

const invoiceCols = `id,invoice_number,client_id,campaign_id,amount,tax,total,status,payment_status,issue_date,due_date,paid_date,COALESCE(notes,''),created_by_id,created_at,updated_at,deleted_at`

func scanInvoiceRow(scan func(dest ...any) error) (domain.Invoice, error) {
	var inv domain.Invoice
	var campaignID, dueDate, paidDate, deletedAt sql.NullString
	err := scan(&inv.ID, &inv.InvoiceNumber, &inv.ClientID, &campaignID, &inv.Amount, &inv.Tax, &inv.Total,
		&inv.Status, &inv.PaymentStatus, &inv.IssueDate, &dueDate, &paidDate, &inv.Notes,
		&inv.CreatedByID, &inv.CreatedAt, &inv.UpdatedAt, &deletedAt)
	if err != nil {
		return inv, err
	}
	inv.CampaignID = strPtr(campaignID)
	inv.DueDate = strPtr(dueDate)
	inv.PaidDate = strPtr(paidDate)
	inv.DeletedAt = strPtr(deletedAt)
	return inv, nil
}

// NextInvoiceNumber allocates INV-<year>-NNNN, sequential within the year.
// Must run inside the insert transaction so two callers cannot share a number.
func (r Repo) NextInvoiceNumber(ctx context.Context, tx *sql.Tx, year int) (string, error) {
	prefix := fmt.Sprintf("INV-%d-", year)
	var last sql.NullString
	err := tx.QueryRowContext(ctx, `SELECT MAX(invoice_number) FROM invoices WHERE invoice_number LIKE ?`, prefix+"%").Scan(&last)
	if err != nil {
		return "", err
	}
	seq := 1
	if last.Valid {
		if _, err := fmt.Sscanf(strings.TrimPrefix(last.String, prefix), "%d", &seq); err != nil {
			return "", fmt.Errorf("parse invoice number %s: %w", last.String, err)
		}
		seq++
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (r Repo) InsertInvoice(ctx context.Context, tx *sql.Tx, inv domain.Invoice) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO invoices(id,invoice_number,client_id,campaign_id,amount,tax,total,status,payment_status,issue_date,due_date,paid_date,notes,created_by_id,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		inv.ID, inv.InvoiceNumber, inv.ClientID, nullablePtr(inv.CampaignID), inv.Amount, inv.Tax, inv.Total,
		inv.Status, inv.PaymentStatus, inv.IssueDate, nullablePtr(inv.DueDate), nullablePtr(inv.PaidDate),
		nullable(inv.Notes), inv.CreatedByID, inv.CreatedAt, inv.UpdatedAt)
	return err
}

func (r Repo) GetInvoice(ctx context.Context, id string) (domain.Invoice, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE id=? AND deleted_at IS NULL`, id)
	inv, err := scanInvoiceRow(row.Scan)
	if err == sql.ErrNoRows {
		return inv, ErrNotFound
	}
	return inv, err
}

type InvoiceFilter struct {
	ClientID    string
	Status      string
	CreatedByID string
}

func (r Repo) ListInvoices(ctx context.Context, f InvoiceFilter) ([]domain.Invoice, error) {
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
	if f.CreatedByID != "" {
		clauses = append(clauses, "created_by_id=?")
		args = append(args, f.CreatedByID)
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT `+invoiceCols+` FROM invoices WHERE `+strings.Join(clauses, " AND ")+` ORDER BY invoice_number`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoiceRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, inv)
	}
	return res, rows.Err()
}

func (r Repo) UpdateInvoiceFields(ctx context.Context, tx *sql.Tx, id string, fields map[string]any) error {
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
	res, err := tx.ExecContext(ctx, `UPDATE invoices SET `+strings.Join(sets, ",")+` WHERE id=? AND deleted_at IS NULL`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) SoftDeleteInvoice(ctx context.Context, tx *sql.Tx, id, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE invoices SET deleted_at=?, status='cancelled', updated_at=? WHERE id=? AND deleted_at IS NULL`, now, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
