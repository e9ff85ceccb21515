package engine

import (
	"context"
	"errors"
	"time"

	"mediadesk/internal/domain"
	"mediadesk/internal/events"
	"mediadesk/internal/repo"
)

// InvoiceCreateOptions are parameters for issuing an invoice. Total is
// derived, never supplied.
type InvoiceCreateOptions struct {
	ClientID   string
	CampaignID string
	Amount     float64
	Tax        float64
	IssueDate  string
	DueDate    string
	Notes      string
	ActorID    string
}

func (e Engine) CreateInvoice(ctx context.Context, opts InvoiceCreateOptions) (domain.Invoice, error) {
	if opts.Amount < 0 || opts.Tax < 0 {
		return domain.Invoice{}, errors.New("amount and tax cannot be negative")
	}
	if _, err := e.Repo.GetClient(ctx, opts.ClientID); err != nil {
		return domain.Invoice{}, err
	}
	if opts.CampaignID != "" {
		if _, err := e.Repo.GetCampaign(ctx, opts.CampaignID); err != nil {
			return domain.Invoice{}, err
		}
	}
	now := e.nowRFC3339()
	if opts.IssueDate == "" {
		opts.IssueDate = now
	}
	inv := domain.Invoice{
		ID:            newID(),
		ClientID:      opts.ClientID,
		CampaignID:    optionalString(opts.CampaignID),
		Amount:        opts.Amount,
		Tax:           opts.Tax,
		Total:         opts.Amount + opts.Tax,
		Status:        "draft",
		PaymentStatus: "unpaid",
		IssueDate:     opts.IssueDate,
		DueDate:       optionalString(opts.DueDate),
		Notes:         opts.Notes,
		CreatedByID:   opts.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Invoice{}, err
	}
	defer tx.Rollback()

	number, err := e.Repo.NextInvoiceNumber(ctx, tx, e.now().UTC().Year())
	if err != nil {
		return domain.Invoice{}, err
	}
	inv.InvoiceNumber = number
	if err := e.Repo.InsertInvoice(ctx, tx, inv); err != nil {
		return domain.Invoice{}, err
	}
	if err := e.Events.Append(ctx, tx, "invoice.created", "invoice", inv.ID, opts.ActorID, events.Payload{
		"invoice_number": inv.InvoiceNumber,
		"total":          inv.Total,
	}); err != nil {
		return domain.Invoice{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Invoice{}, err
	}
	return inv, nil
}

// InvoiceUpdateOptions are partial fields for editing a draft invoice.
type InvoiceUpdateOptions struct {
	ID      string
	Amount  *float64
	Tax     *float64
	DueDate *string
	Notes   *string
	ActorID string
}

// UpdateInvoice edits a draft invoice. Sent and later invoices are immutable,
// only their status and payment state move.
func (e Engine) UpdateInvoice(ctx context.Context, opts InvoiceUpdateOptions) (domain.Invoice, error) {
	inv, err := e.Repo.GetInvoice(ctx, opts.ID)
	if err != nil {
		return inv, err
	}
	if inv.Status != "draft" {
		return inv, errors.New("invoice cannot be edited after sending")
	}
	fields := map[string]any{"updated_at": e.nowRFC3339()}
	amount, tax := inv.Amount, inv.Tax
	if opts.Amount != nil {
		if *opts.Amount < 0 {
			return inv, errors.New("amount cannot be negative")
		}
		amount = *opts.Amount
		fields["amount"] = amount
	}
	if opts.Tax != nil {
		if *opts.Tax < 0 {
			return inv, errors.New("tax cannot be negative")
		}
		tax = *opts.Tax
		fields["tax"] = tax
	}
	if opts.Amount != nil || opts.Tax != nil {
		fields["total"] = amount + tax
	}
	if opts.DueDate != nil {
		fields["due_date"] = nullableVal(*opts.DueDate)
	}
	if opts.Notes != nil {
		fields["notes"] = *opts.Notes
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return inv, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateInvoiceFields(ctx, tx, opts.ID, fields); err != nil {
		return inv, err
	}
	if err := e.Events.Append(ctx, tx, "invoice.updated", "invoice", opts.ID, opts.ActorID, nil); err != nil {
		return inv, err
	}
	if err := tx.Commit(); err != nil {
		return inv, err
	}
	return e.Repo.GetInvoice(ctx, opts.ID)
}

func ensureInvoiceTransition(oldStatus, newStatus string) error {
	switch oldStatus {
	case "draft":
		if newStatus == "sent" || newStatus == "cancelled" {
			return nil
		}
	case "sent":
		switch newStatus {
		case "paid", "overdue", "cancelled":
			return nil
		}
	case "overdue":
		if newStatus == "paid" || newStatus == "cancelled" {
			return nil
		}
	}
	return InvalidTransitionError{Entity: "invoice", From: oldStatus, To: newStatus}
}

// UpdateInvoiceStatus moves an invoice along its workflow.
func (e Engine) UpdateInvoiceStatus(ctx context.Context, id, status, actorID string) (domain.Invoice, error) {
	inv, err := e.Repo.GetInvoice(ctx, id)
	if err != nil {
		return inv, err
	}
	if err := ensureInvoiceTransition(inv.Status, status); err != nil {
		return inv, err
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return inv, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateInvoiceFields(ctx, tx, id, map[string]any{
		"status":     status,
		"updated_at": e.nowRFC3339(),
	}); err != nil {
		return inv, err
	}
	if err := e.Events.Append(ctx, tx, "invoice.status_changed", "invoice", id, actorID, events.Payload{
		"old_status": inv.Status,
		"new_status": status,
	}); err != nil {
		return inv, err
	}
	if err := tx.Commit(); err != nil {
		return inv, err
	}
	return e.Repo.GetInvoice(ctx, id)
}

// RecordInvoicePayment updates the payment status, stamping the paid date
// when payment completes.
func (e Engine) RecordInvoicePayment(ctx context.Context, id, paymentStatus, actorID string) (domain.Invoice, error) {
	switch paymentStatus {
	case "unpaid", "partial", "paid":
	default:
		return domain.Invoice{}, errors.New("unknown payment status " + paymentStatus)
	}
	inv, err := e.Repo.GetInvoice(ctx, id)
	if err != nil {
		return inv, err
	}
	now := e.nowRFC3339()
	fields := map[string]any{"payment_status": paymentStatus, "updated_at": now}
	if paymentStatus == "paid" {
		fields["paid_date"] = now
		fields["status"] = "paid"
	}
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return inv, err
	}
	defer tx.Rollback()

	if err := e.Repo.UpdateInvoiceFields(ctx, tx, id, fields); err != nil {
		return inv, err
	}
	evtType := "invoice.payment_recorded"
	if paymentStatus == "paid" {
		evtType = "invoice.paid"
	}
	if err := e.Events.Append(ctx, tx, evtType, "invoice", id, actorID, events.Payload{
		"payment_status": paymentStatus,
	}); err != nil {
		return inv, err
	}
	if err := tx.Commit(); err != nil {
		return inv, err
	}
	return e.Repo.GetInvoice(ctx, id)
}

func (e Engine) DeleteInvoice(ctx context.Context, id, actorID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.SoftDeleteInvoice(ctx, tx, id, e.nowRFC3339()); err != nil {
		return err
	}
	if err := e.Events.Append(ctx, tx, "invoice.deleted", "invoice", id, actorID, nil); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) ListInvoices(ctx context.Context, f repo.InvoiceFilter) ([]domain.Invoice, error) {
	return e.Repo.ListInvoices(ctx, f)
}

// OverdueInvoices returns unpaid invoices past their due date.
func (e Engine) OverdueInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := e.Repo.ListInvoices(ctx, repo.InvoiceFilter{})
	if err != nil {
		return nil, err
	}
	now := e.now().UTC()
	var res []domain.Invoice
	for _, inv := range invoices {
		if inv.PaymentStatus == "paid" || inv.Status == "cancelled" || inv.DueDate == nil {
			continue
		}
		due, err := time.Parse(time.RFC3339, *inv.DueDate)
		if err != nil {
			continue
		}
		if due.Before(now) {
			res = append(res, inv)
		}
	}
	return res, nil
}
