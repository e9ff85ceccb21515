package engine

import (
	"context"
	"database/sql"

	"mediadesk/internal/domain"
)

// notify inserts an in-app notification inside the caller's transaction,
// honoring the recipient's preference row.
func (e Engine) notify(ctx context.Context, tx *sql.Tx, userID, typ, title, message, link string) error {
	pref, err := e.Repo.GetNotificationPreference(ctx, userID)
	if err != nil {
		return err
	}
	if !pref.InApp {
		return nil
	}
	return e.Repo.InsertNotification(ctx, tx, domain.Notification{
		ID:        newID(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: e.nowRFC3339(),
	})
}

func (e Engine) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return e.Repo.ListNotifications(ctx, userID, unreadOnly)
}

func (e Engine) MarkNotificationRead(ctx context.Context, id, userID string) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.MarkNotificationRead(ctx, tx, id, userID, e.nowRFC3339()); err != nil {
		return err
	}
	return tx.Commit()
}

func (e Engine) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	n, err := e.Repo.MarkAllNotificationsRead(ctx, tx, userID, e.nowRFC3339())
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (e Engine) SetNotificationPreference(ctx context.Context, pref domain.NotificationPreference) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.Repo.UpsertNotificationPreference(ctx, tx, pref); err != nil {
		return err
	}
	return tx.Commit()
}
