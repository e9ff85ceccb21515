package repo

import (
	"context"
	"database/sql"

	"mediadesk/internal/domain"
)

const notificationCols = `id,user_id,type,title,message,COALESCE(link,''),read,read_at,created_at`

func (r Repo) InsertNotification(ctx context.Context, tx *sql.Tx, n domain.Notification) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notifications(id,user_id,type,title,message,link,read,created_at) VALUES (?,?,?,?,?,?,?,?)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, nullable(n.Link), n.Read, n.CreatedAt)
	return err
}

func (r Repo) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	query := `SELECT ` + notificationCols + ` FROM notifications WHERE user_id=?`
	if unreadOnly {
		query += ` AND read=0`
	}
	query += ` ORDER BY created_at DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var readAt sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.ReadAt = strPtr(readAt)
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r Repo) CountUnreadNotifications(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=? AND read=0`, userID).Scan(&n)
	return n, err
}

// MarkNotificationRead flags one notification for the user. Row must belong
// to the user or the update is a not found.
func (r Repo) MarkNotificationRead(ctx context.Context, tx *sql.Tx, id, userID, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE notifications SET read=1, read_at=? WHERE id=? AND user_id=? AND read=0`, now, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) MarkAllNotificationsRead(ctx context.Context, tx *sql.Tx, userID, now string) (int64, error) {
	res, err := tx.ExecContext(ctx, `UPDATE notifications SET read=1, read_at=? WHERE user_id=? AND read=0`, now, userID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// GetNotificationPreference returns the user's preference row, defaulting to
// everything enabled when none exists.
func (r Repo) GetNotificationPreference(ctx context.Context, userID string) (domain.NotificationPreference, error) {
	pref := domain.NotificationPreference{UserID: userID, InApp: true, Webhook: true}
	err := r.DB.QueryRowContext(ctx, `SELECT in_app, webhook FROM notification_preferences WHERE user_id=?`, userID).
		Scan(&pref.InApp, &pref.Webhook)
	if err == sql.ErrNoRows {
		return pref, nil
	}
	return pref, err
}

func (r Repo) UpsertNotificationPreference(ctx context.Context, tx *sql.Tx, pref domain.NotificationPreference) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO notification_preferences(user_id,in_app,webhook) VALUES (?,?,?)
ON CONFLICT(user_id) DO UPDATE SET in_app=excluded.in_app, webhook=excluded.webhook`,
		pref.UserID, pref.InApp, pref.Webhook)
	return err
}
