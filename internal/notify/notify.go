// Package notify owns the notification inbox: fanout appends triggered by
// domain events, and the recipient-facing read/mutate surface.
package notify

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stackit-dev/stackit/backend/internal/apperr"
	"github.com/stackit-dev/stackit/backend/internal/models"
)

type Dispatcher struct {
	db *gorm.DB
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{db: db}
}

// Inbox is the listing envelope returned to the notification UI.
type Inbox struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unreadCount"`
	TotalCount    int64                 `json:"totalCount"`
}

// Notify appends an unread notification to the recipient's inbox. No
// deduplication: repeated identical events produce repeated entries.
func (d *Dispatcher) Notify(ctx context.Context, recipientID int, kind, message, link string) error {
	n := models.Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Message:     message,
		Link:        link,
	}
	return d.db.WithContext(ctx).Create(&n).Error
}

// Broadcast appends a platform_message to every non-banned user's inbox and
// returns how many were delivered.
func (d *Dispatcher) Broadcast(ctx context.Context, message, link string) (int64, error) {
	res := d.db.WithContext(ctx).Exec(
		`INSERT INTO notifications (recipient_id, kind, message, link, read, created_at)
         SELECT id, ?, ?, ?, FALSE, CURRENT_TIMESTAMP FROM users WHERE banned = FALSE`,
		models.KindPlatformMessage, message, link,
	)
	return res.RowsAffected, res.Error
}

// List returns the recipient's notifications, newest first.
func (d *Dispatcher) List(ctx context.Context, recipientID int) (*Inbox, error) {
	var notifications []models.Notification
	err := d.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []models.Notification{}
	}

	var unread int64
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	return &Inbox{
		Notifications: notifications,
		UnreadCount:   unread,
		TotalCount:    int64(len(notifications)),
	}, nil
}

// ListUnread returns only the unread notifications, newest first.
func (d *Dispatcher) ListUnread(ctx context.Context, recipientID int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := d.db.WithContext(ctx).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// load fetches a notification and enforces ownership: absent ids are
// NotFound, someone else's notification is Forbidden.
func (d *Dispatcher) load(ctx context.Context, recipientID, notificationID int) (*models.Notification, error) {
	var n models.Notification
	if err := d.db.WithContext(ctx).First(&n, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Notification not found")
		}
		return nil, err
	}
	if n.RecipientID != recipientID {
		return nil, apperr.Forbidden("You can only manage your own notifications")
	}
	return &n, nil
}

// MarkRead marks one notification read. Marking an already-read notification
// is a no-op success.
func (d *Dispatcher) MarkRead(ctx context.Context, recipientID, notificationID int) error {
	n, err := d.load(ctx, recipientID, notificationID)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	return d.db.WithContext(ctx).Model(n).Update("read", true).Error
}

// MarkAllRead marks every unread notification read and returns the count.
func (d *Dispatcher) MarkAllRead(ctx context.Context, recipientID int) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}

// Delete removes one notification. Deleting a non-existent id is NotFound.
func (d *Dispatcher) Delete(ctx context.Context, recipientID, notificationID int) error {
	n, err := d.load(ctx, recipientID, notificationID)
	if err != nil {
		return err
	}
	return d.db.WithContext(ctx).Delete(n).Error
}

// ClearAll removes the recipient's whole inbox and returns the count.
func (d *Dispatcher) ClearAll(ctx context.Context, recipientID int) (int64, error) {
	res := d.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
