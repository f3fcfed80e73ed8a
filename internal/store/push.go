package store

import (
	"database/sql"
	"fmt"

	"github.com/fruettli/hauskal/internal/model"
)

type PushStore struct {
	db *sql.DB
}

func NewPushStore(db *sql.DB) *PushStore {
	return &PushStore{db: db}
}

// Save upserts a subscription keyed by endpoint. Browsers re-subscribe with
// fresh keys for the same endpoint, so keys are replaced on conflict.
func (s *PushStore) Save(sub model.PushSubscription) (*model.PushSubscription, error) {
	result, err := s.db.Exec(
		`INSERT INTO push_subscriptions (endpoint, p256dh_key, auth_key, device_name)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET
		   p256dh_key = excluded.p256dh_key,
		   auth_key = excluded.auth_key,
		   device_name = excluded.device_name`,
		sub.Endpoint, sub.P256dhKey, sub.AuthKey, sub.DeviceName,
	)
	if err != nil {
		return nil, fmt.Errorf("save push subscription: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if id == 0 {
		return s.getByEndpoint(sub.Endpoint)
	}
	return s.GetByID(id)
}

func (s *PushStore) GetByID(id int64) (*model.PushSubscription, error) {
	row := s.db.QueryRow(
		`SELECT id, endpoint, p256dh_key, auth_key, device_name, created_at
		 FROM push_subscriptions WHERE id = ?`, id)
	return scanPushSubscription(row)
}

func (s *PushStore) getByEndpoint(endpoint string) (*model.PushSubscription, error) {
	row := s.db.QueryRow(
		`SELECT id, endpoint, p256dh_key, auth_key, device_name, created_at
		 FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	return scanPushSubscription(row)
}

func scanPushSubscription(row rowScanner) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := row.Scan(&sub.ID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.DeviceName, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query push subscription: %w", err)
	}
	return &sub, nil
}

func (s *PushStore) List() ([]model.PushSubscription, error) {
	rows, err := s.db.Query(
		`SELECT id, endpoint, p256dh_key, auth_key, device_name, created_at
		 FROM push_subscriptions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query push subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		var sub model.PushSubscription
		if err := rows.Scan(&sub.ID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.DeviceName, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan push subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *PushStore) DeleteByEndpoint(endpoint string) error {
	_, err := s.db.Exec("DELETE FROM push_subscriptions WHERE endpoint = ?", endpoint)
	if err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

// WasSent reports whether a notification of the given type for ref_id was
// already logged on the given day (YYYY-MM-DD).
func (s *PushStore) WasSent(notificationType, refID, sentOn string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM notification_log
		 WHERE notification_type = ? AND ref_id = ? AND sent_on = ?`,
		notificationType, refID, sentOn,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query notification log: %w", err)
	}
	return count > 0, nil
}

func (s *PushStore) MarkSent(notificationType, refID, sentOn string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO notification_log (notification_type, ref_id, sent_on)
		 VALUES (?, ?, ?)`,
		notificationType, refID, sentOn,
	)
	if err != nil {
		return fmt.Errorf("log notification: %w", err)
	}
	return nil
}
