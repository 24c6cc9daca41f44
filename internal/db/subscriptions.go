package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"garagelog/internal/models"
)

// ListSubscriptions returns an account's notification recipients.
func (s *Store) ListSubscriptions(ctx context.Context, accountID string, activeOnly bool) ([]models.EmailSubscription, error) {
	sql := `SELECT id, account_id, email, active, created_at
		FROM email_subscriptions WHERE account_id = $1`
	if activeOnly {
		sql += ` AND active`
	}
	sql += ` ORDER BY email`

	rows, err := s.pool.Query(ctx, sql, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := make([]models.EmailSubscription, 0)
	for rows.Next() {
		var sub models.EmailSubscription
		if err := rows.Scan(&sub.ID, &sub.AccountID, &sub.Email, &sub.Active, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// CreateSubscription adds a recipient; re-adding an existing address just
// reactivates it.
func (s *Store) CreateSubscription(ctx context.Context, accountID, email string) (*models.EmailSubscription, error) {
	sub := models.EmailSubscription{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Email:     email,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO email_subscriptions (id, account_id, email, active, created_at)
		 VALUES ($1,$2,$3,TRUE,$4)
		 ON CONFLICT (account_id, email) DO UPDATE SET active = TRUE
		 RETURNING id, created_at`,
		sub.ID, sub.AccountID, sub.Email, sub.CreatedAt,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeactivateSubscription stops sending to an address without losing it.
func (s *Store) DeactivateSubscription(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE email_subscriptions SET active = FALSE WHERE id = $1`, id)
	return err
}
