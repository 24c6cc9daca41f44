package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"garagelog/internal/models"
)

// DefaultAccountSlug is used when no account cookie is present.
const DefaultAccountSlug = "default"

const listAccountsSQL = `
    SELECT id, name, slug, created_at
    FROM accounts
    ORDER BY name
`

// ListAccounts returns every account for the switcher dropdown.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.pool.Query(ctx, listAccountsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]models.Account, 0)
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

const accountBySlugSQL = `
    SELECT id, name, slug, created_at
    FROM accounts
    WHERE slug = $1
`

// GetAccountBySlug resolves the cookie value to an account, nil when unknown.
func (s *Store) GetAccountBySlug(ctx context.Context, slug string) (*models.Account, error) {
	var a models.Account
	err := s.pool.QueryRow(ctx, accountBySlugSQL, slug).Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAccount inserts a new account with a generated ID.
func (s *Store) CreateAccount(ctx context.Context, name, slug string) (*models.Account, error) {
	a := models.Account{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO accounts (id, name, slug, created_at) VALUES ($1,$2,$3,$4)`,
		a.ID, a.Name, a.Slug, a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// EnsureDefaultAccount seeds the default account on first run so the UI
// always has something to scope to.
func (s *Store) EnsureDefaultAccount(ctx context.Context) (*models.Account, error) {
	existing, err := s.GetAccountBySlug(ctx, DefaultAccountSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.CreateAccount(ctx, "Personal", DefaultAccountSlug)
}
