package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exaima/exaima-backend/internal/model"
)

// TokenRepository handles session token data access. Token rows are
// append-only; revocation flips a flag, nothing is deleted.
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Create records a newly issued token.
func (r *TokenRepository) Create(ctx context.Context, userID uuid.UUID, token string) (*model.SessionToken, error) {
	t := &model.SessionToken{UserID: userID, Token: token}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tokens (user_id, token)
		 VALUES ($1, $2)
		 RETURNING id, created_at, is_revoked`,
		userID, token,
	).Scan(&t.ID, &t.CreatedAt, &t.IsRevoked)
	if err != nil {
		return nil, wrapErr(err)
	}
	return t, nil
}

// GetActive retrieves a non-revoked token row by the literal token string.
// Returns ErrNotFound for unknown and revoked tokens alike.
func (r *TokenRepository) GetActive(ctx context.Context, token string) (*model.SessionToken, error) {
	t := &model.SessionToken{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, token, created_at, is_revoked
		 FROM tokens WHERE token = $1 AND is_revoked = FALSE`, token,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt, &t.IsRevoked)
	if err != nil {
		return nil, wrapErr(err)
	}
	return t, nil
}

// Revoke marks the token row revoked. Returns ErrNotFound if no row
// matches the literal token string.
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tokens SET is_revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return wrapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
