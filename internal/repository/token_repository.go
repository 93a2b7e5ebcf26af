package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ratescope/api/internal/models"
)

var ErrTokenNotFound = errors.New("refresh token not found")

type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, token models.RefreshToken) error {
	const query = `
		INSERT INTO refresh_tokens (id, user_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, NOW(), $4)
		ON CONFLICT (token_hash) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
	)
	return err
}

// FindLive returns the token row only while it has not passed its retention
// window, so an expired entry behaves as if it were already deleted.
func (r *TokenRepository) FindLive(ctx context.Context, tokenHash []byte) (models.RefreshToken, error) {
	const query = `
		SELECT id, user_id, token_hash, created_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
	`
	row := r.pool.QueryRow(ctx, query, tokenHash)
	var token models.RefreshToken
	if err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.RefreshToken{}, ErrTokenNotFound
		}
		return models.RefreshToken{}, err
	}
	return token, nil
}

// DeleteByHash removes one token from a user's list. Removing a token that is
// not present is not an error; logout stays idempotent.
func (r *TokenRepository) DeleteByHash(ctx context.Context, userID string, tokenHash []byte) error {
	const query = `DELETE FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2`
	_, err := r.pool.Exec(ctx, query, userID, tokenHash)
	return err
}

func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
