package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"seekan/internal/apperr"
)

func (db *DB) ResolveToken(ctx context.Context, token string) (string, error) {
	var operatorID string
	err := db.Pool.QueryRow(ctx, `SELECT operator_id FROM api_tokens WHERE token=$1`, token).Scan(&operatorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.Auth("invalid token")
	}
	if err != nil {
		return "", err
	}
	return operatorID, nil
}

// EnsureToken registers a bootstrap token on startup, creating its operator
// when the token is new.
func (db *DB) EnsureToken(ctx context.Context, token, operatorName string) (string, error) {
	var operatorID string
	err := db.Pool.QueryRow(ctx, `SELECT operator_id FROM api_tokens WHERE token=$1`, token).Scan(&operatorID)
	if err == nil {
		return operatorID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	if err := db.Pool.QueryRow(ctx, `INSERT INTO operators (name) VALUES ($1) RETURNING id`, operatorName).Scan(&operatorID); err != nil {
		return "", err
	}
	if _, err := db.Pool.Exec(ctx, `INSERT INTO api_tokens (token, operator_id) VALUES ($1, $2)`, token, operatorID); err != nil {
		return "", err
	}
	return operatorID, nil
}
