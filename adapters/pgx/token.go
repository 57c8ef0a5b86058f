package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/clavis"
)

func (a *Adapter) CreateToken(token *clavis.AuthToken) error {
	ctx := context.Background()

	query := `INSERT INTO public.auth_tokens (token_hash, userid, client_key, scope)
		VALUES ($1, $2, NULLIF($3, ''), $4) RETURNING created_at`

	var createdAt time.Time
	err := a.pool.QueryRow(ctx, query,
		token.TokenHash, token.UserID, token.ClientKey, token.Scope).
		Scan(&createdAt)
	if err != nil {
		return err
	}

	token.CreatedAt = createdAt
	return nil
}

func (a *Adapter) GetTokenByHash(tokenHash string) (*clavis.AuthToken, error) {
	ctx := context.Background()
	q := `SELECT token_hash, userid, COALESCE(client_key, ''), scope, created_at
		FROM public.auth_tokens WHERE token_hash = $1`

	token := &clavis.AuthToken{}
	err := a.pool.QueryRow(ctx, q, tokenHash).Scan(
		&token.TokenHash, &token.UserID, &token.ClientKey, &token.Scope, &token.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, clavis.ErrTokenNotFound
		}
		return nil, err
	}
	return token, nil
}

func (a *Adapter) DeleteToken(tokenHash string) error {
	_, err := a.pool.Exec(context.Background(), `DELETE FROM public.auth_tokens WHERE token_hash = $1`, tokenHash)
	return err
}
