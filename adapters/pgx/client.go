package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/clavis"
)

func (a *Adapter) CreateClient(client *clavis.Client) error {
	ctx := context.Background()

	query := `INSERT INTO public.clients (key, name, secret_hash, active)
		VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		client.Key, client.Name, client.SecretHash, client.Active).
		Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	client.CreatedAt = createdAt
	client.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetClientByKey(key string) (*clavis.Client, error) {
	ctx := context.Background()
	q := `SELECT key, name, secret_hash, active, created_at, updated_at
		FROM public.clients WHERE key = $1`

	client := &clavis.Client{}
	err := a.pool.QueryRow(ctx, q, key).Scan(
		&client.Key, &client.Name, &client.SecretHash, &client.Active,
		&client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, clavis.ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (a *Adapter) UpdateClient(client *clavis.Client) error {
	ctx := context.Background()
	q := `UPDATE public.clients SET name = $1, secret_hash = $2, active = $3, updated_at = now()
		WHERE key = $4 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q,
		client.Name, client.SecretHash, client.Active, client.Key).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return clavis.ErrClientNotFound
		}
		return err
	}
	client.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteClient(key string) error {
	_, err := a.pool.Exec(context.Background(), `DELETE FROM public.clients WHERE key = $1`, key)
	return err
}
