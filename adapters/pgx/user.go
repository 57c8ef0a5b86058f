package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/avelis/clavis"
)

func (a *Adapter) CreateUser(user *clavis.User) error {
	ctx := context.Background()

	query := `INSERT INTO public.users (userid, fullname, email, external_service, external_userid, external_username)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6) RETURNING created_at, updated_at`

	var extService, extUserID, extUsername *string
	if user.External != nil {
		extService = &user.External.Service
		extUserID = &user.External.UserID
		extUsername = &user.External.Username
	}

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		user.UserID, user.FullName, user.Email, extService, extUserID, extUsername).
		Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetUserByID(userID string) (*clavis.User, error) {
	return a.getUser(`WHERE userid = $1`, userID)
}

func (a *Adapter) GetUserByEmail(email string) (*clavis.User, error) {
	return a.getUser(`WHERE email = $1`, email)
}

func (a *Adapter) getUser(where, arg string) (*clavis.User, error) {
	ctx := context.Background()
	q := `SELECT userid, fullname, COALESCE(email, ''), external_service, external_userid, external_username, created_at, updated_at
		FROM public.users ` + where

	user := &clavis.User{}
	var extService, extUserID, extUsername *string
	err := a.pool.QueryRow(ctx, q, arg).Scan(
		&user.UserID, &user.FullName, &user.Email,
		&extService, &extUserID, &extUsername,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, clavis.ErrUserNotFound
		}
		return nil, err
	}
	if extService != nil {
		user.External = &clavis.ExternalID{Service: *extService}
		if extUserID != nil {
			user.External.UserID = *extUserID
		}
		if extUsername != nil {
			user.External.Username = *extUsername
		}
	}
	return user, nil
}

func (a *Adapter) UpdateUser(user *clavis.User) error {
	ctx := context.Background()
	q := `UPDATE public.users SET fullname = $1, email = NULLIF($2, ''), updated_at = now()
		WHERE userid = $3 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, user.FullName, user.Email, user.UserID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return clavis.ErrUserNotFound
		}
		return err
	}
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteUser(userID string) error {
	_, err := a.pool.Exec(context.Background(), `DELETE FROM public.users WHERE userid = $1`, userID)
	return err
}
