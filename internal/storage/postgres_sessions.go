package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/avdoshkin/task-manager/internal/models"
)

type postgresSessionStore struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewPostgresSessionStore(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) SessionStore {
	return &postgresSessionStore{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *postgresSessionStore) Insert(ctx context.Context, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      fingerprint,
                      refresh_token,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := s.pgPool.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert session")
		return err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Msg("inserted session")

	return nil
}

func (s *postgresSessionStore) GetByID(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{ID: id}

	const selectSessionByIDQuery = `
SELECT user_id,
       fingerprint,
       refresh_token,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectSessionByIDQuery,
		session.ID,
	).Scan(
		&session.UserID,
		&session.Fingerprint,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Str("session_id", session.ID).
				Msg("session not found")
			return nil, ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to select session by id")
		return nil, err
	}

	return session, nil
}

func (s *postgresSessionStore) GetByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	session := &models.Session{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	}

	const selectSessionByRefreshTokenQuery = `
SELECT id,
       user_id,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE refresh_token = $1 AND
      fingerprint = $2
`
	err := s.pgPool.QueryRow(
		ctx,
		selectSessionByRefreshTokenQuery,
		session.RefreshToken,
		session.Fingerprint,
	).Scan(
		&session.ID,
		&session.UserID,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().Msg("session not found")
			return nil, ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select session by refresh token")
		return nil, err
	}

	return session, nil
}

func (s *postgresSessionStore) Update(ctx context.Context, session *models.Session) error {
	const updateSessionQuery = `
UPDATE sessions
SET refresh_token = $1,
    expires_at = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateSessionQuery,
		session.RefreshToken,
		session.ExpiresAt,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to update session")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Msg("updated session")

	return nil
}

func (s *postgresSessionStore) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
       WHERE user_id = $1
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteSessionsByUserIDQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete sessions by user id")
		return 0, err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted sessions by user id")

	return tag.RowsAffected(), nil
}
