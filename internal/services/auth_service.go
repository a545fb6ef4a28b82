package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avdoshkin/task-manager/internal/models"
	"github.com/avdoshkin/task-manager/internal/storage"
)

type authServiceImpl struct {
	logger             zerolog.Logger
	users              storage.UserStore
	sessions           storage.SessionStore
	jwtIssuer          string
	jwtSigningKey      []byte
	jwtAccessTokenTTL  time.Duration
	jwtRefreshTokenTTL time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	users storage.UserStore,
	sessions storage.SessionStore,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtAccessTokenTTL time.Duration,
	jwtRefreshTokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:             logger,
		users:              users,
		sessions:           sessions,
		jwtIssuer:          jwtIssuer,
		jwtSigningKey:      jwtSigningKey,
		jwtAccessTokenTTL:  jwtAccessTokenTTL,
		jwtRefreshTokenTTL: jwtRefreshTokenTTL,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, params.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("username", params.Username).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("username", params.Username).
			Msg("failed to select user by username")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("selected user")

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	affected, err := s.sessions.DeleteByUserID(ctx, user.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to delete sessions by user id")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Int64("affected", affected).
		Msg("deleted sessions by user id")

	session, err := s.createSession(ctx, user.ID, params.Fingerprint)
	if err != nil {
		return nil, err
	}

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(session.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", session.ID).
		Msg("logged in")
	return &AuthResult{
		UserID:                user.ID,
		Username:              user.Username,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, params RefreshParams) (*AuthResult, error) {
	session, err := s.sessions.GetByRefreshToken(ctx, params.RefreshToken, params.Fingerprint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().Msg("session not found")
			return nil, ErrSessionNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select session by refresh token")
		return nil, err
	}

	if session.ExpiresAt.Before(time.Now()) {
		s.logger.Error().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	session.RefreshToken = refreshToken

	now := time.Now()
	session.ExpiresAt = now.Add(s.jwtRefreshTokenTTL)
	session.UpdatedAt = now

	err = s.sessions.Update(ctx, session)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to update session")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("updated session")

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(session.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}
	s.logger.Info().
		Str("user_id", session.UserID).
		Str("session_id", session.ID).
		Msg("refreshed session")

	return &AuthResult{
		UserID:                session.UserID,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, params LoginParams) (*AuthResult, error) {
	now := time.Now()
	user := models.User{
		Username:  params.Username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	err = s.users.Insert(ctx, &user)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			s.logger.Error().
				Str("username", user.Username).
				Msg("user with this username already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("inserted user")

	session, err := s.createSession(ctx, user.ID, params.Fingerprint)
	if err != nil {
		return nil, err
	}

	accessToken, accessTokenExpiresAt, err := s.generateAccessToken(session.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", session.ID).
		Msg("registered user")
	return &AuthResult{
		UserID:                user.ID,
		Username:              user.Username,
		SessionID:             session.ID,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessTokenExpiresAt,
		RefreshToken:          session.RefreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, userID string) error {
	affected, err := s.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete sessions by user id")
		return err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", affected).
		Msg("deleted sessions by user id")

	s.logger.Info().
		Str("user_id", userID).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}
	return claims, nil
}

func (s *authServiceImpl) createSession(ctx context.Context, userID, fingerprint string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		UserID:      userID,
		Fingerprint: fingerprint,
		ExpiresAt:   now.Add(s.jwtRefreshTokenTTL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session uuid")
		return nil, err
	}
	session.ID = sessionUUID.String()

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}
	session.RefreshToken = refreshToken

	err = s.sessions.Insert(ctx, session)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert session")
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("inserted session")

	return session, nil
}

func (s *authServiceImpl) generateRefreshToken() (string, error) {
	const length = 32
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func (s *authServiceImpl) generateAccessToken(sessionID string) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtAccessTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}
