package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/weekprep/backend/internal/model"
	"github.com/pageza/weekprep/backend/internal/repository"
	"github.com/pageza/weekprep/backend/internal/session"
	"github.com/pageza/weekprep/backend/internal/types"
)

const tokenTTL = 24 * time.Hour

type AuthService struct {
	users     UserStore
	sessions  *session.Manager
	jwtSecret string
	log       *zap.Logger
}

func NewAuthService(users UserStore, sessions *session.Manager, jwtSecret string, log *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		log:       log,
	}
}

// Register creates an account and signs the user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return "", nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks the password and loads the user's session snapshot.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout drops the user's session snapshot. The token itself stays valid until it expires.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.SignOut(ctx, userID)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (string, error) {
	if _, err := s.sessions.SignIn(ctx, user.ID); err != nil {
		return "", err
	}
	token, err := s.GenerateToken(user)
	if err != nil {
		return "", err
	}
	s.log.Info("user signed in", zap.String("user_id", user.ID.String()))
	return token, nil
}

func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := time.Now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
