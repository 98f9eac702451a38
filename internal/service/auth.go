package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

const (
	SessionTTL       = 24 * time.Hour
	ResetTokenTTL    = time.Hour
	MinPasswordChars = 6

	MsgPasswordTooShort = "La contraseña debe tener al menos 6 caracteres"
)

type AuthService struct {
	db           *gorm.DB
	jwtSecret    string
	tokens       ITokenStore
	emailService IEmailService
	frontendURL  string
	now          func() time.Time
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokens ITokenStore, emailService IEmailService, frontendURL string) *AuthService {
	return &AuthService{
		db:           db,
		jwtSecret:    jwtSecret,
		tokens:       tokens,
		emailService: emailService,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		now:          time.Now,
	}
}

// WithClock replaces the clock used to stamp and check tokens.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if !validEmail(email) {
		return newValidationError("email", MsgInvalidEmail)
	}
	if utf8.RuneCountInString(password) < MinPasswordChars {
		return newValidationError("password", MsgPasswordTooShort)
	}
	return nil
}

// SignUp creates an account without any role. The new account can sign in
// but cannot open the console until an admin role is granted.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.InfoLogger.WithField("user_id", user.ID).Info("account created")
	return user, nil
}

// SignIn checks the password and issues a session token.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, *types.TokenClaims, error) {
	email = normalizeEmail(email)

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", nil, ErrInvalidCredentials
		}
		return nil, "", nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", nil, ErrInvalidCredentials
	}

	token, claims, err := s.generateToken(&user)
	if err != nil {
		return nil, "", nil, err
	}
	return &user, token, claims, nil
}

// SignOut revokes the session for whatever lifetime it had left.
func (s *AuthService) SignOut(ctx context.Context, claims *types.TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}

	ttl := SessionTTL
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	return s.tokens.Revoke(ctx, claims.ID, ttl)
}

func (s *AuthService) generateToken(user *models.User) (string, *types.TokenClaims, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
		UserID: user.ID,
		Email:  user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateToken parses a session token and rejects revoked sessions.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check session revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RequestPasswordReset mails a one-time reset link. Unknown addresses get
// the same response as known ones.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return newValidationError("email", MsgInvalidEmail)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := s.tokens.SaveResetToken(ctx, token, user.ID, ResetTokenTTL); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/auth/reset?token=%s", s.frontendURL, url.QueryEscape(token))
	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(&user, resetURL); err != nil {
			logger.ErrorLogger.WithError(err).WithField("user_id", user.ID).Error("failed to send password reset email")
		}
	}
	return nil
}

// ResetPassword sets a new password using a reset token. The token is spent
// even if the new password is then rejected.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if utf8.RuneCountInString(newPassword) < MinPasswordChars {
		return newValidationError("password", MsgPasswordTooShort)
	}

	userID, err := s.tokens.ConsumeResetToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", string(hash))
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvalidResetToken
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func newResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
