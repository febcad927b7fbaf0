package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/seyniss/business-backend/internal/database"
	"github.com/seyniss/business-backend/internal/models"
	"github.com/seyniss/business-backend/pkg/jwt"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords, so login responses do not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrAccountLocked is returned while the login lockout window is active
var ErrAccountLocked = errors.New("account temporarily locked")

// TokenPair bundles the access and refresh tokens issued on login
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles business operator registration and login
type AuthService struct {
	users      *database.UserRepository
	businesses *database.BusinessRepository
	sessions   *database.SessionRepository
	lockout    *LockoutService
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users *database.UserRepository,
	businesses *database.BusinessRepository,
	sessions *database.SessionRepository,
	lockout *LockoutService,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		businesses: businesses,
		sessions:   sessions,
		lockout:    lockout,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a business user with its operator profile
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, *models.Business, error) {
	if _, err := s.users.GetByEmail(req.Email); err == nil {
		return nil, nil, fmt.Errorf("email already registered")
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Role:         models.UserRoleBusiness,
		IsActive:     true,
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}
	if err := s.users.Create(user); err != nil {
		return nil, nil, err
	}

	business := &models.Business{
		UserID:         user.ID,
		BusinessName:   req.BusinessName,
		BusinessNumber: req.BusinessNumber,
	}
	if err := s.businesses.Create(business); err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":     user.ID,
		"business_id": business.ID,
	}).Info("Business registered")

	return user, business, nil
}

// Login verifies credentials, enforces the lockout window and issues a token
// pair. The client IP and User-Agent are recorded as a login session.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, clientIP, userAgent string) (*models.User, *TokenPair, error) {
	locked, err := s.lockout.IsLocked(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if locked {
		return nil, nil, ErrAccountLocked
	}

	user, err := s.users.GetByEmail(req.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		_ = s.lockout.RecordFailure(ctx, req.Email)
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		_ = s.lockout.RecordFailure(ctx, req.Email)
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.lockout.Reset(ctx, req.Email); err != nil {
		s.logger.WithError(err).Warn("Failed to reset lockout counter")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}

	s.recordSession(user.ID, clientIP, userAgent)

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"ip":      clientIP,
	}).Info("User logged in")

	return user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, models.ErrUnauthorized
	}

	user, err := s.users.GetByID(claims.UserID)
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, models.ErrUnauthorized
	}

	access, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// recordSession stores a login audit row. Failures are logged and dropped;
// auditing must never break a login.
func (s *AuthService) recordSession(userID, clientIP, rawUserAgent string) {
	ua := user_agent.New(rawUserAgent)
	browser, version := ua.Browser()

	device := "desktop"
	if ua.Mobile() {
		device = "mobile"
	} else if ua.Bot() {
		device = "bot"
	}

	session := &models.LoginSession{
		UserID:    userID,
		IPAddress: clientIP,
		Device:    fmt.Sprintf("%s (%s)", device, ua.OS()),
		Browser:   fmt.Sprintf("%s %s", browser, version),
	}
	if err := s.sessions.Create(session); err != nil {
		s.logger.WithError(err).Warn("Failed to record login session")
	}
}
