package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/bus-booking-backend/internal/database"
	"github.com/smarttransit/bus-booking-backend/internal/models"
	"github.com/smarttransit/bus-booking-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password"

// AuthService handles registration, login and profile business logic
type AuthService struct {
	userRepo   *database.UserRepository
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo *database.UserRepository, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a user account and returns its id
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (int64, error) {
	email := strings.TrimSpace(req.Email)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ConflictError{Msg: "Email already exists"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, database.ErrEmailExists) {
			return 0, ConflictError{Msg: "Email already exists"}
		}
		return 0, err
	}

	s.logger.WithField("user_id", user.ID).Info("User registered")
	return user.ID, nil
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.LoginUser, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, UnauthorizedError{Msg: invalidCredentials}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("Login failed: password mismatch")
		return "", nil, UnauthorizedError{Msg: invalidCredentials}
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.FullName)
	if err != nil {
		return "", nil, err
	}

	return token, &models.LoginUser{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
	}, nil
}

// GetProfile returns the user's profile
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "User"}
	}
	return user, nil
}

// UpdateProfile applies a profile patch and returns the updated user
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.IsEmpty() {
		return nil, ValidationError{Msg: "No fields to update"}
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, trimmed(req.FullName), trimmed(req.Phone))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "User"}
	}

	s.logger.WithField("user_id", userID).Info("Profile updated")
	return user, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
