package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/domain/entity"
	"github.com/sangkips/billbook-api/internal/domain/repository"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/oauth"
	"github.com/sangkips/billbook-api/pkg/utils"
	"go.uber.org/zap"
)

const (
	minPasswordLength   = 8
	maxSuperkeyAttempts = 5
	providerLocal       = "local"
	providerGoogle      = "google"
)

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	logger     *zap.Logger
	newKey     func() string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
		newKey:     utils.NewSuperkey,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	AccessToken  string
	RefreshToken string
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterOutput carries the superkey, which is only ever shown here
type RegisterOutput struct {
	LoginOutput
	Superkey string
}

// Register creates a new user account and issues its superkey
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	email := normalizeEmail(input.Email)

	var errs fieldErrors
	errs.required("name", input.Name)
	errs.required("email", email)
	if len(input.Password) < minPasswordLength {
		errs.add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: hashedPassword,
		Provider: providerLocal,
	}
	superkey, err := s.createWithSuperkey(ctx, user)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return &RegisterOutput{LoginOutput: *tokens, Superkey: superkey}, nil
}

// createWithSuperkey inserts user with a fresh superkey, drawing a new key
// when the insert collides on the superkey index.
func (s *AuthService) createWithSuperkey(ctx context.Context, user *entity.User) (string, error) {
	for attempt := 1; attempt <= maxSuperkeyAttempts; attempt++ {
		superkey := s.newKey()
		user.Superkey = utils.DigestSuperkey(superkey)

		err := s.userRepo.Create(ctx, user)
		if err == nil {
			return superkey, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return "", err
		}

		// the collision may be on email from a concurrent signup
		existing, lookupErr := s.userRepo.GetByEmail(ctx, user.Email)
		if lookupErr != nil {
			return "", lookupErr
		}
		if existing != nil {
			return "", apperror.NewConflictError("Email already registered")
		}
		s.logger.Warn("superkey collision, regenerating", zap.Int("attempt", attempt))
	}
	return "", fmt.Errorf("could not generate a unique superkey after %d attempts", maxSuperkeyAttempts)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(user)
}

// ResetPasswordInput represents a superkey backed password reset
type ResetPasswordInput struct {
	Email       string
	Superkey    string
	NewPassword string
}

// ResetPassword sets a new password for the account identified by email once
// the presented superkey matches the stored digest.
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return apperror.NewFieldError("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return err
	}
	if user == nil || !utils.SuperkeyMatches(strings.TrimSpace(input.Superkey), user.Superkey) {
		return apperror.ErrInvalidSuperkey
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	s.logger.Info("password reset with superkey", zap.String("user_id", user.ID.String()))
	return nil
}

// GetCurrentUser returns the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password. Accounts created through
// Google sign-in may set a first password without a current one.
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	if len(input.NewPassword) < minPasswordLength {
		return apperror.NewFieldError("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user.HasPassword() && !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.ErrIncorrectPassword
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword)
}

// UpdateProfileInput represents the update profile input
type UpdateProfileInput struct {
	UserID           uuid.UUID
	Name             string
	StoreName        *string
	StoreAddress     *string
	StorePhone       *string
	StoreCountryCode *string
}

// UpdateProfile updates the user's name and store details
func (s *AuthService) UpdateProfile(ctx context.Context, input *UpdateProfileInput) (*entity.User, error) {
	user, err := s.GetCurrentUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = user.Name
	}

	profile := repository.ProfileFields{
		Name:             name,
		StoreName:        pick(input.StoreName, user.StoreName),
		StoreAddress:     pick(input.StoreAddress, user.StoreAddress),
		StorePhone:       pick(input.StorePhone, user.StorePhone),
		StoreCountryCode: pick(input.StoreCountryCode, user.StoreCountryCode),
	}
	if err := s.userRepo.UpdateProfile(ctx, user.ID, profile); err != nil {
		return nil, err
	}

	return s.GetCurrentUser(ctx, user.ID)
}

// LoginWithGoogle finds or creates the account for a verified Google profile
func (s *AuthService) LoginWithGoogle(ctx context.Context, profile *oauth.GoogleProfile) (*LoginOutput, error) {
	user, err := s.userRepo.GetByProvider(ctx, providerGoogle, profile.ID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		email := normalizeEmail(profile.Email)
		user, err = s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			if err := s.userRepo.LinkProvider(ctx, user.ID, providerGoogle, profile.ID); err != nil {
				return nil, err
			}
		} else {
			providerID := profile.ID
			user = &entity.User{
				Name:       strings.TrimSpace(profile.Name),
				Email:      email,
				Provider:   providerGoogle,
				ProviderID: &providerID,
			}
			if user.Name == "" {
				user.Name = email
			}
			if _, err := s.createWithSuperkey(ctx, user); err != nil {
				return nil, err
			}
			s.logger.Info("user registered with google", zap.String("user_id", user.ID.String()))
		}
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *entity.User) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// pick keeps current when update is nil; an empty update clears the field.
func pick(update, current *string) *string {
	if update == nil {
		return current
	}
	trimmed := strings.TrimSpace(*update)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
