package request

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ResetPasswordRequest represents a superkey backed password reset
type ResetPasswordRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Superkey        string `json:"superkey" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

// ChangePasswordRequest represents a password change request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}

// UpdateProfileRequest represents a profile update request. Omitted store
// fields are kept; empty strings clear them.
type UpdateProfileRequest struct {
	Name             string  `json:"name" binding:"omitempty,min=2,max=255"`
	StoreName        *string `json:"store_name" binding:"omitempty,max=255"`
	StoreAddress     *string `json:"store_address"`
	StorePhone       *string `json:"store_phone" binding:"omitempty,max=50"`
	StoreCountryCode *string `json:"store_country_code" binding:"omitempty,max=8"`
}
