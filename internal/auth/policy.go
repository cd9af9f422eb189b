package auth

import (
	"errors"
	"unicode"

	"finance_tracker/internal/config"
)

var ErrWeakPassword = errors.New("password does not meet the strength policy")

// PasswordPolicy is the configurable strength check applied at
// registration and on password change.
type PasswordPolicy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

func NewPasswordPolicy(cfg *config.PasswordConfig) PasswordPolicy {
	return PasswordPolicy{
		MinLength:     cfg.MinLength,
		RequireUpper:  cfg.RequireUpper,
		RequireLower:  cfg.RequireLower,
		RequireDigit:  cfg.RequireDigit,
		RequireSymbol: cfg.RequireSymbol,
	}
}

// DefaultPasswordPolicy requires 8+ characters with one character from
// each class.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireDigit:  true,
		RequireSymbol: true,
	}
}

func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if p.RequireUpper && !hasUpper {
		return ErrWeakPassword
	}
	if p.RequireLower && !hasLower {
		return ErrWeakPassword
	}
	if p.RequireDigit && !hasDigit {
		return ErrWeakPassword
	}
	if p.RequireSymbol && !hasSymbol {
		return ErrWeakPassword
	}

	return nil
}
