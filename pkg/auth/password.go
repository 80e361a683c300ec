// pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWeakPassword     = errors.New("password does not meet requirements")
	ErrPasswordMismatch = errors.New("password does not match")
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// PasswordPolicy describes the strength rules applied on registration.
type PasswordPolicy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// DefaultPasswordPolicy returns the policy used when nothing is configured.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8}
}

// PasswordManager handles password hashing and validation
type PasswordManager struct {
	cost   int
	policy PasswordPolicy
	// dummyHash is compared against when an account does not exist so that
	// a failed lookup costs the same as a failed comparison.
	dummyHash []byte
}

// NewPasswordManager creates a password manager with the default cost and policy
func NewPasswordManager() *PasswordManager {
	return NewPasswordManagerWithCost(DefaultCost, DefaultPasswordPolicy())
}

// NewPasswordManagerWithCost creates a password manager with an explicit bcrypt
// cost. Costs outside bcrypt's accepted range fall back to DefaultCost.
func NewPasswordManagerWithCost(cost int, policy PasswordPolicy) *PasswordManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("workdesk-dummy-password"), cost)
	if err != nil {
		// Only reachable with an invalid cost, which is guarded above.
		panic(fmt.Sprintf("auth: generate dummy hash: %v", err))
	}
	return &PasswordManager{
		cost:      cost,
		policy:    policy,
		dummyHash: dummy,
	}
}

// Cost returns the configured bcrypt work factor.
func (pm *PasswordManager) Cost() int {
	return pm.cost
}

// HashPassword hashes a password using bcrypt. It does not apply the policy;
// callers that accept new passwords run ValidatePassword first.
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword compares a password with a hash
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}

// VerifyPassword reports whether password matches hashedPassword.
func (pm *PasswordManager) VerifyPassword(hashedPassword, password string) bool {
	return pm.ComparePassword(hashedPassword, password) == nil
}

// BurnComparison runs a comparison against a fixed hash and discards the result.
func (pm *PasswordManager) BurnComparison(password string) {
	_ = bcrypt.CompareHashAndPassword(pm.dummyHash, []byte(password))
}

// ValidatePassword checks if a password meets the requirements
func (pm *PasswordManager) ValidatePassword(password string) error {
	if len(password) < pm.policy.MinLength {
		return fmt.Errorf("%w: minimum length is %d characters", ErrWeakPassword, pm.policy.MinLength)
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: maximum length is 72 bytes", ErrWeakPassword)
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if pm.policy.RequireUpper && !hasUpper {
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	}
	if pm.policy.RequireLower && !hasLower {
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	}
	if pm.policy.RequireNumber && !hasNumber {
		return fmt.Errorf("%w: must contain at least one number", ErrWeakPassword)
	}
	if pm.policy.RequireSpecial && !hasSpecial {
		return fmt.Errorf("%w: must contain at least one special character", ErrWeakPassword)
	}

	return nil
}

// ValidateEmail validates an email address format
func ValidateEmail(email string) error {
	if len(email) > 255 {
		return errors.New("email address too long")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}

	return nil
}
