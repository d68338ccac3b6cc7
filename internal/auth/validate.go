package auth

import (
	"regexp"
	"strings"

	"github.com/Spok95/academic-records/internal/apperr"
	"github.com/Spok95/academic-records/internal/models"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@.+$`)

// ValidateNewUser — проверки перед регистрацией. Порядок фиксированный:
// username, password, fullName, email, role; возвращается первая ошибка.
func ValidateNewUser(u models.User, plainPassword string) error {
	if err := validateUsername(u.Username); err != nil {
		return err
	}
	if err := ValidatePassword(plainPassword); err != nil {
		return err
	}
	return validateProfile(u)
}

// ValidateUserUpdate — профиль без пароля (смена пароля идёт отдельно).
func ValidateUserUpdate(u models.User) error {
	if err := validateUsername(u.Username); err != nil {
		return err
	}
	return validateProfile(u)
}

func ValidatePassword(p string) error {
	if strings.TrimSpace(p) == "" {
		return apperr.Validation("password", "Password is required")
	}
	if len(p) < 6 {
		return apperr.Validation("password", "Password must be at least 6 characters")
	}
	return nil
}

func validateUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("username", "Username is required")
	}
	if len(name) < 3 {
		return apperr.Validation("username", "Username must be at least 3 characters")
	}
	return nil
}

func validateProfile(u models.User) error {
	if strings.TrimSpace(u.FullName) == "" {
		return apperr.Validation("fullName", "Full name is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return apperr.Validation("email", "Email is required")
	}
	if !emailRe.MatchString(u.Email) {
		return apperr.Validation("email", "Invalid email format")
	}
	if strings.TrimSpace(string(u.Role)) == "" {
		return apperr.Validation("role", "Role is required")
	}
	return nil
}
