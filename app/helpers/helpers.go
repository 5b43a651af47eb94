package helpers

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyAdminID    contextKey = "adminID"
	ContextKeyAdminEmail contextKey = "adminEmail"
)

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := lowerFirst(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("Поле %s обязательно.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("Поле %s должно быть корректным email.", err.Field())
		case "numeric":
			errorMessages[field] = fmt.Sprintf("Поле %s должно быть числом.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("Поле %s: минимум %s.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("Поле %s: максимум %s.", err.Field(), err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("Поле %s должно быть одним из: %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("Проверка %s не пройдена для поля %s.", err.Tag(), err.Field())
		}
	}
	return errorMessages
}

func lowerFirst(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func PasswordCompare(hashPass string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashPass), password)
	if err != nil {
		logger.GetLogger().Debug("password does not match", zap.Error(err))
		return false
	}
	return true
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}
