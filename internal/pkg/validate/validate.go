package validate

import (
	"net/mail"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Email reports whether value is a bare address like "a@b.c".
func Email(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	return addr.Address == value && strings.Contains(value[strings.LastIndex(value, "@"):], ".")
}

func MaxLen(value string, limit int) bool {
	return limit <= 0 || len([]rune(value)) <= limit
}
