package models

import "strings"

// User represents a phone-identified account holder.
type User struct {
	SerialBase
	Phone        string  `gorm:"uniqueIndex;not null" json:"phone"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ChatID       *string `json:"chatId,omitempty"`
	PasswordHash string  `gorm:"not null" json:"-"`
}

// AuthorizedNumber is a phone number allowed to log in.
type AuthorizedNumber struct {
	Base
	Number string `gorm:"uniqueIndex;not null" json:"number"`
}

// NormalizePhone strips every non-digit character from a phone number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneSuffix returns the last four digits of a normalized phone number.
func PhoneSuffix(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return phone[len(phone)-4:]
}
