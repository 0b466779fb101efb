package models

import (
	"strings"
	"unicode"
)

// User is a dashboard user authenticated via OIDC. Users are not persisted;
// the claims live in the session.
type User struct {
	Sub     string `json:"sub"` // OIDC subject identifier
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// DisplayName returns the name to show in the header, falling back to the
// email and then the subject.
func (u *User) DisplayName() string {
	switch {
	case strings.TrimSpace(u.Name) != "":
		return strings.TrimSpace(u.Name)
	case u.Email != "":
		return u.Email
	default:
		return u.Sub
	}
}

// Initials returns up to two upper-case initials of the display name, used
// when the user has no picture.
func (u *User) Initials() string {
	var initials []rune
	for _, word := range strings.Fields(u.DisplayName()) {
		r := []rune(word)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		initials = append(initials, unicode.ToUpper(r))
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}
