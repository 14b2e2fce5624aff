package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Intern validation errors
var (
	ErrEmptyInternID       = errors.New("intern ID cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

const (
	minPasswordLength = 8
	// bcrypt ignores anything past 72 bytes
	maxPasswordLength = 72
)

// Intern is a registered intern account. The ID is the identity claim
// embedded in every token issued for this account.
type Intern struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Department     string    `json:"department,omitempty"`
	Password       string    `json:"-"` // Plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewIntern creates a new Intern with a fresh ID and timestamps.
// The caller is responsible for hashing the password before storage.
func NewIntern(name, email, department, password string) (*Intern, error) {
	now := time.Now().UTC()
	intern := &Intern{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(name),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Department: strings.TrimSpace(department),
		Password:   password,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := intern.Validate(); err != nil {
		return nil, err
	}

	return intern, nil
}

// Validate checks if the Intern has valid data.
func (i *Intern) Validate() error {
	if i.ID == uuid.Nil {
		return ErrEmptyInternID
	}

	if i.Name == "" {
		return ErrEmptyName
	}

	if i.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(i.Email) {
		return ErrInvalidEmail
	}

	if i.Password != "" {
		switch {
		case len(i.Password) < minPasswordLength:
			return ErrPasswordTooShort
		case len(i.Password) > maxPasswordLength:
			return ErrPasswordTooLong
		}
		return nil
	}

	// Stored interns carry only the hash.
	if i.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

func validateEmailFormat(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms like "Jane <jane@example.com>".
	if addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}
