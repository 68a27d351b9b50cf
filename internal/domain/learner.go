package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Learner-specific validation errors
var (
	ErrEmptyLearnerID      = errors.New("learner ID cannot be empty")
	ErrEmptyLearnerName    = errors.New("learner name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Learner represents a registered learner account.
// Cards, review logs, and sessions all hang off a learner ID.
type Learner struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, held only during registration; never persisted
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	CEFRLevel      string    `json:"cefr_level,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLearner creates a new Learner with the given name, email, and password.
// It generates a new UUID for the learner ID and sets the timestamps.
//
// The plaintext password is kept on the struct for the caller to hash before
// storing; it is never written to the database.
func NewLearner(name, email, password string) (*Learner, error) {
	now := UTCNow()
	learner := &Learner{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  password,
		CEFRLevel: "A1",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := learner.Validate(); err != nil {
		return nil, err
	}

	return learner, nil
}

// Validate checks if the Learner has valid data.
// Returns an error if any field fails validation.
func (l *Learner) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLearnerID
	}

	if l.Name == "" {
		return ErrEmptyLearnerName
	}

	if l.Email == "" {
		return ErrEmptyEmail
	}

	if _, err := mail.ParseAddress(l.Email); err != nil {
		return ErrInvalidEmail
	}

	// During registration the plaintext password is present and must meet
	// length requirements (72 bytes is the bcrypt input limit). A learner
	// loaded from storage carries only the hash.
	if l.Password == "" {
		if l.HashedPassword == "" {
			return ErrEmptyPassword
		}
		return nil
	}

	if len(l.Password) < 12 {
		return ErrPasswordTooShort
	}
	if len(l.Password) > 72 {
		return ErrPasswordTooLong
	}

	return nil
}
