package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jlenaghan/boliye/internal/domain"
	"github.com/jlenaghan/boliye/internal/store"
)

// MockLearnerStore implements store.LearnerStore for testing
type MockLearnerStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, learner *domain.Learner) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.Learner, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.Learner, error)
	UpdateFn     func(ctx context.Context, learner *domain.Learner) error
	DeleteFn     func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Learners        map[string]*domain.Learner
	LastLearnerID   uuid.UUID
	CreateError     error
	GetByEmailError error
}

// NewMockLearnerStore creates a new mock store with initialized defaults
func NewMockLearnerStore() *MockLearnerStore {
	return &MockLearnerStore{
		Learners: make(map[string]*domain.Learner),
	}
}

// Create implements the LearnerStore interface
func (m *MockLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, learner)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Learners[learner.Email]; exists {
		return store.ErrEmailExists
	}

	m.Learners[learner.Email] = learner
	m.LastLearnerID = learner.ID
	return nil
}

// GetByEmail implements the LearnerStore interface
func (m *MockLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	learner, exists := m.Learners[email]
	if !exists {
		return nil, store.ErrLearnerNotFound
	}

	return learner, nil
}

// GetByID implements the LearnerStore interface
func (m *MockLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	// Default implementation searches through Learners map
	for _, learner := range m.Learners {
		if learner.ID == id {
			return learner, nil
		}
	}

	return nil, store.ErrLearnerNotFound
}

// Update implements the LearnerStore interface
func (m *MockLearnerStore) Update(ctx context.Context, learner *domain.Learner) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, learner)
	}

	// Default simple implementation - just replace learner with same ID
	for email, existing := range m.Learners {
		if existing.ID == learner.ID {
			// If email changed, check it's not taken
			if email != learner.Email {
				if _, exists := m.Learners[learner.Email]; exists {
					return store.ErrEmailExists
				}
				// Remove old entry
				delete(m.Learners, email)
			}

			// Store updated learner
			m.Learners[learner.Email] = learner
			return nil
		}
	}

	return store.ErrLearnerNotFound
}

// Delete implements the LearnerStore interface
func (m *MockLearnerStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	// Default implementation searches through Learners map
	for email, learner := range m.Learners {
		if learner.ID == id {
			delete(m.Learners, email)
			return nil
		}
	}

	return store.ErrLearnerNotFound
}

// WithTx implements the LearnerStore interface for transaction support
func (m *MockLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	// For mock purposes, just return the same mock
	// In a real implementation, this would create a new store with the transaction
	return m
}

// MockLoginLearnerStore is a specialized mock for login tests
type MockLoginLearnerStore struct {
	GetByEmailFn    func(ctx context.Context, email string) (*domain.Learner, error)
	GetByEmailError error
	LearnerID       uuid.UUID
	LearnerEmail    string
	HashedPassword  string
}

// NewLoginMockLearnerStore creates a specialized mock for login testing
func NewLoginMockLearnerStore(learnerID uuid.UUID, email, hashedPassword string) *MockLoginLearnerStore {
	return &MockLoginLearnerStore{
		LearnerID:      learnerID,
		LearnerEmail:   email,
		HashedPassword: hashedPassword,
	}
}

// Create - placeholder implementation for LearnerStore interface
func (m *MockLoginLearnerStore) Create(ctx context.Context, learner *domain.Learner) error {
	return nil
}

// GetByEmail implements the LearnerStore interface with login-specific behavior
func (m *MockLoginLearnerStore) GetByEmail(ctx context.Context, email string) (*domain.Learner, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	if email != m.LearnerEmail {
		return nil, store.ErrLearnerNotFound
	}

	return &domain.Learner{
		ID:             m.LearnerID,
		Name:           "Login Learner",
		Email:          m.LearnerEmail,
		HashedPassword: m.HashedPassword,
	}, nil
}

// GetByID - placeholder implementation for LearnerStore interface
func (m *MockLoginLearnerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Learner, error) {
	return nil, nil
}

// Update - placeholder implementation for LearnerStore interface
func (m *MockLoginLearnerStore) Update(ctx context.Context, learner *domain.Learner) error {
	return nil
}

// Delete - placeholder implementation for LearnerStore interface
func (m *MockLoginLearnerStore) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// WithTx implements the LearnerStore interface for transaction support
func (m *MockLoginLearnerStore) WithTx(tx *sql.Tx) store.LearnerStore {
	// For mock purposes, just return the same mock
	return m
}
