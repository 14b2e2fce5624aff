package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
)

// InternStore defines the interface for intern account persistence.
type InternStore interface {
	// Create saves a new intern. The intern must carry a HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, intern *domain.Intern) error

	// GetByID retrieves an intern by id.
	// Returns ErrInternNotFound if the intern does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Intern, error)

	// GetByEmail retrieves an intern by email address, including the
	// password hash. Returns ErrInternNotFound if the intern does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Intern, error)

	// List returns all interns ordered by name.
	List(ctx context.Context) ([]*domain.Intern, error)
}
