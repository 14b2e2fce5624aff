package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/service/auth"
	"github.com/internbook/internbook-api/internal/store"
)

// InternService provides intern account operations.
type InternService interface {
	// Register creates an intern account with a hashed password.
	// Returns store.ErrEmailExists if the email is taken.
	Register(ctx context.Context, name, email, department, password string) (*domain.Intern, error)

	// Authenticate checks email and password. Both an unknown email and a
	// wrong password return auth.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.Intern, error)

	// GetIntern retrieves an intern by id.
	GetIntern(ctx context.Context, id uuid.UUID) (*domain.Intern, error)

	// ListInterns returns all interns ordered by name.
	ListInterns(ctx context.Context) ([]*domain.Intern, error)
}

type internServiceImpl struct {
	interns  store.InternStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewInternService creates an InternService. It returns an error if any
// required dependency is nil.
func NewInternService(
	interns store.InternStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) (InternService, error) {
	if interns == nil {
		return nil, domain.NewValidationError("interns", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &internServiceImpl{
		interns:  interns,
		hasher:   hasher,
		verifier: verifier,
		logger:   logger.With(slog.String("component", "intern_service")),
	}, nil
}

// Register implements InternService.Register.
func (s *internServiceImpl) Register(
	ctx context.Context,
	name, email, department, password string,
) (*domain.Intern, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	intern, err := domain.NewIntern(name, email, department, password)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(intern.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, wrapErr("intern", "register", err)
	}
	intern.HashedPassword = hash
	intern.Password = ""

	if err := s.interns.Create(ctx, intern); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email")
			return nil, err
		}
		return nil, wrapErr("intern", "register", err)
	}

	log.Info("intern registered", slog.String("intern_id", intern.ID.String()))
	return intern, nil
}

// Authenticate implements InternService.Authenticate.
func (s *internServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.Intern, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	intern, err := s.interns.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrInternNotFound) {
			log.Debug("login for unknown email")
			return nil, auth.ErrInvalidCredentials
		}
		return nil, wrapErr("intern", "authenticate", err)
	}

	if err := s.verifier.Compare(intern.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("intern_id", intern.ID.String()))
		return nil, auth.ErrInvalidCredentials
	}

	return intern, nil
}

// GetIntern implements InternService.GetIntern.
func (s *internServiceImpl) GetIntern(ctx context.Context, id uuid.UUID) (*domain.Intern, error) {
	intern, err := s.interns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrInternNotFound) {
			return nil, err
		}
		return nil, wrapErr("intern", "get", err)
	}
	return intern, nil
}

// ListInterns implements InternService.ListInterns.
func (s *internServiceImpl) ListInterns(ctx context.Context) ([]*domain.Intern, error) {
	interns, err := s.interns.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interns: %w", err)
	}
	return interns, nil
}
