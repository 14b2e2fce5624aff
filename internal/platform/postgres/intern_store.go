package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/internbook/internbook-api/internal/domain"
	"github.com/internbook/internbook-api/internal/platform/logger"
	"github.com/internbook/internbook-api/internal/store"
)

// internDoc is the JSONB form of an intern. The password hash lives in its
// own column so it never leaves the store inside a document.
type internDoc struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}

// PostgresInternStore implements store.InternStore.
type PostgresInternStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.InternStore = (*PostgresInternStore)(nil)

// NewPostgresInternStore creates an intern store on db. If logger is nil,
// the default logger is used.
func NewPostgresInternStore(db store.DBTX, logger *slog.Logger) *PostgresInternStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresInternStore{
		db:     db,
		logger: logger.With(slog.String("component", "intern_store")),
	}
}

// Create implements store.InternStore.Create.
func (s *PostgresInternStore) Create(ctx context.Context, intern *domain.Intern) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := intern.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if intern.HashedPassword == "" {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}

	doc, err := encodeDoc(internDoc{
		Name:       intern.Name,
		Email:      intern.Email,
		Department: intern.Department,
	})
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interns (id, email, password_hash, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, intern.ID, intern.Email, intern.HashedPassword, doc, intern.CreatedAt, intern.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("intern email already registered", slog.String("intern_id", intern.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
		}
		log.Error("failed to create intern",
			slog.String("error", err.Error()),
			slog.String("intern_id", intern.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.InternStore.GetByID.
func (s *PostgresInternStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Intern, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash, doc, created_at, updated_at
		FROM interns
		WHERE id = $1
	`, id)
	return s.scanOne(ctx, row)
}

// GetByEmail implements store.InternStore.GetByEmail.
func (s *PostgresInternStore) GetByEmail(ctx context.Context, email string) (*domain.Intern, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash, doc, created_at, updated_at
		FROM interns
		WHERE lower(email) = lower($1)
	`, email)
	return s.scanOne(ctx, row)
}

// List implements store.InternStore.List.
func (s *PostgresInternStore) List(ctx context.Context) ([]*domain.Intern, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, password_hash, doc, created_at, updated_at
		FROM interns
		ORDER BY doc->>'name', id
	`)
	if err != nil {
		log.Error("failed to list interns", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	interns := []*domain.Intern{}
	for rows.Next() {
		intern, err := scanIntern(rows)
		if err != nil {
			return nil, err
		}
		interns = append(interns, intern)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return interns, nil
}

func (s *PostgresInternStore) scanOne(ctx context.Context, row rowScanner) (*domain.Intern, error) {
	intern, err := scanIntern(row)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, store.ErrInternNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load intern",
			slog.String("error", err.Error()))
		return nil, mapped
	}
	return intern, nil
}

func scanIntern(row rowScanner) (*domain.Intern, error) {
	var (
		intern domain.Intern
		raw    []byte
		doc    internDoc
	)
	if err := row.Scan(&intern.ID, &intern.HashedPassword, &raw, &intern.CreatedAt, &intern.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeDoc(raw, &doc); err != nil {
		return nil, err
	}
	intern.Name = doc.Name
	intern.Email = doc.Email
	intern.Department = doc.Department
	return &intern, nil
}
