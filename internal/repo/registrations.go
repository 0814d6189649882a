package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ministryhub/internal/model"
)

type RegistrationRepository interface {
	CreateRegistrationTx(ctx context.Context, reg *model.Registration) error
	GetAllRegistrations(ctx context.Context) ([]model.Registration, error)
	GetRegistrationsByMinistry(ctx context.Context, ministryType string) ([]model.Registration, error)
	UpdateRegistration(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error)
	DeleteRegistrationTx(ctx context.Context, id string) error
}

const registrationColumns = `id, ministry_type, full_name, email, phone, message, created_at`

func scanRegistration(row rowScanner) (*model.Registration, error) {
	var reg model.Registration
	if err := row.Scan(
		&reg.ID,
		&reg.MinistryType,
		&reg.FullName,
		&reg.Email,
		&reg.Phone,
		&reg.Message,
		&reg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

// CreateRegistrationTx inserts the registration and bumps the ministry counter in one
// transaction. ID and CreatedAt are filled in on reg.
func (r *repository) CreateRegistrationTx(ctx context.Context, reg *model.Registration) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		id := uuid.NewString()
		err := tx.QueryRowContext(ctx, `
			INSERT INTO registrations (id, ministry_type, full_name, email, phone, message, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING created_at
		`, id, reg.MinistryType, reg.FullName, reg.Email, reg.Phone, reg.Message).Scan(&reg.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create registration: %w", mapConstraint(err))
		}
		reg.ID = id

		return adjustCount(ctx, tx, incrementQuery, reg.MinistryType)
	})
}

func (r *repository) GetAllRegistrations(ctx context.Context) ([]model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		ORDER BY created_at DESC
	`
	return r.queryRegistrations(ctx, query)
}

func (r *repository) GetRegistrationsByMinistry(ctx context.Context, ministryType string) ([]model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE ministry_type = $1
		ORDER BY created_at DESC
	`
	return r.queryRegistrations(ctx, query, ministryType)
}

func (r *repository) queryRegistrations(ctx context.Context, query string, args ...any) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrations: %w", err)
	}

	return regs, nil
}

func (r *repository) UpdateRegistration(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error) {
	query := `
		UPDATE registrations
		SET full_name = COALESCE($2, full_name),
		    email = COALESCE($3, email),
		    phone = COALESCE($4, phone),
		    message = COALESCE($5, message)
		WHERE id = $1
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.db.QueryRowContext(ctx, query,
		id, patch.FullName, patch.Email, patch.Phone, patch.Message,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration: %w", mapConstraint(err))
	}
	return reg, nil
}

// DeleteRegistrationTx removes the registration and decrements its ministry counter.
// A missing id yields ErrRegistrationNotFound and leaves counters untouched.
func (r *repository) DeleteRegistrationTx(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var ministryType string
		err := tx.QueryRowContext(ctx, `
			DELETE FROM registrations
			WHERE id = $1
			RETURNING ministry_type
		`, id).Scan(&ministryType)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRegistrationNotFound
			}
			return fmt.Errorf("failed to delete registration: %w", err)
		}

		return adjustCount(ctx, tx, decrementQuery, ministryType)
	})
}
