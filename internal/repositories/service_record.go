package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
)

const serviceRecordColumns = `id, guitar_id, date, type, description, cost, notes, created_at, updated_at`

type serviceRecordRow struct {
	ID          int64
	GuitarID    int64
	Date        string
	Type        string
	Description string
	Cost        sql.NullFloat64
	Notes       sql.NullString
	CreatedAt   string
	UpdatedAt   string
}

func (r *serviceRecordRow) scanArgs() []any {
	return []any{
		&r.ID, &r.GuitarID, &r.Date, &r.Type, &r.Description, &r.Cost, &r.Notes, &r.CreatedAt, &r.UpdatedAt,
	}
}

func (r *serviceRecordRow) toModel() *models.ServiceRecord {
	return &models.ServiceRecord{
		ID:          r.ID,
		GuitarID:    r.GuitarID,
		Date:        r.Date,
		Type:        models.ServiceType(r.Type),
		Description: r.Description,
		Cost:        nullToFloatPtr(r.Cost),
		Notes:       nullToStringPtr(r.Notes),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func scanServiceRecord(s scanner) (*models.ServiceRecord, error) {
	var row serviceRecordRow
	if err := s.Scan(row.scanArgs()...); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

// ServiceRecordRepository implements [models.ServiceRecordRepository] for SQLite.
type ServiceRecordRepository struct {
	db    *sql.DB
	clock *clock
}

// NewServiceRecordRepository creates a new service record repository
func NewServiceRecordRepository(db *sql.DB) *ServiceRecordRepository {
	return &ServiceRecordRepository{db: db, clock: newClock()}
}

// WithClock replaces the time source used for CreatedAt and UpdatedAt.
func (r *ServiceRecordRepository) WithClock(now func() time.Time) *ServiceRecordRepository {
	r.clock = &clock{now: now}
	return r
}

// Create inserts a new service record. The guitar it references is not checked.
func (r *ServiceRecordRepository) Create(ctx context.Context, input models.ServiceRecordInput) (int64, error) {
	now := r.clock.stamp()
	query := `
		INSERT INTO service_records (guitar_id, date, type, description, cost, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		input.GuitarID,
		input.Date,
		string(input.Type),
		input.Description,
		floatPtrToNull(input.Cost),
		stringPtrToNull(input.Notes),
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create service record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get service record id: %w", err)
	}
	return id, nil
}

// GetAll returns every service record, newest service date first.
func (r *ServiceRecordRepository) GetAll(ctx context.Context) ([]*models.ServiceRecord, error) {
	query := `SELECT ` + serviceRecordColumns + ` FROM service_records ORDER BY date DESC, id DESC`
	return r.query(ctx, "list service records", query)
}

// GetByID retrieves a service record, returning [shared.ErrServiceRecordNotFound] when it does not exist.
func (r *ServiceRecordRepository) GetByID(ctx context.Context, id int64) (*models.ServiceRecord, error) {
	query := `SELECT ` + serviceRecordColumns + ` FROM service_records WHERE id = ?`

	record, err := scanServiceRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", shared.ErrServiceRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service record: %w", err)
	}
	return record, nil
}

// GetByGuitarID returns the service history of one guitar, newest service date first.
func (r *ServiceRecordRepository) GetByGuitarID(ctx context.Context, guitarID int64) ([]*models.ServiceRecord, error) {
	query := `SELECT ` + serviceRecordColumns + ` FROM service_records WHERE guitar_id = ? ORDER BY date DESC, id DESC`
	return r.query(ctx, "list service records of guitar", query, guitarID)
}

// Update writes the present fields of patch and refreshes UpdatedAt.
func (r *ServiceRecordRepository) Update(ctx context.Context, id int64, patch models.ServiceRecordPatch) (int64, error) {
	var set setClause

	addField(&set, "guitar_id", patch.GuitarID)
	addField(&set, "date", patch.Date)
	addField(&set, "type", patch.Type)
	addField(&set, "description", patch.Description)
	addField(&set, "cost", patch.Cost)
	addField(&set, "notes", patch.Notes)
	set.add("updated_at", r.clock.stamp())

	query := `UPDATE service_records SET ` + set.String() + ` WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return 0, fmt.Errorf("failed to update service record: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// Delete removes a single service record. Deleting an unknown id is not an error.
func (r *ServiceRecordRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM service_records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete service record: %w", err)
	}
	return nil
}

func (r *ServiceRecordRepository) query(ctx context.Context, op, query string, args ...any) ([]*models.ServiceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	records := make([]*models.ServiceRecord, 0)
	for rows.Next() {
		record, err := scanServiceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate service records: %w", err)
	}
	return records, nil
}
