package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
)

const guitarColumns = `id, brand, model, type, year, serial_number, purchase_date, purchase_price,
	current_value, color, notes, photos, created_at, updated_at`

// guitarRow is the database representation of a [models.Guitar].
type guitarRow struct {
	ID            int64
	Brand         string
	Model         string
	Type          string
	Year          sql.NullInt64
	SerialNumber  sql.NullString
	PurchaseDate  sql.NullString
	PurchasePrice sql.NullFloat64
	CurrentValue  sql.NullFloat64
	Color         sql.NullString
	Notes         sql.NullString
	Photos        sql.NullString
	CreatedAt     string
	UpdatedAt     string
}

func (r *guitarRow) scanArgs() []any {
	return []any{
		&r.ID, &r.Brand, &r.Model, &r.Type, &r.Year, &r.SerialNumber, &r.PurchaseDate, &r.PurchasePrice,
		&r.CurrentValue, &r.Color, &r.Notes, &r.Photos, &r.CreatedAt, &r.UpdatedAt,
	}
}

func (r *guitarRow) toModel() (*models.Guitar, error) {
	photos, err := nullToPhotos(r.Photos)
	if err != nil {
		return nil, fmt.Errorf("failed to decode photos of guitar %d: %w", r.ID, err)
	}

	return &models.Guitar{
		ID:            r.ID,
		Brand:         r.Brand,
		Model:         r.Model,
		Type:          models.GuitarType(r.Type),
		Year:          nullToIntPtr(r.Year),
		SerialNumber:  nullToStringPtr(r.SerialNumber),
		PurchaseDate:  nullToStringPtr(r.PurchaseDate),
		PurchasePrice: nullToFloatPtr(r.PurchasePrice),
		CurrentValue:  nullToFloatPtr(r.CurrentValue),
		Color:         nullToStringPtr(r.Color),
		Notes:         nullToStringPtr(r.Notes),
		Photos:        photos,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}, nil
}

func scanGuitar(s scanner) (*models.Guitar, error) {
	var row guitarRow
	if err := s.Scan(row.scanArgs()...); err != nil {
		return nil, err
	}
	return row.toModel()
}

// GuitarRepository implements [models.GuitarRepository] for SQLite.
type GuitarRepository struct {
	db    *sql.DB
	clock *clock
}

// NewGuitarRepository creates a new guitar repository
func NewGuitarRepository(db *sql.DB) *GuitarRepository {
	return &GuitarRepository{db: db, clock: newClock()}
}

// WithClock replaces the time source used for CreatedAt and UpdatedAt.
func (r *GuitarRepository) WithClock(now func() time.Time) *GuitarRepository {
	r.clock = &clock{now: now}
	return r
}

// Create inserts a new guitar, stamping CreatedAt and UpdatedAt with the same instant.
func (r *GuitarRepository) Create(ctx context.Context, input models.GuitarInput) (int64, error) {
	photos, err := photosToNull(input.Photos)
	if err != nil {
		return 0, fmt.Errorf("failed to encode photos: %w", err)
	}

	now := r.clock.stamp()
	query := `
		INSERT INTO guitars (brand, model, type, year, serial_number, purchase_date, purchase_price,
			current_value, color, notes, photos, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		input.Brand,
		input.Model,
		string(input.Type),
		intPtrToNull(input.Year),
		stringPtrToNull(input.SerialNumber),
		stringPtrToNull(input.PurchaseDate),
		floatPtrToNull(input.PurchasePrice),
		floatPtrToNull(input.CurrentValue),
		stringPtrToNull(input.Color),
		stringPtrToNull(input.Notes),
		photos,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create guitar: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get guitar id: %w", err)
	}
	return id, nil
}

// GetAll returns every guitar, most recently updated first.
func (r *GuitarRepository) GetAll(ctx context.Context) ([]*models.Guitar, error) {
	query := `SELECT ` + guitarColumns + ` FROM guitars ORDER BY updated_at DESC, id DESC`
	return r.query(ctx, "list guitars", query)
}

// GetByID retrieves a guitar by ID, returning [shared.ErrGuitarNotFound] when it does not exist.
func (r *GuitarRepository) GetByID(ctx context.Context, id int64) (*models.Guitar, error) {
	query := `SELECT ` + guitarColumns + ` FROM guitars WHERE id = ?`

	guitar, err := scanGuitar(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", shared.ErrGuitarNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guitar: %w", err)
	}
	return guitar, nil
}

// Update writes the present fields of patch and refreshes UpdatedAt.
//
// CreatedAt is never touched. The returned count is 0 when no guitar has the given id.
func (r *GuitarRepository) Update(ctx context.Context, id int64, patch models.GuitarPatch) (int64, error) {
	var set setClause

	addField(&set, "brand", patch.Brand)
	addField(&set, "model", patch.Model)
	addField(&set, "type", patch.Type)
	addField(&set, "year", patch.Year)
	addField(&set, "serial_number", patch.SerialNumber)
	addField(&set, "purchase_date", patch.PurchaseDate)
	addField(&set, "purchase_price", patch.PurchasePrice)
	addField(&set, "current_value", patch.CurrentValue)
	addField(&set, "color", patch.Color)
	addField(&set, "notes", patch.Notes)
	if patch.Photos.Present() {
		list, _ := patch.Photos.Value()
		photos, err := photosToNull(list)
		if err != nil {
			return 0, fmt.Errorf("failed to encode photos: %w", err)
		}
		set.add("photos", photos)
	}
	set.add("updated_at", r.clock.stamp())

	query := `UPDATE guitars SET ` + set.String() + ` WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return 0, fmt.Errorf("failed to update guitar: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return n, nil
}

// Delete removes a guitar and all of its service records in one transaction.
//
// Deleting an unknown id is not an error. If either statement fails nothing is removed.
func (r *GuitarRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM guitars WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete guitar: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM service_records WHERE guitar_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete service records of guitar %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Search returns the guitars whose brand, model, serial number or notes contain query, ignoring case.
//
// The match runs over a full scan in id order.
func (r *GuitarRepository) Search(ctx context.Context, query string) ([]*models.Guitar, error) {
	all, err := r.query(ctx, "search guitars", `SELECT `+guitarColumns+` FROM guitars ORDER BY id`)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := make([]*models.Guitar, 0)
	for _, g := range all {
		if guitarMatches(g, needle) {
			matches = append(matches, g)
		}
	}
	return matches, nil
}

func guitarMatches(g *models.Guitar, needle string) bool {
	fields := []string{g.Brand, g.Model}
	if g.SerialNumber != nil {
		fields = append(fields, *g.SerialNumber)
	}
	if g.Notes != nil {
		fields = append(fields, *g.Notes)
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// GetByType returns the guitars of one type in id order.
func (r *GuitarRepository) GetByType(ctx context.Context, guitarType models.GuitarType) ([]*models.Guitar, error) {
	query := `SELECT ` + guitarColumns + ` FROM guitars WHERE type = ? ORDER BY id`
	return r.query(ctx, "list guitars by type", query, string(guitarType))
}

// Count returns the number of guitars in the collection.
func (r *GuitarRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guitars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count guitars: %w", err)
	}
	return n, nil
}

func (r *GuitarRepository) query(ctx context.Context, op, query string, args ...any) ([]*models.Guitar, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	guitars := make([]*models.Guitar, 0)
	for rows.Next() {
		g, err := scanGuitar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guitar: %w", err)
		}
		guitars = append(guitars, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guitars: %w", err)
	}
	return guitars, nil
}
