package repositories

import (
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
)

var (
	_ models.GuitarRepository        = (*GuitarRepository)(nil)
	_ models.ServiceRecordRepository = (*ServiceRecordRepository)(nil)
)

// scanner is satisfied by both [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// clock issues timestamps for one repository.
//
// Successive stamps strictly increase even when the wall clock stalls or steps back,
// so an update always moves UpdatedAt forward.
type clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func newClock() *clock {
	return &clock{now: time.Now}
}

func (c *clock) stamp() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return shared.FormatTimestamp(t)
}

// setClause accumulates "column = ?" assignments for a partial UPDATE.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, arg any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, arg)
}

func (s *setClause) String() string {
	return strings.Join(s.cols, ", ")
}

// addField appends col when f is present; a cleared field writes NULL.
func addField[T any](s *setClause, col string, f models.Field[T]) {
	if !f.Present() {
		return
	}
	if v, ok := f.Value(); ok {
		s.add(col, v)
		return
	}
	s.add(col, nil)
}

// nullToStringPtr converts sql.NullString to *string
func nullToStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// nullToIntPtr converts sql.NullInt64 to *int
func nullToIntPtr(ni sql.NullInt64) *int {
	if ni.Valid {
		v := int(ni.Int64)
		return &v
	}
	return nil
}

// nullToFloatPtr converts sql.NullFloat64 to *float64
func nullToFloatPtr(nf sql.NullFloat64) *float64 {
	if nf.Valid {
		return &nf.Float64
	}
	return nil
}

// stringPtrToNull converts *string to sql.NullString
func stringPtrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// intPtrToNull converts *int to sql.NullInt64
func intPtrToNull(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// floatPtrToNull converts *float64 to sql.NullFloat64
func floatPtrToNull(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// photosToNull encodes photo references as a JSON array; an empty list is stored as NULL
func photosToNull(photos []string) (sql.NullString, error) {
	if len(photos) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// nullToPhotos decodes a JSON array written by [photosToNull]
func nullToPhotos(ns sql.NullString) ([]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var photos []string
	if err := json.Unmarshal([]byte(ns.String), &photos); err != nil {
		return nil, err
	}
	return photos, nil
}
