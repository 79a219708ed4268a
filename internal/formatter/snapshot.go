package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/fretlog/internal/models"
	"github.com/desertthunder/fretlog/internal/shared"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion is written into every export and checked on import.
const SnapshotVersion = 1

// Snapshot is a point-in-time copy of the whole collection, with each guitar's service history nested under it.
type Snapshot struct {
	Version    int           `json:"version" yaml:"version"`
	ExportedAt string        `json:"exportedAt" yaml:"exported_at"`
	Guitars    []GuitarEntry `json:"guitars" yaml:"guitars"`
}

// GuitarEntry is a guitar plus its service records.
type GuitarEntry struct {
	models.Guitar  `yaml:",inline"`
	ServiceRecords []*models.ServiceRecord `json:"serviceRecords,omitempty" yaml:"service_records,omitempty"`
}

// TotalValue sums the current value of every guitar that has one, nil when none does.
func (s *Snapshot) TotalValue() *float64 {
	var total float64
	var found bool
	for _, entry := range s.Guitars {
		if entry.CurrentValue != nil {
			total += *entry.CurrentValue
			found = true
		}
	}
	if !found {
		return nil
	}
	return &total
}

// ServiceRecordCount returns the number of records across all guitars.
func (s *Snapshot) ServiceRecordCount() int {
	n := 0
	for _, entry := range s.Guitars {
		n += len(entry.ServiceRecords)
	}
	return n
}

// BuildSnapshot reads the collection, most recently updated guitar first.
//
// Service records whose guitar no longer exists are left out.
func BuildSnapshot(ctx context.Context, guitars models.GuitarRepository, records models.ServiceRecordRepository) (*Snapshot, error) {
	all, err := guitars.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	history, err := records.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	byGuitar := make(map[int64][]*models.ServiceRecord)
	for _, r := range history {
		byGuitar[r.GuitarID] = append(byGuitar[r.GuitarID], r)
	}

	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: shared.FormatTimestamp(time.Now()),
		Guitars:    make([]GuitarEntry, 0, len(all)),
	}
	for _, g := range all {
		snapshot.Guitars = append(snapshot.Guitars, GuitarEntry{Guitar: *g, ServiceRecords: byGuitar[g.ID]})
	}
	return snapshot, nil
}

// FormatFromPath infers an import format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// DecodeSnapshot parses a JSON or YAML snapshot.
func DecodeSnapshot(data []byte, format Format) (*Snapshot, error) {
	var snapshot Snapshot
	switch format {
	case JSON:
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON: %w", shared.ErrInvalidInput, err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %w", shared.ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("%w: cannot import %s", shared.ErrUnsupportedFormat, format)
	}

	if snapshot.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d is newer than %d", shared.ErrInvalidInput, snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}

// Validate checks every guitar and service record and reports all violations at once.
func (s *Snapshot) Validate() error {
	var errs []error
	for i, entry := range s.Guitars {
		if err := entry.Input().Validate(); err != nil {
			errs = append(errs, fmt.Errorf("guitar %d (%s): %w", i+1, entry.DisplayName(), err))
		}
		for j, r := range entry.ServiceRecords {
			in := r.Input()
			// Nested records take the id of the guitar created for them.
			in.GuitarID = 1
			if err := in.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("guitar %d service record %d: %w", i+1, j+1, err))
			}
		}
	}
	return errors.Join(errs...)
}

// ImportResult counts what [Import] created.
type ImportResult struct {
	Guitars        int
	ServiceRecords int
}

// Import validates snapshot and then creates every guitar and service record in it.
//
// IDs and timestamps are reassigned and service records are re-pointed at the new guitar ids. Nothing is
// written when validation fails; a storage failure part-way leaves what was created so far and reports it.
func Import(ctx context.Context, snapshot *Snapshot, guitars models.GuitarRepository, records models.ServiceRecordRepository) (*ImportResult, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, entry := range snapshot.Guitars {
		id, err := guitars.Create(ctx, entry.Input())
		if err != nil {
			return result, fmt.Errorf("failed to import %s: %w", entry.DisplayName(), err)
		}
		result.Guitars++

		for _, r := range entry.ServiceRecords {
			in := r.Input()
			in.GuitarID = id
			if _, err := records.Create(ctx, in); err != nil {
				return result, fmt.Errorf("failed to import service record of %s: %w", entry.DisplayName(), err)
			}
			result.ServiceRecords++
		}
	}
	return result, nil
}
