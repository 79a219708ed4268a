// package models defines the data model for the guitar collection
package models

import (
	"context"
)

// GuitarRepository defines data access for [Guitar] records.
// Implementations own timestamp stamping and the cascade on delete.
type GuitarRepository interface {
	Create(ctx context.Context, input GuitarInput) (int64, error)            // Create inserts a guitar and returns its new ID
	GetAll(ctx context.Context) ([]*Guitar, error)                           // GetAll returns every guitar, most recently updated first
	GetByID(ctx context.Context, id int64) (*Guitar, error)                  // GetByID returns a single guitar or a not-found error
	Update(ctx context.Context, id int64, patch GuitarPatch) (int64, error)  // Update merges a patch and returns the number of rows modified
	Delete(ctx context.Context, id int64) error                              // Delete removes a guitar and its service records atomically
	Search(ctx context.Context, query string) ([]*Guitar, error)             // Search matches brand, model, serial number and notes
	GetByType(ctx context.Context, guitarType GuitarType) ([]*Guitar, error) // GetByType filters by [GuitarType]
	Count(ctx context.Context) (int, error)                                  // Count returns the size of the collection
}

// ServiceRecordRepository defines data access for [ServiceRecord] records.
type ServiceRecordRepository interface {
	Create(ctx context.Context, input ServiceRecordInput) (int64, error)           // Create inserts a record and returns its new ID
	GetAll(ctx context.Context) ([]*ServiceRecord, error)                          // GetAll returns every record, newest service date first
	GetByID(ctx context.Context, id int64) (*ServiceRecord, error)                 // GetByID returns a single record or a not-found error
	GetByGuitarID(ctx context.Context, guitarID int64) ([]*ServiceRecord, error)   // GetByGuitarID returns one guitar's history, newest first
	Update(ctx context.Context, id int64, patch ServiceRecordPatch) (int64, error) // Update merges a patch and returns the number of rows modified
	Delete(ctx context.Context, id int64) error                                    // Delete removes a single record
}
