package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Lookup errors
	ErrNotFound              = errors.New("not found")
	ErrGuitarNotFound        = fmt.Errorf("guitar %w", ErrNotFound)
	ErrServiceRecordNotFound = fmt.Errorf("service record %w", ErrNotFound)

	// Storage errors
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")
	ErrNoMigrations       = fmt.Errorf("no migrations to rollback")

	// Input validation errors
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrMissingArgument    = fmt.Errorf("missing required argument")
	ErrUnsupportedFormat  = fmt.Errorf("unsupported format")
	ErrOperationCancelled = fmt.Errorf("operation cancelled")
)
