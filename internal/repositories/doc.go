// Package repositories implements SQLite persistence for guitars and their service records.
//
// Each repository is a thin CRUD façade over one table and owns two policies the store does not:
//   - Timestamps: CreatedAt and UpdatedAt are stamped on create, UpdatedAt is refreshed on every update.
//   - Cascade: deleting a guitar deletes its service records in the same transaction.
//
// Key Implementations:
//   - [GuitarRepository] : Guitar CRUD, linear text search, type filtering, cascade delete
//   - [ServiceRecordRepository] : Service history CRUD with per-guitar lookups ordered by service date
//
// Repositories never validate input and never translate storage errors; both are the caller's job.
// Lookups by ID return [shared.ErrGuitarNotFound] or [shared.ErrServiceRecordNotFound], which wrap
// [shared.ErrNotFound], so "absent" is distinguishable from "storage failed" with [errors.Is].
package repositories
