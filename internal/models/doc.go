// Package models defines the records of a guitar collection and the persistence interfaces that serve them.
//
// The package contains three categories of types:
//
// 1. Persistent records: plain data returned by the repositories
//   - [Guitar] : An instrument in the collection
//   - [ServiceRecord] : A dated maintenance event belonging to one guitar
//
// 2. Inputs and patches: what callers hand to the repositories
//   - [GuitarInput], [ServiceRecordInput] : Every writable field, used on create
//   - [GuitarPatch], [ServiceRecordPatch] : Partial updates built from [Field] values
//
// 3. Persistence contracts
//   - [GuitarRepository] : CRUD, search and cascade delete for guitars
//   - [ServiceRecordRepository] : CRUD and per-guitar history for service records
//
// Validation lives here but is never invoked by a repository. Presentation code (CLI, HTTP, TUI)
// coerces raw strings with [OptionalInt], [OptionalFloat] and [OptionalString], then calls Validate
// before handing data to a repository.
package models
