// Package findings persists lint runs and the findings they produce.
//
// A Run is created with NewRun before linting, collects rule findings with
// Run.Add, and is finished with Run.Complete. Storage backends live in the
// storage subpackage:
//
//   - storage.MemoryStorage: in-process, used by tests and one-shot runs
//   - storage.SQLiteStorage: database/sql over the "sqlite" (pure Go) or
//     "sqlite3" (cgo) driver
//
// Each finding carries a Fingerprint derived from rule, source, property and
// value so the same violation can be tracked across runs even when its line
// moves.
//
// Related subpackages:
//
//   - query: query validation and defaults
//   - export: JSON and CSV exporters
//   - retention: age and count based pruning with a cron scheduler
package findings
