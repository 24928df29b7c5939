// Package storage provides findings.Storage backends.
//
// MemoryStorage keeps runs in a map guarded by a RWMutex. SQLiteStorage
// uses database/sql with either the pure Go "sqlite" driver
// (modernc.org/sqlite) or the cgo "sqlite3" driver (mattn/go-sqlite3):
//
//	findings:
//	  backend: sqlite
//	  sqlite:
//	    path: data/findings.db
//	    driver: sqlite
//	    journal_mode: WAL
//
// Runs and their findings are written in a single transaction; deleting a
// run deletes its findings.
package storage
