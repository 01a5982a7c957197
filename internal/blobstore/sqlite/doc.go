// Package sqlite provides the default blob store: a key/value table in a
// local SQLite database (modernc.org/sqlite, no cgo).
//
// # Data Model
//
// A single table holds every blob:
//
//	blobs(key TEXT PRIMARY KEY, value BLOB NOT NULL)
//
// The schema is created by embedded goose migrations when the database is
// opened. Writes are a single INSERT ... ON CONFLICT DO UPDATE statement, so
// a Put either replaces the value for a key or leaves it untouched.
//
// Typical Usage
//
//	s, err := sqlite.Open(ctx, "passwords.db")
//	defer s.Close()
//	_ = s.Put(ctx, "password_list", data)
//	v, ok, _ := s.Get(ctx, "password_list")
package sqlite
