// Package store owns the canonical, ordered list of password entries and
// keeps it in sync with its persisted form.
//
// # Persistence
//
// The whole list is encoded as one JSON array of
// {"website","username","password"} objects and written under the key
// "password_list" of a blob store (see internal/blobstore). Every successful
// mutation writes the full list before returning; when the write fails the
// in-memory list is left untouched, so memory and blob never diverge.
//
// # Identity
//
// Entries have no IDs. Two entries are the same record when their trimmed,
// case-insensitive (website, username) pairs match (models.Key). Upsert
// replaces such a record in place; DeleteByKey removes every match.
//
// # Corrupt data
//
// A blob that cannot be decoded is reported as common.ErrDecode and the
// store starts empty. Before the first write that would overwrite it, the
// raw bytes are copied once to "password_list.corrupt".
//
// A Store is not safe for concurrent use.
package store
