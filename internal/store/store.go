package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/mustardseed/internal/common"
	"github.com/dmitrijs2005/mustardseed/internal/logging"
	"github.com/dmitrijs2005/mustardseed/internal/models"
)

const (
	// ListKey is the blob key holding the encoded password list.
	ListKey = "password_list"
	// CorruptKey receives an undecodable ListKey value before it is overwritten.
	CorruptKey = "password_list.corrupt"
)

// Outcome reports what Upsert did.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Blobs is the key/value capability the store persists into.
type Blobs interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store holds the canonical entry list.
type Store struct {
	blobs   Blobs
	log     logging.Logger
	entries []models.Entry

	// corrupt holds an undecodable blob until it has been backed up.
	corrupt []byte
	loadErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for warnings and debug output.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open creates a Store over blobs and loads the persisted list.
//
// A blob store failure is returned as an error. A corrupt blob is not: the
// store starts empty, logs a data-loss warning and reports the decode error
// through LoadErr.
func Open(ctx context.Context, blobs Blobs, opts ...Option) (*Store, error) {
	s := &Store{blobs: blobs, log: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	entries, raw, err := s.load(ctx)
	switch {
	case errors.Is(err, common.ErrDecode):
		s.log.Warn(ctx, "persisted password list is unreadable, starting empty",
			"key", ListKey, "bytes", len(raw), "error", err)
		s.corrupt = raw
		s.loadErr = err
	case err != nil:
		return nil, err
	default:
		s.entries = entries
	}
	return s, nil
}

// LoadErr returns the decode error encountered by Open, if any.
func (s *Store) LoadErr() error {
	return s.loadErr
}

// Load reads and decodes the persisted list. A missing blob yields an
// empty list. An undecodable blob yields an empty list and an error
// wrapping common.ErrDecode.
func (s *Store) Load(ctx context.Context) ([]models.Entry, error) {
	entries, _, err := s.load(ctx)
	return entries, err
}

func (s *Store) load(ctx context.Context) ([]models.Entry, []byte, error) {
	raw, ok, err := s.blobs.Get(ctx, ListKey)
	if err != nil {
		return []models.Entry{}, nil, fmt.Errorf("load %s: %w: %w", ListKey, common.ErrIO, err)
	}
	if !ok {
		return []models.Entry{}, nil, nil
	}

	entries, err := decode(raw)
	if err != nil {
		return []models.Entry{}, raw, fmt.Errorf("load %s: %w: %w", ListKey, common.ErrDecode, err)
	}
	return entries, raw, nil
}

func decode(raw []byte) ([]models.Entry, error) {
	var entries []models.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

func encode(entries []models.Entry) ([]byte, error) {
	if entries == nil {
		entries = []models.Entry{}
	}
	return json.Marshal(entries)
}

// Save encodes entries and writes them under ListKey in a single Put.
// On success entries become the canonical list.
func (s *Store) Save(ctx context.Context, entries []models.Entry) error {
	data, err := encode(entries)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ListKey, err)
	}

	if s.corrupt != nil {
		if err := s.blobs.Put(ctx, CorruptKey, s.corrupt); err != nil {
			return fmt.Errorf("back up %s: %w: %w", CorruptKey, common.ErrIO, err)
		}
		s.log.Warn(ctx, "unreadable password list preserved", "key", CorruptKey, "bytes", len(s.corrupt))
		s.corrupt = nil
	}

	if err := s.blobs.Put(ctx, ListKey, data); err != nil {
		return fmt.Errorf("save %s: %w: %w", ListKey, common.ErrIO, err)
	}

	s.entries = slices.Clone(entries)
	return nil
}

// Entries returns a copy of the canonical list in store order.
func (s *Store) Entries() []models.Entry {
	return slices.Clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) indexOf(key models.Key) int {
	return slices.IndexFunc(s.entries, func(e models.Entry) bool {
		return e.Key() == key
	})
}

// Upsert validates candidate and stores its trimmed form. An entry with the
// same logical key is replaced in place; otherwise the candidate is appended.
// The list is persisted before Upsert returns.
func (s *Store) Upsert(ctx context.Context, candidate models.Entry) (Outcome, error) {
	if err := candidate.Validate(); err != nil {
		return "", err
	}
	e := candidate.Trimmed()

	next := slices.Clone(s.entries)
	outcome := OutcomeCreated
	if i := s.indexOf(e.Key()); i >= 0 {
		next[i] = e
		outcome = OutcomeUpdated
	} else {
		next = append(next, e)
	}

	if err := s.Save(ctx, next); err != nil {
		return "", err
	}

	s.log.Debug(ctx, "entry stored", "website", e.Website, "username", e.Username, "outcome", outcome)
	return outcome, nil
}

// DeleteByKey removes every entry whose logical key matches website and
// username, persisting the list if anything was removed. It reports whether
// anything was removed.
func (s *Store) DeleteByKey(ctx context.Context, website, username string) (bool, error) {
	key := models.NewKey(website, username)
	next := slices.DeleteFunc(slices.Clone(s.entries), func(e models.Entry) bool {
		return e.Key() == key
	})

	removed := len(s.entries) - len(next)
	if removed == 0 {
		return false, nil
	}

	if err := s.Save(ctx, next); err != nil {
		return false, err
	}

	s.log.Debug(ctx, "entry deleted", "website", website, "username", username, "removed", removed)
	return true, nil
}

// DeleteAt removes the entry shown at index of view (for example a filtered
// list) from the canonical list. The entry is resolved to its logical key
// first, so view and store indices do not need to agree.
func (s *Store) DeleteAt(ctx context.Context, view []models.Entry, index int) (models.Entry, error) {
	if index < 0 || index >= len(view) {
		return models.Entry{}, fmt.Errorf("%w: index %d out of range for %d entries", common.ErrNotFound, index, len(view))
	}
	target := view[index]

	removed, err := s.DeleteByKey(ctx, target.Website, target.Username)
	if err != nil {
		return models.Entry{}, err
	}
	if !removed {
		return models.Entry{}, fmt.Errorf("%w: %s / %s", common.ErrNotFound, target.Website, target.Username)
	}
	return target, nil
}
