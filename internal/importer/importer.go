// Package importer turns rows of an external delimited file into password
// entries and commits them through the record store.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/mustardseed/internal/common"
	"github.com/dmitrijs2005/mustardseed/internal/logging"
	"github.com/dmitrijs2005/mustardseed/internal/models"
	"github.com/dmitrijs2005/mustardseed/internal/store"
	"github.com/google/uuid"
)

// Upserter is the store operation the importer commits through.
type Upserter interface {
	Upsert(ctx context.Context, e models.Entry) (store.Outcome, error)
}

// Result summarizes an import.
type Result struct {
	Imported int
	Skipped  int
	Created  int
	Updated  int
}

type Importer struct {
	store     Upserter
	log       logging.Logger
	delimiter rune
}

type Option func(*Importer)

func WithLogger(l logging.Logger) Option {
	return func(i *Importer) { i.log = l }
}

// WithDelimiter sets the field separator used by ReadCSV callers of this
// importer. The default is a comma.
func WithDelimiter(r rune) Option {
	return func(i *Importer) { i.delimiter = r }
}

func New(s Upserter, opts ...Option) *Importer {
	i := &Importer{store: s, log: logging.NewNop(), delimiter: ','}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportRows commits every row that has at least three fields whose first
// three trimmed values are non-empty, as (website, username, password).
// Other rows are counted as skipped and the import goes on. Rows matching an
// existing entry's key replace it. Rows already committed stay committed if
// the store fails on a later row; that failure is returned with the counts
// so far.
func (i *Importer) ImportRows(ctx context.Context, rows [][]string) (Result, error) {
	return i.importRows(ctx, rows, i.log)
}

func (i *Importer) importRows(ctx context.Context, rows [][]string, log logging.Logger) (Result, error) {
	var res Result
	for n, row := range rows {
		if len(row) < 3 {
			res.Skipped++
			log.Debug(ctx, "row skipped", "row", n+1, "reason", "fewer than 3 fields", "fields", len(row))
			continue
		}

		e := models.Entry{
			Website:  strings.TrimSpace(row[0]),
			Username: strings.TrimSpace(row[1]),
			Password: strings.TrimSpace(row[2]),
		}
		if err := e.Validate(); err != nil {
			res.Skipped++
			log.Debug(ctx, "row skipped", "row", n+1, "reason", err)
			continue
		}

		outcome, err := i.store.Upsert(ctx, e)
		if err != nil {
			return res, fmt.Errorf("import row %d: %w", n+1, err)
		}

		res.Imported++
		if outcome == store.OutcomeUpdated {
			res.Updated++
		} else {
			res.Created++
		}
	}
	return res, nil
}

// ReadCSV parses all of r as delimited rows. Rows may have any number of
// fields; quoted fields follow RFC 4180. Any parse error fails the whole read
// with common.ErrIO.
func ReadCSV(r io.Reader, delimiter rune) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse rows: %w", common.ErrIO, err)
	}
	return rows, nil
}

// isHeader reports whether row is a website,username,password header line.
func isHeader(row []string) bool {
	if len(row) < 3 {
		return false
	}
	want := []string{"website", "username", "password"}
	for n, w := range want {
		f := strings.ToLower(strings.TrimSpace(row[n]))
		if n == 0 {
			f = strings.TrimPrefix(f, "\ufeff")
		}
		if f != w {
			return false
		}
	}
	return true
}

// Import reads all rows from r and commits them with ImportRows. A leading
// website,username,password header row is ignored. Nothing is committed when
// r cannot be parsed.
func (i *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	log := i.log.With("import_id", uuid.NewString())

	rows, err := ReadCSV(r, i.delimiter)
	if err != nil {
		log.Error(ctx, "import aborted", "error", err)
		return Result{}, err
	}
	if len(rows) > 0 && isHeader(rows[0]) {
		rows = rows[1:]
	}

	log.Info(ctx, "import started", "rows", len(rows))
	res, err := i.importRows(ctx, rows, log)
	if err != nil {
		log.Error(ctx, "import stopped", "error", err, "imported", res.Imported)
		return res, err
	}
	log.Info(ctx, "import finished",
		"imported", res.Imported, "skipped", res.Skipped,
		"created", res.Created, "updated", res.Updated)
	return res, nil
}

// ImportFile opens path and imports it.
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: open %s: %w", common.ErrIO, path, err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}
