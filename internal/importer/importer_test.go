package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mustardseed/internal/blobstore/memory"
	"github.com/dmitrijs2005/mustardseed/internal/common"
	"github.com/dmitrijs2005/mustardseed/internal/models"
	"github.com/dmitrijs2005/mustardseed/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), memory.NewStore())
	require.NoError(t, err)
	return s
}

func TestImportRows_SkipPolicy(t *testing.T) {
	s := newStore(t)
	rows := [][]string{
		{"a.com", "u1", "p1"},
		{"b.com", "u2"},
		{"", "u3", "p3"},
		{"c.com", "u4", "p4"},
	}

	res, err := New(s).ImportRows(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, []models.Entry{
		{Website: "a.com", Username: "u1", Password: "p1"},
		{Website: "c.com", Username: "u4", Password: "p4"},
	}, s.Entries())
}

func TestImportRows_TrimsExtraFieldsAndUpserts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := s.Upsert(ctx, models.Entry{Website: "a.com", Username: "u", Password: "old"})
	require.NoError(t, err)

	rows := [][]string{
		{" A.com ", " U", "new ", "note", "ignored"},
		{"b.com", "u", "   "},
		{},
		{"b.com", "u", "p"},
	}
	res, err := New(s).ImportRows(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 2, Skipped: 2, Created: 1, Updated: 1}, res)
	assert.Equal(t, []models.Entry{
		{Website: "A.com", Username: "U", Password: "new"},
		{Website: "b.com", Username: "u", Password: "p"},
	}, s.Entries())
}

type failingUpserter struct {
	calls  int
	failAt int
}

func (f *failingUpserter) Upsert(ctx context.Context, e models.Entry) (store.Outcome, error) {
	f.calls++
	if f.calls == f.failAt {
		return "", errors.Join(common.ErrIO, errors.New("disk full"))
	}
	return store.OutcomeCreated, nil
}

func TestImportRows_StoreFailureStopsAndKeepsCommitted(t *testing.T) {
	up := &failingUpserter{failAt: 2}
	rows := [][]string{{"a", "b", "c"}, {"d", "e", "f"}, {"g", "h", "i"}}

	res, err := New(up).ImportRows(context.Background(), rows)
	require.ErrorIs(t, err, common.ErrIO)
	assert.Contains(t, err.Error(), "import row 2")
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, up.calls)
}

func TestReadCSV(t *testing.T) {
	in := "a.com,u1,p1\n\"b,com\",\"u 2\",\"p\"\"q\"\nshort,row\n"
	rows, err := ReadCSV(strings.NewReader(in), ',')
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"a.com", "u1", "p1"},
		{"b,com", "u 2", `p"q`},
		{"short", "row"},
	}, rows)

	rows, err = ReadCSV(strings.NewReader("a;b;c\n"), ';')
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, rows)
}

func TestReadCSV_MalformedIsIOError(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,\"unterminated\n"), ',')
	require.ErrorIs(t, err, common.ErrIO)
}

func TestImport_MalformedCommitsNothing(t *testing.T) {
	s := newStore(t)
	in := "a.com,u1,p1\nb.com,\"bad\"quote,p\n"

	_, err := New(s).Import(context.Background(), strings.NewReader(in))
	require.ErrorIs(t, err, common.ErrIO)
	assert.Empty(t, s.Entries())
}

func TestImport_SkipsHeaderRow(t *testing.T) {
	s := newStore(t)
	in := "\ufeffWebsite,Username,Password\na.com,u,p\n"

	res, err := New(s).Import(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 1, Created: 1}, res)
	assert.Equal(t, 1, s.Len())
}

func TestImport_InvalidUTF8RowsSkipped(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	in := "caf\xe9.fr,bob,pass\nbank.com,alice,p\xe4ss\ncafé.fr,carol,pässwörd\n"

	res, err := New(s).Import(ctx, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, Result{Imported: 1, Skipped: 2, Created: 1}, res)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{{Website: "café.fr", Username: "carol", Password: "pässwörd"}}, got)
	assert.Equal(t, got, s.Entries())
}

func TestImportFile(t *testing.T) {
	s := newStore(t)
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("a.com;u;p\nb.com;u\n"), 0o600))

	res, err := New(s, WithDelimiter(';')).ImportFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportFile_MissingIsIOError(t *testing.T) {
	_, err := New(newStore(t)).ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, common.ErrIO)
}

func TestIsHeader(t *testing.T) {
	assert.True(t, isHeader([]string{" website", "USERNAME", "password", "extra"}))
	assert.False(t, isHeader([]string{"website", "username"}))
	assert.False(t, isHeader([]string{"site", "username", "password"}))
}
