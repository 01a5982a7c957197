package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/mustardseed/internal/blobstore"
	"github.com/dmitrijs2005/mustardseed/internal/config"
	"github.com/dmitrijs2005/mustardseed/internal/importer"
	"github.com/dmitrijs2005/mustardseed/internal/logging"
	"github.com/dmitrijs2005/mustardseed/internal/models"
	"github.com/dmitrijs2005/mustardseed/internal/store"
	"golang.org/x/term"
)

// App holds everything a command needs: the opened record store, the
// importer and the user's terminal.
type App struct {
	config   *config.Config
	blobs    blobstore.Store
	store    *store.Store
	importer *importer.Importer
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer

	// ttyFd is the descriptor used for echo-less password input, -1 when
	// input does not come from a terminal.
	ttyFd int

	// lastView is the list most recently printed by the shell. Indices
	// typed by the user refer to it.
	lastView []models.Entry
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	blobs, err := blobstore.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	st, err := store.Open(ctx, blobs, store.WithLogger(log))
	if err != nil {
		_ = blobs.Close()
		return nil, err
	}

	imp := importer.New(st,
		importer.WithLogger(log),
		importer.WithDelimiter(cfg.Delimiter()),
	)

	return &App{
		config:   cfg,
		blobs:    blobs,
		store:    st,
		importer: imp,
		log:      log,
		reader:   bufio.NewReader(in),
		out:      out,
		ttyFd:    terminalFd(in),
	}, nil
}

func terminalFd(in io.Reader) int {
	f, ok := in.(*os.File)
	if !ok {
		return -1
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return -1
	}
	return fd
}

func (a *App) Close() error {
	return a.blobs.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// readSecret reads a password without echo when attached to a terminal and
// falls back to a plain line otherwise (pipes, tests).
func (a *App) readSecret(prompt string) (string, error) {
	if a.ttyFd >= 0 {
		return GetPassword(a.ttyFd, prompt, a.out)
	}
	return GetSimpleText(a.reader, prompt, a.out)
}
