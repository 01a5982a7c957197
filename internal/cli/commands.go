package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/mustardseed/internal/common"
	"github.com/dmitrijs2005/mustardseed/internal/models"
	"github.com/dmitrijs2005/mustardseed/internal/search"
)

// Add stores an entry, prompting for any value left empty.
func (a *App) Add(ctx context.Context, website, username, password string) error {
	var err error
	if website == "" {
		if website, err = GetSimpleText(a.reader, "Website", a.out); err != nil {
			return err
		}
	}
	if username == "" {
		if username, err = GetSimpleText(a.reader, "Username", a.out); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = a.readSecret("Password"); err != nil {
			return err
		}
	}

	e := models.Entry{Website: website, Username: username, Password: password}
	outcome, err := a.store.Upsert(ctx, e)
	if err != nil {
		return err
	}
	a.lastView = nil

	e = e.Trimmed()
	a.printf("%s %s / %s\n", outcome, e.Website, e.Username)
	return nil
}

// List prints the entries matching query (all of them for a blank query)
// and remembers the printed view for index based commands.
func (a *App) List(ctx context.Context, query string) error {
	a.lastView = search.Filter(a.store.Entries(), query)
	if len(a.lastView) == 0 && a.store.Len() > 0 {
		a.printf("No entries match %q.\n", strings.TrimSpace(query))
		return nil
	}
	printEntries(a.out, a.lastView, a.config.DisplayMode)
	return nil
}

func (a *App) DeleteByKey(ctx context.Context, website, username string) error {
	removed, err := a.store.DeleteByKey(ctx, website, username)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s / %s", common.ErrNotFound, website, username)
	}
	a.printf("deleted %s / %s\n", website, username)
	return nil
}

// DeleteIndex deletes the n-th (1-based) entry of the list filtered by query.
func (a *App) DeleteIndex(ctx context.Context, query string, n int) error {
	return a.deleteFromView(ctx, search.Filter(a.store.Entries(), query), n)
}

// DeleteShown deletes the n-th entry of the last printed list.
func (a *App) DeleteShown(ctx context.Context, n int) error {
	if err := a.deleteFromView(ctx, a.lastView, n); err != nil {
		return err
	}
	a.lastView = nil
	return nil
}

func (a *App) deleteFromView(ctx context.Context, view []models.Entry, n int) error {
	e, err := a.store.DeleteAt(ctx, view, n-1)
	if err != nil {
		return err
	}
	a.printf("deleted %s / %s\n", e.Website, e.Username)
	return nil
}

// Edit pre-fills the n-th entry of the last printed list and saves the
// result with an upsert. If the key changed, the old entry is removed only
// after the new one has been stored. Renaming onto the key of another
// entry is refused with common.ErrConflict.
func (a *App) Edit(ctx context.Context, n int) error {
	if n < 1 || n > len(a.lastView) {
		return fmt.Errorf("%w: index %d", common.ErrNotFound, n)
	}
	cur := a.lastView[n-1]

	website, err := GetWithDefault(a.reader, "Website", cur.Website, a.out)
	if err != nil {
		return err
	}
	username, err := GetWithDefault(a.reader, "Username", cur.Username, a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Password (empty keeps current)")
	if err != nil {
		return err
	}
	if password == "" {
		password = cur.Password
	}

	next := models.Entry{Website: website, Username: username, Password: password}
	if next.Key() != cur.Key() && a.hasKey(next.Key()) {
		return fmt.Errorf("%w: %s / %s already exists", common.ErrConflict,
			strings.TrimSpace(website), strings.TrimSpace(username))
	}
	outcome, err := a.store.Upsert(ctx, next)
	if err != nil {
		return err
	}
	if next.Key() != cur.Key() {
		if _, err := a.store.DeleteByKey(ctx, cur.Website, cur.Username); err != nil {
			return err
		}
	}
	a.lastView = nil

	next = next.Trimmed()
	a.printf("%s %s / %s\n", outcome, next.Website, next.Username)
	return nil
}

func (a *App) hasKey(key models.Key) bool {
	return slices.ContainsFunc(a.store.Entries(), func(e models.Entry) bool {
		return e.Key() == key
	})
}

func (a *App) Import(ctx context.Context, path string) error {
	res, err := a.importer.ImportFile(ctx, path)
	a.lastView = nil
	if err != nil {
		return err
	}
	a.printf("imported %d, skipped %d (%d new, %d updated)\n",
		res.Imported, res.Skipped, res.Created, res.Updated)
	return nil
}
