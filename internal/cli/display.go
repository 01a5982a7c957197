package cli

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/dmitrijs2005/mustardseed/internal/config"
	"github.com/dmitrijs2005/mustardseed/internal/models"
	"github.com/fatih/color"
	"golang.org/x/crypto/blake2b"
)

const maskedPassword = "********"

var websiteColor = color.New(color.FgCyan, color.Bold)

// fingerprint returns a short blake2b digest of the password, enough to tell
// two stored passwords apart without showing either.
func fingerprint(password string) string {
	sum := blake2b.Sum256([]byte(password))
	return hex.EncodeToString(sum[:6])
}

func displayPassword(password, mode string) string {
	switch mode {
	case config.DisplayPlain:
		return password
	case config.DisplayHashed:
		return fingerprint(password)
	default:
		return maskedPassword
	}
}

// printEntries writes view with 1-based indices.
func printEntries(w io.Writer, view []models.Entry, mode string) {
	if len(view) == 0 {
		fmt.Fprintln(w, "No entries.")
		return
	}
	for i, e := range view {
		fmt.Fprintf(w, "%3d. %s  %s  %s\n",
			i+1, websiteColor.Sprint(e.Website), e.Username, displayPassword(e.Password, mode))
	}
}
