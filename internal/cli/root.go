package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/mustardseed/internal/config"
	"github.com/dmitrijs2005/mustardseed/internal/logging"
	"github.com/spf13/cobra"
)

// session carries the App opened by the root command's pre-run hook to the
// subcommands.
type session struct {
	app *App
}

func (s *session) Close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

// Execute builds the command tree, runs it with ctx and releases the
// backend afterwards.
func Execute(ctx context.Context) error {
	root, s := NewRootCmd()
	defer s.Close()
	return root.ExecuteContext(ctx)
}

// NewRootCmd returns the mustardseed command tree and a closer for the
// backend it opens. Each call builds a fresh tree so tests can run commands
// in isolation.
func NewRootCmd() (*cobra.Command, io.Closer) {
	s := &session{}
	flags := &config.Config{}

	root := &cobra.Command{
		Use:   "mustardseed",
		Short: "Keep website passwords in a local store",
		Long: `mustardseed keeps a single list of (website, username, password) entries.
Entries are identified by website and username, ignoring case and
surrounding spaces. Run without a command to start the interactive shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}
			cfg, err := config.Load(cmd.Flags(), flags)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			app, err := NewApp(cmd.Context(), cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if lerr := app.store.LoadErr(); lerr != nil {
				cmd.PrintErrf("warning: the saved list could not be read (%v); starting empty\n", lerr)
			}
			s.app = app
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return startShell(cmd.Context(), s.app)
		},
	}
	config.BindFlags(root.PersistentFlags(), flags)

	root.AddCommand(
		newAddCmd(s),
		newListCmd(s),
		newSearchCmd(s),
		newDeleteCmd(s),
		newImportCmd(s),
		newShellCmd(s),
	)
	return root, s
}

// needsApp reports whether cmd works on the password list. cobra's help and
// completion commands do not and must not open the backend.
func needsApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func newLogger(w io.Writer, level string) logging.Logger {
	if f, ok := w.(*os.File); ok {
		return logging.NewConsole(f, level)
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: logging.ParseLevel(level)})
	return logging.NewSlogLogger(slog.New(h))
}

func newAddCmd(s *session) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "add [website] [username]",
		Short: "Add an entry or replace the password of an existing one",
		Long: `Add stores a website, username and password. Values not given on the
command line are prompted for; the password is read without echo.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Add(cmd.Context(), argAt(args, 0), argAt(args, 1), password)
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted for when empty)")
	return cmd
}

func newListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "list [query]",
		Aliases: []string{"ls"},
		Short:   "List entries, optionally filtered by query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.List(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newSearchCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "List entries whose website or username contains query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.List(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newDeleteCmd(s *session) *cobra.Command {
	var (
		index int
		query string
	)
	cmd := &cobra.Command{
		Use:   "delete <website> <username> | --index N [--query q]",
		Short: "Delete entries by website and username or by list position",
		Long: `Delete removes every entry matching website and username.
With --index it removes the N-th entry (1-based) of the list that
"list --query q" would print.`,
		Aliases: []string{"rm"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("index") {
				if len(args) != 0 {
					return errors.New("--index takes no positional arguments")
				}
				return s.app.DeleteIndex(cmd.Context(), query, index)
			}
			if len(args) != 2 {
				return fmt.Errorf("expected website and username, got %d argument(s)", len(args))
			}
			return s.app.DeleteByKey(cmd.Context(), args[0], args[1])
		},
	}
	cmd.Flags().IntVarP(&index, "index", "n", 0, "1-based position in the filtered list")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter applied before --index")
	return cmd
}

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import website,username,password rows from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.app.Import(cmd.Context(), args[0])
		},
	}
}

func newShellCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startShell(cmd.Context(), s.app)
		},
	}
}

func startShell(ctx context.Context, a *App) error {
	fmt.Fprintln(a.out, "mustardseed shell (type 'help' for commands)")
	return runShell(ctx, a, a.reader, a.out)
}
