package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const shellHelp = `Available commands:
  add [website] [username]   add or update an entry
  (l)ist [query]             list entries, optionally filtered
  search <query>             list entries matching query
  delete <n>                 delete entry n of the last list
  edit <n>                   edit entry n of the last list
  import <path>              import rows from a CSV file
  exit | quit                leave the shell`

// shellExec is the command surface the shell needs. App satisfies it;
// tests provide a lightweight stub.
type shellExec interface {
	Add(ctx context.Context, website, username, password string) error
	List(ctx context.Context, query string) error
	DeleteShown(ctx context.Context, n int) error
	Edit(ctx context.Context, n int) error
	Import(ctx context.Context, path string) error
}

// runShell reads one command per line from reader and dispatches it to a.
// Errors returned by handlers are printed and the loop continues. The loop
// ends on EOF, on "exit"/"quit", or when ctx is cancelled.
//
// Handlers that prompt read from the same reader, so prompts and commands
// share one buffered stream.
func runShell(ctx context.Context, a shellExec, reader *bufio.Reader, w io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(w, "ms> ")

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if eof {
				fmt.Fprintln(w)
				return nil
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			fmt.Fprintln(w, shellHelp)

		case "add":
			website, username := argAt(args, 0), argAt(args, 1)
			cmdErr = a.Add(ctx, website, username, "")

		case "l", "list":
			cmdErr = a.List(ctx, strings.Join(args, " "))

		case "search":
			if len(args) == 0 {
				cmdErr = errors.New("usage: search <query>")
				break
			}
			cmdErr = a.List(ctx, strings.Join(args, " "))

		case "delete", "rm":
			var n int
			if n, cmdErr = indexArg(args); cmdErr == nil {
				cmdErr = a.DeleteShown(ctx, n)
			}

		case "edit":
			var n int
			if n, cmdErr = indexArg(args); cmdErr == nil {
				cmdErr = a.Edit(ctx, n)
			}

		case "import":
			if len(args) == 0 {
				cmdErr = errors.New("usage: import <path>")
				break
			}
			cmdErr = a.Import(ctx, strings.Join(args, " "))

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return nil

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "error:", cmdErr)
		}
		if eof {
			return nil
		}
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func indexArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected a single entry number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid entry number %q", args[0])
	}
	return n, nil
}
