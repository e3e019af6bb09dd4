package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/helmcode/profile-comparator/pkg/analyzer"
	"github.com/helmcode/profile-comparator/pkg/formatter"
	"github.com/helmcode/profile-comparator/pkg/model"
)

const sessionHelp = `Commands:
  search BUSINESS [vs COMPETITOR[, COMPETITOR...]]   analyze, or compare with the first competitor
  retry                                              run the last search again
  clear                                              dismiss the current error
  status                                             show the session state
  show                                               show the last result again
  reset                                              forget the last search, result and error
  help                                               show this help
  quit                                               leave the session`

var errUnknownCommand = eris.New("unknown command")

type commandKind string

const (
	cmdSearch commandKind = "search"
	cmdRetry  commandKind = "retry"
	cmdClear  commandKind = "clear"
	cmdStatus commandKind = "status"
	cmdShow   commandKind = "show"
	cmdReset  commandKind = "reset"
	cmdHelp   commandKind = "help"
	cmdQuit   commandKind = "quit"
	cmdEmpty  commandKind = ""
)

type command struct {
	kind  commandKind
	input model.SearchInput
}

// parseCommand reads one session line. Competitors follow the first " vs ",
// separated by commas.
func parseCommand(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: cmdEmpty}, nil
	}

	word, rest, _ := strings.Cut(line, " ")
	switch kind := commandKind(strings.ToLower(word)); kind {
	case cmdSearch:
		return command{kind: cmdSearch, input: parseSearch(rest)}, nil
	case cmdRetry, cmdClear, cmdStatus, cmdShow, cmdReset, cmdHelp, cmdQuit:
		return command{kind: kind}, nil
	case "exit":
		return command{kind: cmdQuit}, nil
	default:
		return command{}, eris.Wrapf(errUnknownCommand, "%q", word)
	}
}

func parseSearch(s string) model.SearchInput {
	lower := strings.ToLower(s)
	idx := strings.Index(lower, " vs ")
	if idx < 0 {
		return model.NewSearchInput(s)
	}
	return model.NewSearchInput(s[:idx], strings.Split(s[idx+len(" vs "):], ",")...)
}

func NewSessionCmd(app *App) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive session that keeps the last search and result",
		Long: `Start an interactive session. Searches, results and errors are kept for the
life of the session, so a failed search can be retried or its error dismissed.

` + sessionHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, app, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format for results (human, json, yaml). Defaults to output.format")

	return cmd
}

func runSession(cmd *cobra.Command, app *App, format string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	a, st, scr, err := app.session(out, format)
	if err != nil {
		return err
	}
	app.Log.Info("session started")

	scr.Navigate(analyzer.ViewHome)
	if err := scr.Flush(); err != nil {
		return err
	}

	prompt := color.New(color.FgCyan, color.Bold)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		prompt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		c, err := parseCommand(scanner.Text())
		if err != nil {
			printError(out, fmt.Sprintf("%s. Type 'help' for the list of commands.", err))
			continue
		}

		switch c.kind {
		case cmdEmpty:
		case cmdQuit:
			app.Log.Info("session ended")
			return nil
		case cmdHelp:
			fmt.Fprintln(out, sessionHelp)
		case cmdSearch, cmdRetry:
			submit := func() error { return a.Submit(ctx, c.input) }
			label := spinnerSuffix(c.input)
			if c.kind == cmdRetry {
				if !st.CanRetry() {
					printError(out, "Nothing to retry.")
					continue
				}
				last, _ := st.LastSearch()
				submit = func() error { return a.Retry(ctx) }
				label = spinnerSuffix(last)
			}
			if err := withSpinner(label, submit); err != nil {
				reportFailure(out, st.LastError(), err)
				continue
			}
			if err := scr.Flush(); err != nil {
				return err
			}
		case cmdClear:
			a.ClearError()
			printSuccess(out, "Error cleared")
		case cmdStatus:
			formatter.DisplayStatus(out, st.Snapshot())
		case cmdShow:
			if err := formatter.DisplayResult(out, st.LastResult(), scr.format, formatter.WithMaxReviews(scr.maxReviews)); err != nil {
				return err
			}
		case cmdReset:
			st.Reset()
			printSuccess(out, "Session reset")
		}
	}

	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "failed to read input")
	}
	return nil
}

func reportFailure(w io.Writer, recorded string, err error) {
	if errors.Is(err, analyzer.ErrBusy) || recorded == "" {
		printError(w, err.Error())
		return
	}
	printError(w, recorded)
	fmt.Fprintf(w, "  %s\n", color.HiBlackString("Type 'retry' to try again or 'clear' to dismiss."))
}
