package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/shlex"
	"github.com/user/loglens/internal/highlight"
	"github.com/user/loglens/internal/store"
)

// commandResult carries the outcome of one typed command back to the model.
// Jump is the line to scroll to when Jumped is set (search hits).
type commandResult struct {
	Jump   int
	Jumped bool
}

// handleCommand parses and executes one command-line input against the
// active store and the highlight engine. Command failures are reported, not
// fatal: the returned error is surfaced on the status line and the session
// continues.
func handleCommand(input string, lineNum int, st *store.LogStore, eng *highlight.Engine) (commandResult, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return commandResult{}, nil
	}

	if trimmed[0] == '/' || trimmed[0] == '?' {
		direction := store.SearchForward
		if trimmed[0] == '?' {
			direction = store.SearchBackward
		}

		parts, err := shlex.Split(trimmed[1:])
		if err != nil {
			return commandResult{}, fmt.Errorf("parse search: %w", err)
		}
		pattern := ""
		if len(parts) > 0 {
			pattern = parts[0]
		}

		line, found := runSearch(pattern, lineNum, st, eng, direction)
		slog.Debug("search", "pattern", pattern, "direction", direction, "found", found, "line", line)
		if !found {
			return commandResult{}, nil
		}
		return commandResult{Jump: line, Jumped: true}, nil
	}

	parts, err := shlex.Split(trimmed)
	if err != nil {
		return commandResult{}, fmt.Errorf("parse command: %w", err)
	}
	if len(parts) == 0 {
		return commandResult{}, nil
	}
	command, args := parts[0], parts[1:]
	slog.Debug("command", "name", command, "args", args)

	switch command {
	case "hl", "highlight":
		if len(args) == 0 {
			return commandResult{}, nil
		}
		color := ""
		if len(args) > 1 {
			color = args[1]
		}
		if err := eng.AddRule(args[0], color); err != nil {
			return commandResult{}, err
		}

	case "hd", "hide":
		if len(args) == 0 {
			return commandResult{}, nil
		}
		pattern := args[0]
		st.HideMatching(func(line string) bool {
			return strings.Contains(line, pattern)
		})

	case "sh", "show":
		if len(args) == 0 {
			return commandResult{}, nil
		}
		pattern := args[0]
		st.ShowMatching(func(line string) bool {
			return strings.Contains(line, pattern)
		})

	case "set":
		if len(args) < 2 {
			return commandResult{}, nil
		}
		switch args[0] {
		case "search_color":
			if err := eng.SetSearchColor(args[1]); err != nil {
				return commandResult{}, err
			}
		default:
			return commandResult{}, fmt.Errorf("unknown setting %q", args[0])
		}

	default:
		return commandResult{}, fmt.Errorf("unknown command %q", command)
	}

	return commandResult{}, nil
}

// runSearch resolves an empty pattern to the remembered one (excluding the
// current line, so repeated searches advance), records the pattern on the
// engine so matches render highlighted, and runs the store search.
func runSearch(pattern string, lineNum int, st *store.LogStore, eng *highlight.Engine, direction store.SearchDirection) (int, bool) {
	includeCurrent := true
	if pattern == "" {
		if eng.SearchPattern() == "" {
			return 0, false
		}
		pattern = eng.SearchPattern()
		includeCurrent = false
	}

	eng.SetSearchPattern(pattern)
	return st.Search(pattern, lineNum, includeCurrent, direction)
}
