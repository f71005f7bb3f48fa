package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/fianco/board"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"search":   {Options: []string{"-depth", "-time", "-log"}},
	"aiplay":   {Options: []string{"-depth", "-time", "-log"}},
	"autoplay": {Options: []string{"-games", "-threads", "-file", "-book"}, Args: []string{"stop"}},
	"load":     {Options: []string{"-turn"}},
	"tt":       {Args: []string{"reset", "new"}},
	"book":     {Args: []string{"load"}},
	"set":      {Args: []string{"depth", "time", "tt", "quiescence", "nullmove"}},
	"help":     {Args: []string{"search", "autoplay", "tt", "book", "set"}},
}

var commandNames = []string{
	"new", "load", "show", "play", "undo", "moves", "search", "aiplay",
	"autoplay", "tt", "book", "set", "help", "version", "exit",
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-turn":
			completions = []string{"white", "black"}
		case cmdName == "set" && lastCompleteField == "tt":
			completions = []string{"true", "false"}
		case cmdName == "play" && c.sc.game != nil:
			completions = lo.Map(c.sc.game.LegalMoves(), func(m board.Move, _ int) string {
				return m.String()
			})
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
