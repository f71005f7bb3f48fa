package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fianco/automatic"
	"github.com/domino14/fianco/config"
	"github.com/domino14/fianco/game"
	"github.com/domino14/fianco/search"
	"github.com/domino14/fianco/ttable"
	"github.com/domino14/fianco/zobrist"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with `new`")
	errAutoplaying       = errors.New("autoplay is running; stop it with `autoplay stop`")
	errNoBook            = errors.New("no opening book loaded; load one with `book load <file>`")
)

type shellcmd struct {
	cmd     string
	args    []string
	options map[string]string
}

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// ShellOptions are the settings changed with the `set` command.
type ShellOptions struct {
	depth      int
	moveTime   time.Duration
	useTT      bool
	quiescence bool
	nullMove   bool
}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "depth":
		return true, strconv.Itoa(opts.depth)
	case "time":
		return true, opts.moveTime.String()
	case "tt":
		return true, fmt.Sprintf("%v", opts.useTT)
	case "quiescence":
		return true, fmt.Sprintf("%v", opts.quiescence)
	case "nullmove":
		return true, fmt.Sprintf("%v", opts.nullMove)
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	keys := []string{"depth", "time", "tt", "quiescence", "nullmove"}
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range keys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

type ShellController struct {
	l          *readline.Instance
	out        io.Writer
	config     *config.Config
	execPath   string
	gitVersion string
	options    *ShellOptions

	game    *game.Game
	table   *ttable.Table
	zobrist *zobrist.Zobrist
	solver  *search.Solver
	book    *automatic.OpeningBook

	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// newController sets up everything but the terminal.
func newController(cfg *config.Config, out io.Writer) (*ShellController, error) {
	z := &zobrist.Zobrist{}
	if seed := cfg.GetUint64(config.ConfigZobristSeed); seed != 0 {
		z.InitializeSeeded(seed)
	} else {
		z.Initialize()
	}
	tt, err := cfg.NewTable()
	if err != nil {
		return nil, err
	}
	sc := &ShellController{
		out:     out,
		config:  cfg,
		zobrist: z,
		table:   tt,
		options: &ShellOptions{
			depth:      cfg.GetInt(config.ConfigSearchDepth),
			moveTime:   cfg.GetDuration(config.ConfigSearchTime),
			useTT:      true,
			quiescence: cfg.GetBool(config.ConfigQuiescence),
			nullMove:   cfg.GetBool(config.ConfigNullMove),
		},
	}
	sc.solver = search.NewSolver(tt, z)
	return sc, nil
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc, err := newController(cfg, os.Stderr)
	if err != nil {
		panic(err)
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mfianco>\033[0m ",
		HistoryFile:     "/tmp/fianco-readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	sc.execPath = execPath
	sc.gitVersion = gitVersion
	return sc
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := map[string]string{}
	// handle options
	for idx := 1; idx < len(fields); idx++ {
		if strings.HasPrefix(fields[idx], "-") {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[idx][1:]] = fields[idx+1]
			idx++
			continue
		}
		args = append(args, fields[idx])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "show", "s", "b":
		return sc.show(cmd)
	case "play", "pl", "p":
		return sc.play(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "moves", "gen":
		return sc.moves(cmd)
	case "search", "solve":
		return sc.search(cmd)
	case "aiplay", "ai", "a":
		return sc.aiplay(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "tt":
		return sc.tt(cmd)
	case "book":
		return sc.openingBook(cmd)
	case "set":
		return sc.set(cmd)
	case "help", "h":
		return sc.help(cmd)
	case "version":
		return msg(sc.gitVersion), nil
	default:
		return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
	}
}

func (sc *ShellController) executeLine(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "exit" {
		return true
	}
	cmd, err := extractFields(line)
	switch {
	case err == errNoData:
		return false
	case err != nil:
		sc.showError(err)
		return false
	}
	resp, err := sc.handle(cmd)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return false
}

// Execute runs a single command line and returns.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	sc.executeLine(line)
	sc.waitForAutoplay()
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if sc.executeLine(line) {
			sig <- syscall.SIGINT
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running autoplay.
func (sc *ShellController) Cleanup() {
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
	}
	sc.waitForAutoplay()
}
