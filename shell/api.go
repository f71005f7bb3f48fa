package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/fianco/automatic"
	"github.com/domino14/fianco/board"
	"github.com/domino14/fianco/config"
	"github.com/domino14/fianco/game"
	"github.com/domino14/fianco/search"
	"github.com/domino14/fianco/ttable"
)

func (sc *ShellController) intOption(cmd *shellcmd, key string, def int) (int, error) {
	v, ok := cmd.options[key]
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option -%s: %w", key, err)
	}
	return i, nil
}

func (sc *ShellController) durationOption(cmd *shellcmd, key string, def time.Duration) (time.Duration, error) {
	v, ok := cmd.options[key]
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("option -%s: %w", key, err)
	}
	return d, nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.game = game.New()
	return msg(sc.game.ToDisplayText()), nil
}

// load reads a board in the format printed by `show`.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file> [-turn white|black]")
	}
	dat, err := os.ReadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	b, err := board.FromDisplayText(string(dat))
	if err != nil {
		return nil, err
	}
	onturn := board.White
	switch strings.ToLower(cmd.options["turn"]) {
	case "", "white", "w":
	case "black", "b":
		onturn = board.Black
	default:
		return nil, fmt.Errorf("unknown side %q", cmd.options["turn"])
	}
	sc.game = game.FromBoard(b, onturn)
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <move> [<move>...], e.g. play E2-E3")
	}
	for _, a := range cmd.args {
		m, err := board.ParseMove(a)
		if err != nil {
			return nil, err
		}
		if err := sc.game.PlayMove(m); err != nil {
			return nil, err
		}
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	n, err := strconv.Atoi(firstArg(cmd.args, "1"))
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := sc.game.UnplayLastMove(); err != nil {
			return nil, err
		}
	}
	return msg(sc.game.ToDisplayText()), nil
}

// firstArg returns the first argument, or def if there are none.
func firstArg(args []string, def string) string {
	if len(args) == 0 {
		return def
	}
	return args[0]
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	moves := sc.game.LegalMoves()
	if len(moves) == 0 {
		return msg("No legal moves."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d moves for %v:\n", len(moves), sc.game.PlayerOnTurn())
	for i, m := range moves {
		fmt.Fprintf(&sb, "%3d: %v\n", i+1, m)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) runSearch(cmd *shellcmd) (*search.Result, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	depth, err := sc.intOption(cmd, "depth", sc.options.depth)
	if err != nil {
		return nil, err
	}
	maxTime, err := sc.durationOption(cmd, "time", sc.options.moveTime)
	if err != nil {
		return nil, err
	}
	if logfile := cmd.options["log"]; logfile != "" {
		f, err := os.Create(logfile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sc.solver.SetLogStream(f)
		defer sc.solver.SetLogStream(nil)
	}
	sc.solver.SetTranspositionTableOptim(sc.options.useTT)
	sc.solver.SetQuiescence(sc.options.quiescence)
	sc.solver.SetNullMove(sc.options.nullMove)

	ctx := context.Background()
	if maxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxTime)
		defer cancel()
	}
	return sc.solver.Solve(ctx, sc.game, depth)
}

func formatResult(r *search.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Best move: %v\n", r.BestMove)
	switch {
	case r.Decided() && r.Score > 0:
		fmt.Fprintf(&sb, "Score:     %d (win in %d)\n", r.Score, board.WinScore-r.Score)
	case r.Decided():
		fmt.Fprintf(&sb, "Score:     %d (loss in %d)\n", r.Score, board.WinScore+r.Score)
	default:
		fmt.Fprintf(&sb, "Score:     %d\n", r.Score)
	}
	fmt.Fprintf(&sb, "Depth:     %d\n", r.Depth)
	fmt.Fprintf(&sb, "Nodes:     %d (%.2fs)\n", r.Nodes, r.Elapsed.Seconds())
	pv := make([]string, len(r.PV))
	for i, m := range r.PV {
		pv[i] = m.String()
	}
	fmt.Fprintf(&sb, "PV:        %s\n", strings.Join(pv, " "))
	sb.WriteString(formatStats(r.TableStats))
	return sb.String()
}

func formatStats(s ttable.Stats) string {
	return fmt.Sprintf("Table:     %d entries, %d stores, %d lookups, %d hits (%.1f%%), %d collisions",
		s.Capacity, s.Stores, s.Lookups, s.Hits, 100*s.HitRate(), s.Collisions)
}

func (sc *ShellController) search(cmd *shellcmd) (*Response, error) {
	res, err := sc.runSearch(cmd)
	if err != nil {
		return nil, err
	}
	return msg(formatResult(res)), nil
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	res, err := sc.runSearch(cmd)
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayMove(res.BestMove); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Played %v (score %d, depth %d)\n%s",
		res.BestMove, res.Score, res.Depth, sc.game.ToDisplayText())), nil
}

func (sc *ShellController) autoplaying() bool {
	if sc.autoplayDone == nil {
		return false
	}
	select {
	case <-sc.autoplayDone:
		return false
	default:
		return true
	}
}

func (sc *ShellController) waitForAutoplay() {
	if sc.autoplayDone != nil {
		<-sc.autoplayDone
	}
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 && cmd.args[0] == "stop" {
		if !sc.autoplaying() {
			return nil, errors.New("autoplay is not running")
		}
		sc.autoplayCancel()
		return msg("Stopping autoplay..."), nil
	}
	if sc.autoplaying() {
		return nil, errAutoplaying
	}
	games, err := sc.intOption(cmd, "games", sc.config.GetInt(config.ConfigGames))
	if err != nil {
		return nil, err
	}
	threads, err := sc.intOption(cmd, "threads", sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	logfile := cmd.options["file"]
	if logfile == "" {
		logfile = sc.config.GetString(config.ConfigGameLog)
	}
	f, err := os.Create(logfile)
	if err != nil {
		return nil, err
	}
	sc.config.Set(config.ConfigSearchDepth, sc.options.depth)
	sc.config.Set(config.ConfigSearchTime, sc.options.moveTime)
	sc.config.Set(config.ConfigQuiescence, sc.options.quiescence)
	sc.config.Set(config.ConfigNullMove, sc.options.nullMove)
	sc.config.Set(config.ConfigOpeningBook, cmd.options["book"])

	ctx, cancel := context.WithCancel(context.Background())
	sc.autoplayCancel = cancel
	done := make(chan struct{})
	sc.autoplayDone = done
	go func() {
		defer close(done)
		defer cancel()
		defer f.Close()
		summary, err := automatic.PlayGames(ctx, sc.config, games, threads, f)
		if err != nil {
			log.Err(err).Msg("autoplay-error")
		}
		if summary != nil {
			sc.showMessage(summary.String())
		}
	}()
	return msg(fmt.Sprintf("Playing %d games on %d threads; writing records to %s",
		games, threads, logfile)), nil
}

func (sc *ShellController) tt(cmd *shellcmd) (*Response, error) {
	switch firstArg(cmd.args, "") {
	case "":
		return msg(formatStats(sc.table.Stats()) + "\nPolicy:    " +
			sc.table.ReplacementPolicy().String()), nil
	case "reset":
		sc.table.ResetStats()
		return msg("Table statistics reset."), nil
	case "new":
		capacity := sc.config.TableCapacity()
		if len(cmd.args) > 1 {
			mb, err := strconv.Atoi(cmd.args[1])
			if err != nil {
				return nil, err
			}
			capacity = ttable.CapacityForMegabytes(mb)
		}
		t, err := ttable.New(capacity)
		if err != nil {
			return nil, err
		}
		sc.table = t
		sc.solver = search.NewSolver(t, sc.zobrist)
		return msg(fmt.Sprintf("Allocated a new table with %d entries.", capacity)), nil
	default:
		return nil, errors.New("usage: tt [reset | new [<mb>]]")
	}
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.options.ToDisplayText()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <option> <value>")
	}
	key, val := cmd.args[0], cmd.args[1]
	switch key {
	case "depth":
		d, err := strconv.Atoi(val)
		if err != nil {
			return nil, err
		}
		if d < 1 || d > search.MaxDepth {
			return nil, fmt.Errorf("depth must be between 1 and %d", search.MaxDepth)
		}
		sc.options.depth = d
	case "time":
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, err
		}
		sc.options.moveTime = d
	case "tt":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		sc.options.useTT = b
	case "quiescence":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		sc.options.quiescence = b
	case "nullmove":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return nil, err
		}
		sc.options.nullMove = b
	default:
		return nil, errors.New("option " + key + " not recognized")
	}
	_, shown := sc.options.Show(key)
	return msg(key + " set to " + shown), nil
}

func (sc *ShellController) openingBook(cmd *shellcmd) (*Response, error) {
	switch firstArg(cmd.args, "") {
	case "load":
		if len(cmd.args) != 2 {
			return nil, errors.New("usage: book load <file>")
		}
		f, err := os.Open(cmd.args[1])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		book, err := automatic.LoadOpeningBook(f)
		if err != nil {
			return nil, err
		}
		sc.book = book
		return msg(fmt.Sprintf("Loaded opening book: %d positions from %d games",
			book.Len(), book.Games())), nil
	case "":
	default:
		return nil, errors.New("usage: book [load <file>]")
	}
	if sc.book == nil {
		return nil, errNoBook
	}
	if sc.game == nil {
		return nil, errNoGame
	}
	moves := sc.book.Lookup(sc.game)
	if len(moves) == 0 {
		return msg("No book moves for this position."), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Book moves for %v:\n", sc.game.PlayerOnTurn())
	for _, m := range moves {
		fmt.Fprintf(&sb, "  %-8s %d\n", m.Move, m.Count)
	}
	return msg(sb.String()), nil
}
