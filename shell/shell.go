// Package shell is an interactive front end for solving fill puzzles:
// load a structure and word list, solve, inspect, save an image.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/fillgrid/fillgrid/config"
	"github.com/fillgrid/fillgrid/grid"
	"github.com/fillgrid/fillgrid/render"
	"github.com/fillgrid/fillgrid/solver"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config
	out io.Writer

	curGrid       *grid.Grid
	curAssignment solver.Assignment
}

var errQuit = errors.New("quit")

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mfillgrid>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg, out: l.Stderr()}
}

func (sc *ShellController) load(structurePath, wordsPath string) error {
	g, err := grid.Load(structurePath, wordsPath)
	if err != nil {
		return err
	}
	sc.curGrid = g
	sc.curAssignment = nil
	log.Debug().Int("slots", len(g.Slots())).Msg("loaded-grid")
	showMessage(fmt.Sprintf("loaded %dx%d grid, %d slots, %d words",
		g.Height(), g.Width(), len(g.Slots()), len(g.Vocabulary())), sc.out)
	return nil
}

func (sc *ShellController) solve() error {
	if sc.curGrid == nil {
		return errors.New("please load a puzzle first with the `load` command")
	}
	var opts []solver.Option
	if sc.cfg.ShuffleTies {
		opts = append(opts, solver.WithTieShuffle())
	}
	ctx := context.Background()
	if sc.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sc.cfg.Timeout)
		defer cancel()
	}
	asgn, ok := solver.New(sc.curGrid, opts...).Solve(ctx)
	if !ok {
		sc.curAssignment = nil
		showMessage("No solution.", sc.out)
		return nil
	}
	sc.curAssignment = asgn
	return sc.show()
}

func (sc *ShellController) show() error {
	if sc.curAssignment == nil {
		return errors.New("nothing solved yet; use `solve`")
	}
	showMessage(render.Text(sc.curGrid, sc.curAssignment), sc.out)
	return nil
}

func (sc *ShellController) save(path string) error {
	if sc.curAssignment == nil {
		return errors.New("nothing solved yet; use `solve`")
	}
	if err := render.SavePNG(path, sc.curGrid, sc.curAssignment); err != nil {
		return err
	}
	showMessage("saved image to "+path, sc.out)
	return nil
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "load <structure> <words> - load a structure file and a word list\n")
	io.WriteString(w, "solve - fill the grid and show the result\n")
	io.WriteString(w, "show - show the last solution again\n")
	io.WriteString(w, "save <file.png> - save the last solution as an image\n")
	io.WriteString(w, "exit - leave the shell\n")
}

// Execute dispatches a single command line.
func (sc *ShellController) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "load":
		if len(fields) != 3 {
			return errors.New("usage: load <structure> <words>")
		}
		return sc.load(fields[1], fields[2])
	case "solve":
		return sc.solve()
	case "show":
		return sc.show()
	case "save":
		if len(fields) != 2 {
			return errors.New("usage: save <file.png>")
		}
		return sc.save(fields[1])
	case "help":
		usage(sc.out)
		return nil
	case "exit", "quit":
		return errQuit
	default:
		return fmt.Errorf("command %v not found", fields[0])
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		err = sc.Execute(strings.TrimSpace(line))
		if err == errQuit {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			log.Error().Err(err).Msg("")
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
