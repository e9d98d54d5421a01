package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fillgrid/fillgrid/config"
	"github.com/fillgrid/fillgrid/grid"
	"github.com/fillgrid/fillgrid/render"
	"github.com/fillgrid/fillgrid/solver"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("")
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	if cfg.StructurePath == "" || cfg.WordsPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fillgrid structure words [output.png]")
		os.Exit(2)
	}

	g, err := grid.Load(cfg.StructurePath, cfg.WordsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading grid")
	}

	var opts []solver.Option
	if cfg.ShuffleTies {
		opts = append(opts, solver.WithTieShuffle())
	}
	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	assignment, ok := solver.New(g, opts...).Solve(ctx)
	if !ok {
		fmt.Println("No solution.")
		return
	}
	fmt.Print(render.Text(g, assignment))
	if cfg.OutputPath != "" {
		if err := render.SavePNG(cfg.OutputPath, g, assignment); err != nil {
			log.Fatal().Err(err).Msg("saving image")
		}
	}
}
