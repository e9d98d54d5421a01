// Package config holds the runtime settings shared by the fillgrid
// binaries. Flags win over FILLGRID_* environment variables, which win
// over defaults.
package config

import (
	"flag"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	StructurePath string
	WordsPath     string
	OutputPath    string
	Debug         bool
	ShuffleTies   bool
	Timeout       time.Duration
}

func (c *Config) Load(args []string) error {
	v := viper.New()
	v.SetEnvPrefix("fillgrid")
	v.AutomaticEnv()
	v.SetDefault("structure", "")
	v.SetDefault("words", "")
	v.SetDefault("output", "")
	v.SetDefault("debug", false)
	v.SetDefault("shuffle", false)
	v.SetDefault("timeout", time.Duration(0))

	fs := flag.NewFlagSet("fillgrid", flag.ContinueOnError)
	fs.String("structure", "", "path to the grid structure file")
	fs.String("words", "", "path to the word list file")
	fs.String("output", "", "optional path for a PNG of the solution")
	fs.Bool("debug", false, "enable debug logging")
	fs.Bool("shuffle", false, "randomize heuristic tie-breaks")
	fs.Duration("timeout", 0, "give up after this long (0 means never)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		v.Set(f.Name, f.Value.String())
	})

	c.StructurePath = v.GetString("structure")
	c.WordsPath = v.GetString("words")
	c.OutputPath = v.GetString("output")
	c.Debug = v.GetBool("debug")
	c.ShuffleTies = v.GetBool("shuffle")
	c.Timeout = v.GetDuration("timeout")

	// Bare positional arguments work the classic way:
	// fillgrid structure.txt words.txt [output.png]
	if c.StructurePath == "" && fs.NArg() >= 2 {
		c.StructurePath = fs.Arg(0)
		c.WordsPath = fs.Arg(1)
		if fs.NArg() >= 3 {
			c.OutputPath = fs.Arg(2)
		}
	}
	return nil
}
