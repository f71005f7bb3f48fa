// Package config holds the settings for the fianco shell and self-play
// tools. Values come from (lowest to highest precedence) built-in
// defaults, an optional YAML config file, FIANCO_* environment variables
// and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/fianco/ttable"
)

const (
	ConfigDebug            = "debug"
	ConfigFile             = "config"
	ConfigTTMemoryMB       = "tt-memory-mb"
	ConfigTTMemoryFraction = "tt-memory-fraction"
	ConfigSearchDepth      = "search-depth"
	ConfigSearchTime       = "search-time"
	ConfigZobristSeed      = "zobrist-seed"
	ConfigThreads          = "threads"
	ConfigGames            = "games"
	ConfigGameLog          = "game-log"
	ConfigCPUProfile       = "cpu-profile"
	ConfigQuiescence       = "quiescence"
	ConfigNullMove         = "null-move"
	ConfigOpeningBook      = "opening-book"
	ConfigBookPlies        = "book-plies"
)

type Config struct {
	viper.Viper
	args []string
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("fianco", pflag.ContinueOnError)
	// stop at the first positional argument; the rest is a shell command.
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "turn on debug logging")
	fs.String(ConfigFile, "", "path to a YAML config file")
	fs.Int(ConfigTTMemoryMB, ttable.DefaultMemory>>20, "transposition table size in MiB")
	fs.Float64(ConfigTTMemoryFraction, 0, "if nonzero, size the transposition table as this fraction of system memory")
	fs.Int(ConfigSearchDepth, 6, "maximum search depth in plies")
	fs.Duration(ConfigSearchTime, 5*time.Second, "time limit for a single search")
	fs.Uint64(ConfigZobristSeed, 0, "seed for the Zobrist keys; 0 picks random keys")
	fs.Int(ConfigThreads, 1, "number of self-play workers")
	fs.Int(ConfigGames, 10, "number of self-play games")
	fs.String(ConfigGameLog, "games.yaml", "file to write self-play game records to")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.Bool(ConfigQuiescence, true, "follow captures past the search horizon")
	fs.Bool(ConfigNullMove, false, "use null-move pruning")
	fs.String(ConfigOpeningBook, "", "if set, build an opening book from the self-play games and write it to this file")
	fs.Int(ConfigBookPlies, 20, "number of plies of each game to put in the opening book")
	return fs
}

// DefaultConfig returns a config holding only the built-in defaults.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		// The default flag set never fails to parse an empty argument list.
		panic(err)
	}
	return c
}

// Load parses args and merges them with the environment and the config
// file, if one is named. Flag parsing stops at the first positional
// argument; it and everything after it can be retrieved with Args.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.SetEnvPrefix("fianco")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if cfgFile := c.GetString(ConfigFile); cfgFile != "" {
		c.SetConfigFile(cfgFile)
		c.SetConfigType("yaml")
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
		log.Debug().Str("file", cfgFile).Msg("read-config-file")
	}
	return nil
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings returns all settings, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}

// TableCapacity returns the number of transposition table entries the
// configuration asks for. A memory fraction, if set, wins over an absolute
// size.
func (c *Config) TableCapacity() int {
	if frac := c.GetFloat64(ConfigTTMemoryFraction); frac > 0 {
		return ttable.CapacityForMemoryFraction(frac)
	}
	return ttable.CapacityForMegabytes(c.GetInt(ConfigTTMemoryMB))
}

// NewTable allocates a transposition table of the configured size.
func (c *Config) NewTable() (*ttable.Table, error) {
	return ttable.New(c.TableCapacity())
}
