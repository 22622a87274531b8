// Package flagx implements extensions to pflag.
package flagx

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
)

type FlagSet pflag.FlagSet

func Ext(fs *pflag.FlagSet) *FlagSet {
	return (*FlagSet)(fs)
}

func (fs *FlagSet) FlagSet() *pflag.FlagSet {
	return (*pflag.FlagSet)(fs)
}

// LevelP defines a slog level flag on the command line.
func LevelP(name, shorthand string, value slog.Level, usage string) *slog.LevelVar {
	return Ext(pflag.CommandLine).LevelP(name, shorthand, value, usage)
}

// LevelP defines a slog level flag accepting names like "debug" or "warn+2".
func (fs *FlagSet) LevelP(name, shorthand string, value slog.Level, usage string) *slog.LevelVar {
	level := new(slog.LevelVar)
	def := new(slog.LevelVar)
	def.Set(value)
	fs.FlagSet().TextVarP(level, name, shorthand, def, usage)
	return level
}

// ParseEnv sets command line flags from environment variables.
func ParseEnv(prefix string) error {
	return Ext(pflag.CommandLine).ParseEnv(prefix)
}

// ParseEnv sets flags from environment variables named prefix followed by
// the flag name in upper case with dashes as underscores, so with prefix
// "APP_", APP_LOG_LEVEL sets --log-level. Unknown names are reported to the
// flag set output and skipped.
func (fs *FlagSet) ParseEnv(prefix string) error {
	for _, env := range os.Environ() {
		k, v, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		s, ok := strings.CutPrefix(k, prefix)
		if !ok {
			continue
		}
		n := strings.Map(func(r rune) rune {
			switch r {
			case '_':
				return '-'
			}
			return unicode.ToLower(r)
		}, s)
		f := fs.FlagSet().Lookup(n)
		if f == nil {
			fmt.Fprintf(fs.FlagSet().Output(), "env %s: unknown flag --%s\n", k, n)
			continue
		}
		if err := fs.FlagSet().Set(n, v); err != nil {
			return fmt.Errorf("env %s: flag --%s: invalid argument: %w", k, n, err)
		}
	}
	return nil
}
