// File: cmd/config.go
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codesum/pkg/aggregate"
	"codesum/pkg/output"
)

// Viper keys. Flags use the same names with dashes.
const (
	keyStrategy      = "strategy"
	keyMaxReaders    = "max_readers"
	keyQueueCapacity = "queue_capacity"
	keyHidden        = "hidden"
	keyNoIgnore      = "no_ignore"
	keyIgnore        = "ignore"
	keyFormat        = "format"
	keyOutput        = "output"
	keyClipboard     = "clipboard"
	keyStats         = "stats"
	keyDebug         = "debug"
	keyLogLevel      = "log_level"
	keyTrace         = "trace"
	keyMetrics       = "metrics"
)

// settings is the resolved configuration of one invocation.
type settings struct {
	Strategy      string
	MaxReaders    int
	QueueCapacity int
	Hidden        bool
	NoIgnore      bool
	Ignore        []string
	Format        string
	Output        string
	Clipboard     bool
	Stats         bool
	Debug         bool
	LogLevel      string
	Trace         bool
	Metrics       bool
}

func (s settings) aggregateOptions() aggregate.Options {
	return aggregate.Options{
		MaxReaders:     s.MaxReaders,
		QueueCapacity:  s.QueueCapacity,
		Hidden:         s.Hidden,
		NoIgnore:       s.NoIgnore,
		IgnorePatterns: s.Ignore,
	}
}

// registerFlags defines the root command flags and binds each one to its
// viper key.
func registerFlags(cmd *cobra.Command, v *viper.Viper) {
	defaults := aggregate.DefaultOptions()
	flags := cmd.Flags()

	flags.StringP("strategy", "s", aggregate.StrategyConcurrent, "Aggregation strategy: sequential or concurrent")
	flags.IntP("max-readers", "j", defaults.MaxReaders, "Concurrent file reads (0 for one per CPU, negative for unbounded)")
	flags.Int("queue-capacity", defaults.QueueCapacity, "Buffered entries per pipeline queue")
	flags.BoolP("hidden", "H", false, "Include hidden files and directories")
	flags.Bool("no-ignore", false, "Don't respect .gitignore, .ignore and .codesumignore files")
	flags.StringSliceP("ignore", "i", nil, "Additional gitignore-style patterns to exclude (comma-separated)")
	flags.StringP("format", "f", output.FormatText, "Output format: "+strings.Join(output.Formats(), ", "))
	flags.StringP("output", "o", "", "Write output to this file instead of stdout")
	flags.BoolP("clipboard", "c", false, "Copy output to the clipboard")
	flags.Bool("stats", false, "Print a summary line to stderr")
	flags.Bool("debug", false, "Enable development logging")
	flags.String("log-level", "warn", "Minimum log level: debug, info, warn or error")
	flags.Bool("trace", false, "Export trace spans to stderr")
	flags.Bool("metrics", false, "Export metrics to stderr on exit")

	for key, flag := range map[string]string{
		keyStrategy:      "strategy",
		keyMaxReaders:    "max-readers",
		keyQueueCapacity: "queue-capacity",
		keyHidden:        "hidden",
		keyNoIgnore:      "no-ignore",
		keyIgnore:        "ignore",
		keyFormat:        "format",
		keyOutput:        "output",
		keyClipboard:     "clipboard",
		keyStats:         "stats",
		keyDebug:         "debug",
		keyLogLevel:      "log-level",
		keyTrace:         "trace",
		keyMetrics:       "metrics",
	} {
		// Lookup cannot fail for flags registered above.
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	v.SetDefault(keyStrategy, aggregate.StrategyConcurrent)
	v.SetDefault(keyMaxReaders, defaults.MaxReaders)
	v.SetDefault(keyQueueCapacity, defaults.QueueCapacity)
	v.SetDefault(keyFormat, output.FormatText)
	v.SetDefault(keyLogLevel, "warn")
}

// initConfig loads the config file and environment into v. An explicit
// cfgFile must exist; otherwise codesum.{yaml,toml,json} is searched in the
// working directory and $HOME/.config/codesum, and a missing file is fine.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "codesum"))
		}
		v.SetConfigName("codesum")
	}

	v.SetEnvPrefix("CODESUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// loadSettings snapshots v after flags, environment and config are merged.
func loadSettings(v *viper.Viper) settings {
	return settings{
		Strategy:      v.GetString(keyStrategy),
		MaxReaders:    v.GetInt(keyMaxReaders),
		QueueCapacity: v.GetInt(keyQueueCapacity),
		Hidden:        v.GetBool(keyHidden),
		NoIgnore:      v.GetBool(keyNoIgnore),
		Ignore:        v.GetStringSlice(keyIgnore),
		Format:        v.GetString(keyFormat),
		Output:        v.GetString(keyOutput),
		Clipboard:     v.GetBool(keyClipboard),
		Stats:         v.GetBool(keyStats),
		Debug:         v.GetBool(keyDebug),
		LogLevel:      v.GetString(keyLogLevel),
		Trace:         v.GetBool(keyTrace),
		Metrics:       v.GetBool(keyMetrics),
	}
}
