// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the songbook CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/songbook/internal/convert"
	"github.com/pdiddy/songbook/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger carries diagnostics for the running command. It is replaced in
// PersistentPreRunE once flags and config are known.
var logger = zap.NewNop()

// envErr is the failure to load an existing .env file. It is
// logged once the logger is built.
var envErr error

// rootCmd is the base command for the songbook CLI.
var rootCmd = &cobra.Command{
	Use:   "songbook",
	Short: "Split song-lyric documents into structured song collections",
	Long: `songbook converts lyrics documents (plain text, HTML, DOCX, PDF) into song
collections. A recurring title marker such as "பாடல்" splits the text into
songs, which are written as JSON, YAML, Markdown or HTML, indexed by their
first lyric line, and optionally stored in a local SQLite library.

Delimiter settings are grouped into presets; see "songbook presets".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetBool("verbose"))
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		if envErr != nil {
			logger.Warn("ignoring .env file", zap.Error(envErr))
		}
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./songbook.yaml or ~/.config/songbook/songbook.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")
	bindFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	envErr = loadDotEnv(".env")

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("songbook")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "songbook"))
		}
	}

	viper.SetEnvPrefix("SONGBOOK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadDotEnv loads variables from path into the environment. Variables
// already set take precedence. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// newLogger builds the diagnostic logger: debug-level development output
// when verbose, warnings and errors only otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// configuredPresets returns the presets declared under "presets" in the
// config file.
func configuredPresets() ([]types.Preset, error) {
	var presets []types.Preset
	if err := viper.UnmarshalKey("presets", &presets); err != nil {
		return nil, fmt.Errorf("reading presets from config: %w", err)
	}
	return presets, nil
}

// resolvePreset picks the delimiter configuration for a command: an ad-hoc
// preset when --marker or --pattern is given, otherwise the named preset.
func resolvePreset(cmd *cobra.Command, name string) (types.Preset, error) {
	marker, _ := cmd.Flags().GetString("marker")
	pattern, _ := cmd.Flags().GetString("pattern")
	if marker != "" || pattern != "" {
		label, _ := cmd.Flags().GetString("label")
		numbered, _ := cmd.Flags().GetBool("numbered")
		return types.Preset{
			Name:     "custom",
			Marker:   marker,
			Label:    label,
			Numbered: numbered,
			Pattern:  pattern,
		}, nil
	}

	configured, err := configuredPresets()
	if err != nil {
		return types.Preset{}, err
	}
	return convert.LookupPreset(name, configured)
}

// addDelimiterFlags registers the flags that describe an ad-hoc delimiter.
func addDelimiterFlags(cmd *cobra.Command) {
	cmd.Flags().String("marker", "", "title marker that starts each song (overrides --preset)")
	cmd.Flags().String("label", "", "canonical title prefix replacing the matched marker")
	cmd.Flags().Bool("numbered", false, "match the marker followed by an optional dash and a song number")
	cmd.Flags().String("pattern", "", "regular expression matching the marker; group 1 is the song number")
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
