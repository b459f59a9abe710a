// Copyright © 2024 The schym authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.  Each may be set in the config file or through a
// SCHYM_ environment variable, e.g. SCHYM_PRELUDE_DIR.
const (
	keyPreludeDir  = "prelude-dir"
	keyLogLevel    = "log-level"
	keyColor       = "color"
	keyHistoryFile = "history-file"
	keyTrace       = "trace"
	keyReader      = "reader"
	keyIntern      = "intern"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schym",
	Short: "schym, a small tree-walking Lisp",
	Long: `schym is a small Lisp interpreter.  Programs are sequences of
parenthesized expressions holding numbers, strings, variables, comments and
quoted values.

Getting started:
  schym run file.schym          Run a source file
  schym run -e '(print 1 2)'    Evaluate an expression
  schym repl                    Start an interactive REPL
  schym fmt file.schym          Print the canonical layout of a file
  schym lint src/...            Report likely mistakes
  schym doc cond                Show documentation for a builtin

Configuration is read from $HOME/.schym.yaml (or --config) and from
SCHYM_ environment variables, e.g. SCHYM_PRELUDE_DIR=lib.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// exitError asks Execute to exit with a status code without printing
// anything more.  The command has already reported the failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

var errExit = &exitError{code: 1}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, err) //nolint:errcheck
	os.Exit(1)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.schym.yaml)")
	flags.String(keyColor, "auto", `Control colored output: "auto", "always", or "never".`)
	flags.String(keyLogLevel, "warn", "Log level: debug, info, warn or error.")
	flags.String(keyPreludeDir, "src", "Directory searched by load before the working directory.")
	for _, key := range []string{keyColor, keyLogLevel, keyPreludeDir} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	viper.SetDefault(keyHistoryFile, defaultHistoryFile())
	viper.SetDefault(keyTrace, "none")
	viper.SetDefault(keyReader, "rd")
	viper.SetDefault(keyIntern, true)

	rootCmd.AddCommand(RunCommand(), FmtCommand(), LintCommand(), DocCommand(), ReplCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".schym")
	}

	viper.SetEnvPrefix("SCHYM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err) //nolint:errcheck
		}
	}
}
