package main

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries what every command needs. Flag values are read through v, so
// they can also come from DAWG_* environment variables or a config file.
type app struct {
	v   *viper.Viper
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "dawg",
		Short:         "Build and query minimal word graphs",
		Long:          "dawg builds a minimal DAWG from a word list, saves it in compact form and answers queries against it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		a.newBuildCmd(),
		a.newQueryCmd(),
		a.newStatsCmd(),
		a.newDumpCmd(),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("dawg")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if file := a.v.GetString("config"); file != "" {
		a.v.SetConfigFile(file)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config %s", file)
		}
	}

	log, err := newLogger(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return log, nil
}

// required returns the value of a string setting that has no default.
func (a *app) required(key string) (string, error) {
	value := a.v.GetString(key)
	if value == "" {
		return "", errors.Errorf("--%s is required", key)
	}
	return value, nil
}
