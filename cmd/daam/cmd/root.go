// Copyright 2025 the DAAM authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"os"
	"strings"

	daam "github.com/eltociear/daam"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set from main via ldflags.
var Version = "dev"

var dataDir string

var rootCmd = &cobra.Command{
	Use:   "daam",
	Short: "Experiment bookkeeping for diffusion cross-attention heat maps",
	Long: `daam manages directories of generation experiments: images, heat maps,
per-label segmentation masks, and annotations produced while attributing
diffusion-model outputs to prompt words.`,
	SilenceUsage: true,
	Version:      Version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "experiments", "root directory holding experiment subdirectories")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	mustBindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	mustBindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	viper.SetEnvPrefix("DAAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
}

// mustBindPFlag panics when a flag cannot be bound into viper; a failed
// binding is a programming error, not a runtime condition.
func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag %q: %v", key, err))
	}
}

// newLogger builds the CLI logger from the configured level.
func newLogger() *zap.Logger {
	level, err := zapcore.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newStore opens the experiment store under the configured data directory.
func newStore(logger *zap.Logger) *daam.Store {
	return daam.NewStore(viper.GetString("data_dir"), logger.Named("store"))
}

// Execute runs the root command.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
