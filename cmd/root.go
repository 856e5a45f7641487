/*
Copyright © 2025 The seafront authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/internal/iofs"
	"github.com/seafront/seafront/internal/iologger"
	app "github.com/seafront/seafront/pkg"
	"github.com/seafront/seafront/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = getRootCmd()

func getRootCmd() *cobra.Command {
	res := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "seafront",
		Short:   "Fetch, combine and summarize single-cell datasets",
		Long: `seafront builds a unified view of single-cell transcriptomic
datasets coming from a census service and from multi-sample archives.

Commands:
  fetch      download a census dataset into a checksum-verified cache
  combine    merge the samples of a registered dataset into one artifact
  genes      verify that census datasets share one gene axis
  summarize  filter census cells by throughput and summarize datasets

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (SEAFRONT_*, for example SEAFRONT_CENSUS_BACKEND)
  3. Config file (~/.config/seafront/config.yaml)
  4. Built-in defaults

Datasets for 'combine' are described in ~/.config/seafront/datasets.yaml.`,
		PersistentPreRunE:  bootstrap,
		PersistentPostRunE: shutdown,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	// Remove the automatic "seafront version" prefix
	res.SetVersionTemplate("{{.Version}}\n")
	res.Flags().BoolP("version", "V", false, "version for seafront")

	res.AddCommand(
		getFetchCmd(),
		getCombineCmd(),
		getGenesCmd(),
		getSummarizeCmd(),
	)
	return res
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if logCloser, err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureDatasetsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, appending to the log
	// started above
	_ = logCloser.Close()
	if logCloser, err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDataDirs(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)
	return nil
}

func shutdown(_ *cobra.Command, _ []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

// stopSignals cancel the context of a running command.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, ConfigFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, ConfigFileError(cfgPath, err)
	}

	return &res, nil
}

// envKeys are the persistent config fields that can be set from the
// environment, they match Config.ToOptions.
var envKeys = []string{
	"census.backend",
	"census.base_url",
	"census.version",
	"census.bucket",
	"census.region",
	"census.endpoint",
	"census.path_style",
	"census.organism",
	"cache.raw_dir",
	"cache.meta_dir",
	"cache.data_dir",
	"filter.median_raw_sum",
	"genes.sample_size",
	"database.host",
	"database.port",
	"database.user",
	"database.password",
	"database.database",
	"database.ssl_mode",
	"log.level",
	"log.format",
	"log.destination",
}

// EnvVar returns the environment variable of a config key, for example
// SEAFRONT_CENSUS_BACKEND for census.backend.
func EnvVar(key string) string {
	return "SEAFRONT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix("SEAFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bound explicitly so it is clear which variables are allowed.
	for _, k := range envKeys {
		_ = v.BindEnv(k, EnvVar(k))
	}

	v.AutomaticEnv()
}
