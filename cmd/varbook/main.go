// Package main provides the varbook command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "varbook",
		Short:   "Convert VCF variant calls into a filterable review workbook",
		Long:    "varbook reshapes packed VCF annotation fields into a wide table and partitions rows with user filters for review.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),

		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.varbook.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig loads ~/.varbook.yaml (or --config) and VARBOOK_* env vars.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".varbook")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("VARBOOK")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and defaults apply.
	_ = viper.ReadInConfig()
}

// newLogger builds the process logger. Verbose mode switches to the
// human-readable development encoder with debug level enabled.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
