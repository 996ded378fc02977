package cmd

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imishinist/training-cli/internal/config"
)

var errReported = errors.New("backend reported errors")

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "training-cli",
	Short: "Training backend CLI Tool",
	Long: `A command line tool for managing training runs on a remote
experiment-orchestration service (Polyaxon). Lists, starts, stops and
checks experiments and prints the result with any backend error messages.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (yaml/json/toml)")
	rootCmd.PersistentFlags().String("training", "", "Training backend (overrides TRAINING_TRAINING)")
	rootCmd.PersistentFlags().Bool("debug", false, "Start copies on a dataset sample")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (json/yaml/text)")
	rootCmd.PersistentFlags().String("error-mode", "", "Error messages to report (call/history)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout of each backend request")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug/info/warn/error)")
	rootCmd.PersistentFlags().Bool("strict", false, "Exit with status 1 when any error message is reported")
	viper.BindPFlag("training", rootCmd.PersistentFlags().Lookup("training"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("error_mode", rootCmd.PersistentFlags().Lookup("error-mode"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
}

func initConfig() {
	// Environment variables
	config.BindEnv()

	// Set defaults
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		checkError(viper.ReadInConfig())
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logger.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %s", viper.GetString("log_level"))
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(level)
	return nil
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
