package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	apiServer string
	project   string
	output    string
	apiKey    string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "datalift",
	Short: "Load tabular data files and log them as tracked artifacts",
	Long: `datalift loads a tabular data file (Excel, CSV, or JSON) and logs it
as a tracked artifact on a datalift tracking server.

Examples:
  # Upload a CSV file as a dataset artifact
  datalift upload -f data.csv --name raw-data

  # Upload one sheet of an Excel workbook
  datalift upload -f results.xlsx --sheet Sheet2 --name results --type dataset

  # Preview the first rows of a file without uploading
  datalift preview -f data.json -n 5

  # List tracked runs and artifacts
  datalift get runs
  datalift get artifacts -o yaml`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.datalift.yaml)")
	rootCmd.PersistentFlags().StringVarP(&apiServer, "server", "s", "http://localhost:8080", "Tracking server address")
	rootCmd.PersistentFlags().StringVarP(&project, "project", "p", "default", "Project to log runs under")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for the tracking server (or set DATALIFT_API_KEY env var)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Bind flags to viper
	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("api-key", rootCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Environment variables
	viper.SetEnvPrefix("DATALIFT")
	viper.AutomaticEnv()
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".datalift" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".datalift")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetProject returns the current project from viper config.
func GetProject() string {
	p := viper.GetString("project")
	if p == "" {
		return "default"
	}
	return p
}

// newLogger builds the CLI logger. Info-level progress messages are shown
// only with --verbose.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !viper.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
