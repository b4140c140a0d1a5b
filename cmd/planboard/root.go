package main

import (
	"fmt"
	"os"

	"github.com/harunnryd/planboard/internal/config"
	"github.com/harunnryd/planboard/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	outputFmt string
	ephemeral bool
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "planboard",
	Short: "Production scheduling client",
	Long: `Planboard is a terminal client for the production scheduling service:
sign in, generate and publish schedule drafts, and follow the published plan live.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Log.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.planboard/config.yaml)")
	rootCmd.PersistentFlags().String("log.level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("api.base_url", config.DefaultAPIBaseURL, "scheduling service base URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the session in memory only")
}
