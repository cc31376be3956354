package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/killallgit/garnish/pkg/config"
	"github.com/killallgit/garnish/pkg/headless"
	"github.com/killallgit/garnish/pkg/logger"
	"github.com/killallgit/garnish/pkg/tui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "garnish",
	Short: "Live enhancement for streaming transcripts",
	Long: `Garnish watches a mutating conversation tree, decides when each
streamed block has finished, and renders math, syntax highlighting,
diagrams and copy affordances into it without disturbing blocks that
are still changing.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := logger.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logger init failed: %v\n", err)
		}
		defer logger.Close()

		if viper.GetBool("headless") {
			runHeadless()
			return
		}
		if err := tui.StartApp(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runHeadless() {
	timeout := time.Duration(viper.GetInt("timeout_seconds")) * time.Second
	if err := headless.RunHeadless(timeout); err != nil {
		fmt.Fprintf(os.Stderr, "Error running headless mode: %v\n", err)
		os.Exit(1)
	}
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", ".garnish/settings.yaml", "config file (default is .garnish/settings.yaml)")

	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().BoolP("headless", "H", false, "stream the demo without a TUI and print the enhanced transcript")
	viper.BindPFlag("headless", rootCmd.PersistentFlags().Lookup("headless"))

	rootCmd.PersistentFlags().Int("timeout", 30, "headless timeout in seconds")
	viper.BindPFlag("timeout_seconds", rootCmd.PersistentFlags().Lookup("timeout"))

	rootCmd.PersistentFlags().Int("idle-delay", 360, "quiet interval in ms before a block counts as stable")
	viper.BindPFlag("enhance.idle_delay_ms", rootCmd.PersistentFlags().Lookup("idle-delay"))

	rootCmd.PersistentFlags().Int("max-wait", 2500, "upper bound in ms a block may stay deferred")
	viper.BindPFlag("enhance.max_wait_ms", rootCmd.PersistentFlags().Lookup("max-wait"))

	rootCmd.PersistentFlags().Bool("no-diagrams", false, "disable diagram rendering")
	rootCmd.PersistentFlags().Bool("no-math", false, "disable math typesetting")
	rootCmd.PersistentFlags().Bool("no-highlight", false, "disable syntax highlighting")
	rootCmd.PersistentFlags().Bool("no-copy-button", false, "disable copy button injection")
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyDisableFlags()
}

// applyDisableFlags folds the negative toggles into the loaded settings
func applyDisableFlags() {
	settings := config.Get()
	if flagSet("no-diagrams") {
		settings.Enhance.DiagramsEnabled = false
	}
	if flagSet("no-math") {
		settings.Enhance.MathEnabled = false
	}
	if flagSet("no-highlight") {
		settings.Enhance.HighlightEnabled = false
	}
	if flagSet("no-copy-button") {
		settings.Enhance.CopyButtonEnabled = false
	}
}

func flagSet(name string) bool {
	v, err := rootCmd.PersistentFlags().GetBool(name)
	return err == nil && v
}
