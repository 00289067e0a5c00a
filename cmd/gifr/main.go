package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/gifr/internal/config"
	"github.com/pders01/gifr/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

type rootOptions struct {
	configPath string
	dbPath     string
	logLevel   string
	quiet      bool
}

var opts rootOptions

var rootCmd = &cobra.Command{
	Use:           "gifr",
	Short:         "Browse trending and search Giphy from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gifr %s\n", Version)
		fmt.Println("Giphy trending & search browser")
		fmt.Println("github.com/pders01/gifr")
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the default configuration to ~/.config/gifr/config.toml",
	Run: func(cmd *cobra.Command, args []string) {
		configFile := config.DefaultPath()

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	pf.StringVar(&opts.dbPath, "db", "", "Path to database file (overrides config)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error, off")
	pf.BoolVar(&opts.quiet, "quiet", false, "Skip startup banner")

	configCmd.AddCommand(configGenCmd)
	rootCmd.AddCommand(versionCmd, configCmd, trendingCmd, searchCmd, historyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	tui.ApplyTheme(rt.cfg.UI.Colors)
	if !opts.quiet && isTerminal() {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(rt.cfg, rt.services())
	defer app.Close()

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
