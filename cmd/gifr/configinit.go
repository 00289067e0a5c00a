package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/pders01/gifr/internal/config"
)

var (
	flagInitAPIKey string
	flagInitForce  bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file with your Giphy API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd, config.DefaultPath())
	},
}

func init() {
	configInitCmd.Flags().StringVar(&flagInitAPIKey, "api-key", "", "Giphy API key (skips the prompt)")
	configInitCmd.Flags().BoolVarP(&flagInitForce, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runConfigInit(cmd *cobra.Command, path string) error {
	cfg := config.Default()
	cfg.Giphy.APIKey = strings.TrimSpace(flagInitAPIKey)

	interactive := cfg.Giphy.APIKey == ""
	if interactive && !isTerminal() {
		return errors.New("API key required in non-interactive mode (use --api-key)")
	}

	if _, err := os.Stat(path); err == nil && !flagInitForce {
		if !interactive {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		overwrite := false
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Config already exists").
				Description(fmt.Sprintf("Overwrite %s?", path)).
				Value(&overwrite),
		)).Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(cmd.OutOrStdout(), "Init cancelled")
			return nil
		}
	}

	if interactive {
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Giphy API key").
				Description("Create one at https://developers.giphy.com/dashboard").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("an API key is required")
					}
					return nil
				}).
				Value(&cfg.Giphy.APIKey),
			huh.NewInput().
				Title("Database file").
				Value(&cfg.Database.Path),
		)).Run()
		if err != nil {
			return err
		}
		cfg.Giphy.APIKey = strings.TrimSpace(cfg.Giphy.APIKey)
	}

	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote configuration to: %s\n", path)
	return nil
}
