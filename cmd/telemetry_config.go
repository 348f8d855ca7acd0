/*
Copyright © 2025 thoughtbruno
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoughtbruno/llm-researcher/internal/telemetry"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage telemetry settings",
	Long: `View and manage anonymous telemetry settings.

Researcher can collect anonymous usage statistics (command names,
durations, report kinds and row counts). Dataset contents are never
collected. Telemetry is off until you enable it here.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to read telemetry status: %w", err)
		}

		if isJSON() {
			return printJSON(cfg)
		}

		if cfg.NeedsConsent() {
			fmt.Println("📊 Telemetry: not configured yet (off by default)")
			fmt.Println("   To enable: researcher telemetry enable")
			return nil
		}

		if cfg.IsEnabled() {
			fmt.Println("📊 Telemetry: enabled")
			fmt.Printf("   Anonymous ID: %s\n", cfg.AnonymousID)
			fmt.Println()
			fmt.Println("   To disable: researcher telemetry disable")
		} else {
			fmt.Println("📊 Telemetry: disabled")
			fmt.Println()
			fmt.Println("   To enable: researcher telemetry enable")
		}

		if path, err := telemetry.GetConfigPath(); err == nil {
			fmt.Printf("   Config: %s\n", path)
		}

		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to read telemetry config: %w", err)
		}
		cfg.Enable()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to enable telemetry: %w", err)
		}
		fmt.Println("✅ Telemetry enabled. Thank you for helping improve Researcher!")
		return nil
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telemetry.Load()
		if err != nil {
			return fmt.Errorf("failed to read telemetry config: %w", err)
		}
		cfg.Disable()
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to disable telemetry: %w", err)
		}
		fmt.Println("✅ Telemetry disabled.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(telemetryCmd)

	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
