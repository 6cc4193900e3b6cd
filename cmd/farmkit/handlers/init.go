package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/farmkit/internal/config"
	"github.com/imamik/farmkit/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	isTerminal = func() bool {
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	runWizard        = wizard.Run
	writeConfig      = wizard.WriteConfig
	fileExists       = wizard.FileExists
	confirmOverwrite = wizard.ConfirmOverwrite
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if !isTerminal() {
		return errors.New("init requires an interactive terminal; write the configuration file by hand instead")
	}

	if fileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s left untouched", outputPath)
		}
	}

	cfg, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Region:         %s\n", cfg.Region)
	fmt.Printf("  Tracking Table: %s\n", cfg.TableName)
	if cfg.AuditBucket != "" {
		fmt.Printf("  Audit Bucket:   %s\n", cfg.AuditBucket)
	}
	fmt.Printf("  Import Retry:   %d attempts\n", cfg.ImportRetry.MaxAttempts)
	fmt.Println()
	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Process a lifecycle event:")
	fmt.Printf("     farmkit handle -c %s < event.json\n", outputPath)
	fmt.Println()
}
