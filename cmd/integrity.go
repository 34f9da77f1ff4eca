package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"media-manager/core/config"
	"media-manager/core/logger"
	"media-manager/feature/integrity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on storage and database",
	Long:  `Checks that every collection folder exists in the bucket and that the records table matches the record model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// serverCmd represents the integrity server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the records table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, serverCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
}

func runIntegrityChecks(ctx context.Context, structure, server bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	comp, err := wire(ctx, cfg, logg)
	if err != nil {
		return err
	}
	svc := integrity.NewService(comp.client, cfg.Storage.Bucket, comp.kinds, comp.auditor, comp.db, logg)

	if structure {
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}
		if len(missing) == 0 {
			color.Green("✓ structure: all folders present")
		} else if fixFlag {
			if err := svc.FixStructure(ctx, missing); err != nil {
				return err
			}
			color.Green("✓ structure: created %v", missing)
		} else {
			color.Yellow("✗ structure: missing %v (use --fix)", missing)
		}
	}

	if server {
		report, err := svc.CheckServer()
		if err != nil {
			return fmt.Errorf("server check failed: %w", err)
		}
		if report.Matched {
			color.Green("✓ server: records table matches the model (%s)", report.Driver)
		} else {
			data, _ := json.MarshalIndent(report, "", "  ")
			color.Red("✗ server: schema mismatch")
			fmt.Println(string(data))
			logg.Warn("Schema mismatch", zap.Strings("errors", report.Errors))
		}
	}

	return nil
}
