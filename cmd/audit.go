package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"media-manager/core/config"
	"media-manager/core/logger"
	"media-manager/core/reconcile"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	auditKind   string
	auditPurge  bool
	auditDryRun bool
	auditYes    bool
	auditJSON   bool
	auditGrace  time.Duration
)

// auditCmd compares stored blobs with record references.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Find orphaned images and dangling references",
	Long: `Compares every object under a collection's storage folder with the image
references held by that collection's records.

Orphans are stored images no record references (left behind by crashes between an
upload and its cleanup). Dangling references point at images that no longer exist;
they are reported only and never repaired automatically.

Images younger than --grace are left out: a save in progress uploads its images
before the record referencing them is written.

Examples:
  # Report every collection
  audit

  # Report one collection as JSON
  audit --kind galleries --json

  # Delete orphans (with interactive confirmation)
  audit --kind galleries --purge

  # Delete orphans without prompting
  audit --kind galleries --purge --yes`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&auditKind, "kind", "", "Collection to audit (all when empty)")
	auditCmd.Flags().BoolVar(&auditPurge, "purge", false, "Delete orphaned images")
	auditCmd.Flags().BoolVar(&auditDryRun, "dry-run", false, "Force dry-run (no deletion even with --yes)")
	auditCmd.Flags().BoolVar(&auditYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "Print the reports as JSON")
	auditCmd.Flags().DurationVar(&auditGrace, "grace", reconcile.DefaultGrace, "Skip images modified more recently than this")

	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	comp, err := wire(ctx, cfg, l)
	if err != nil {
		return err
	}

	var targets []reconcile.Target
	for _, k := range comp.kinds {
		if auditKind != "" && k.Name != auditKind {
			continue
		}
		if !k.HasAssets() {
			continue
		}
		targets = append(targets, reconcile.Target{Kind: k.Name, Folder: k.Folder, Grace: auditGrace})
	}
	if len(targets) == 0 {
		return fmt.Errorf("no image collection named %q", auditKind)
	}

	reports := make([]*reconcile.Report, 0, len(targets))
	for _, target := range targets {
		report, err := comp.auditor.Audit(ctx, target)
		if err != nil {
			return fmt.Errorf("failed to audit %s: %w", target.Kind, err)
		}
		reports = append(reports, report)
	}

	if auditJSON {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		for _, r := range reports {
			printAuditReport(r)
		}
	}

	orphans := 0
	for _, r := range reports {
		orphans += len(r.Orphans)
	}

	if !auditPurge {
		if orphans > 0 {
			l.Info("No actions requested. Use --purge to delete orphaned images.", zap.Int("orphans", orphans))
		}
		return nil
	}
	if orphans == 0 {
		l.Info("Nothing to purge.")
		return nil
	}
	if auditDryRun {
		l.Info("Dry-run mode: No changes were made.", zap.Int("orphans", orphans))
		return nil
	}
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	opts := reconcile.Options{Confirmed: true, DryRun: auditDryRun}
	purged := 0
	for _, r := range reports {
		n, err := comp.auditor.Purge(ctx, r, opts)
		if err != nil {
			return fmt.Errorf("failed to purge %s: %w", r.Kind, err)
		}
		purged += n
	}
	l.Info("Purge finished", zap.Int("deleted", purged), zap.Int("kept", orphans-purged))
	return nil
}

// printAuditReport prints one report with colored status lines.
func printAuditReport(r *reconcile.Report) {
	title := color.New(color.Bold)
	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed)

	title.Printf("\n=== %s (%s/) ===\n", r.Kind, r.Folder)
	fmt.Printf("Stored: %d  Referenced: %d  Recent: %d\n", r.Stored, r.Referenced, r.Recent)

	if r.Clean() {
		ok.Println("✓ consistent")
		return
	}

	if len(r.Orphans) > 0 {
		warn.Printf("Orphans: %d\n", len(r.Orphans))
		for _, ref := range r.Orphans {
			fmt.Printf("  - %s\n", ref)
		}
	}
	if len(r.Dangling) > 0 {
		bad.Printf("Dangling: %d\n", len(r.Dangling))
		for _, d := range r.Dangling {
			fmt.Printf("  - %s -> %s\n", d.RecordID, d.Ref)
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if auditYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
