package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcpu-club/openvscode-farm/internal/audit"
	"github.com/lcpu-club/openvscode-farm/internal/errors"
	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

var auditLogCmd = &cobra.Command{
	Use:   "audit-log [user-id]",
	Short: "Display the audit trail for a user's workspace",
	Long: `Display the audit trail for a user's workspace. Without an argument,
list the workspaces that have one. Requires state_dir to be configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuditLog,
}

var auditLogJSON bool

func init() {
	auditLogCmd.Flags().BoolVar(&auditLogJSON, "output-json", false, "Output events as JSON lines")
	rootCmd.AddCommand(auditLogCmd)
}

func runAuditLog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.StateDir == "" {
		return errors.ConfigError("state_dir is not configured; audit logging is disabled", nil)
	}

	auditLogger := audit.NewLogger(cfg.StateDir)
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		names, err := auditLogger.Workspaces()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			logInfo("No audit logs found")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	name := workspace.Name(args[0])
	events, err := auditLogger.Events(name)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(events) == 0 {
		logInfo("No events found for workspace %s", name)
		return nil
	}

	for _, e := range events {
		if auditLogJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
			if e.Details != "" {
				fmt.Fprintf(out, "[%s] %-8s %s (%s)\n", ts, e.Type, e.Workspace, e.Details)
			} else {
				fmt.Fprintf(out, "[%s] %-8s %s\n", ts, e.Type, e.Workspace)
			}
		}
	}

	return nil
}
