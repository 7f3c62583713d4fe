// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/canonical/medpay-admin/internal/authorization"
	"github.com/canonical/medpay-admin/internal/config"
	"github.com/canonical/medpay-admin/internal/db"
	"github.com/canonical/medpay-admin/internal/logging"
	"github.com/canonical/medpay-admin/internal/monitoring"
	"github.com/canonical/medpay-admin/internal/storage"
	"github.com/canonical/medpay-admin/internal/tracing"
	"github.com/canonical/medpay-admin/internal/types"
	"github.com/canonical/medpay-admin/pkg/grants"
)

var grantsCmd = &cobra.Command{
	Use:   "grants",
	Short: "Manage company grants",
	Long:  `Add, remove and list the companies a user is granted access to, directly against the database`,
}

var grantsAddCmd = &cobra.Command{
	Use:   "add <user-id> <company-id>",
	Short: "Grant a user access to a company",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGrantsService(cmd, func(ctx context.Context, s grants.ServiceInterface) error {
			grant, err := s.Grant(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printGrants(cmd, []types.CompanyGrant{*grant})
		})
	},
}

var grantsRemoveCmd = &cobra.Command{
	Use:   "remove <user-id> <company-id>",
	Short: "Revoke a user's access to a company",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGrantsService(cmd, func(ctx context.Context, s grants.ServiceInterface) error {
			if err := s.Revoke(ctx, args[0], args[1]); err != nil {
				return err
			}
			cmd.Printf("Revoked %s from %s\n", args[1], args[0])
			return nil
		})
	},
}

var grantsListCmd = &cobra.Command{
	Use:   "list <user-id>",
	Short: "List the company grants of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGrantsService(cmd, func(ctx context.Context, s grants.ServiceInterface) error {
			gs, err := s.ListGrants(ctx, args[0])
			if err != nil {
				return err
			}
			return printGrants(cmd, gs)
		})
	},
}

func init() {
	grantsCmd.PersistentFlags().String("dsn", os.Getenv("DSN"), "PostgreSQL DSN connection string")
	grantsCmd.PersistentFlags().StringP("format", "f", "text", "Output format (text or json)")

	grantsCmd.AddCommand(grantsAddCmd, grantsRemoveCmd, grantsListCmd)
	rootCmd.AddCommand(grantsCmd)
}

// withGrantsService runs fn inside a single transaction. Grants are mirrored
// to OpenFGA when AUTHORIZATION_ENABLED is set, as the server does.
func withGrantsService(cmd *cobra.Command, fn func(context.Context, grants.ServiceInterface) error) error {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		return fmt.Errorf("a DSN is required, use --dsn or DSN")
	}

	logger := logging.NewNoopLogger()
	tracer := tracing.NewNoopTracer()
	monitor := monitoring.NewNoopMonitor("medpay-admin", logger)

	dbClient, err := db.NewDBClient(db.Config{DSN: dsn, MaxConns: 2, MinConns: 1}, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	authorizer, err := grantsAuthorizer(tracer, monitor, logger)
	if err != nil {
		return err
	}

	service := grants.NewService(storage.NewStorage(dbClient, tracer, monitor, logger), authorizer, nil, "", tracer, monitor, logger)

	return dbClient.WithTx(cmd.Context(), func(ctx context.Context) error {
		return fn(ctx, service)
	})
}

func grantsAuthorizer(tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*authorization.Authorizer, error) {
	specs := new(config.AuthorizationSpec)
	if err := envconfig.Process("", specs); err != nil {
		return nil, fmt.Errorf("issues with environment sourcing: %v", err)
	}

	return newAuthorizer(*specs, tracer, monitor, logger)
}

func printGrants(cmd *cobra.Command, gs []types.CompanyGrant) error {
	format, _ := cmd.Flags().GetString("format")
	return writeGrants(cmd.OutOrStdout(), format, gs)
}

func writeGrants(out io.Writer, format string, gs []types.CompanyGrant) error {
	if format == "json" {
		if gs == nil {
			gs = []types.CompanyGrant{}
		}
		return json.NewEncoder(out).Encode(gs)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY ID\tCOMPANY\tGRANTED AT")
	for _, g := range gs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", g.CompanyID, g.CompanyName, g.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
