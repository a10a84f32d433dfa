package main

import (
	"context"
	"fmt"
	"loan-eligibility/internal/importer"
	"loan-eligibility/internal/infrastructure/database/postgres"
	"loan-eligibility/internal/pkg/clock"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import customers and loans from spreadsheets",
		Long: `Reads customer_data.xlsx and loan_data.xlsx from the data directory and
stores their rows. Customers already present (same first name, last name and
phone) are reused; loans are attached through the sheet's customer ids.`,
		Args: cobra.NoArgs,
		RunE: a.runImport,
	}
	cmd.Flags().String("data-dir", "", "directory containing the spreadsheets (default: import.dataDir)")
	cmd.Flags().Duration("timeout", 0, "abort the import after this long (default: import.timeout)")
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, _ []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = a.cfg.Import.DataDir
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = a.cfg.Import.Timeout
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	ctx, cancel := contextWithTimeout(cmd, timeout)
	defer cancel()

	pool, err := postgres.NewConnectionPool(ctx, a.cfg.Database, a.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	im := importer.NewImporter(
		postgres.NewCustomerRepository(pool, a.logger),
		postgres.NewLoanRepository(pool, a.logger),
		clock.System(),
		a.logger,
	)
	result, err := im.ImportDir(ctx, dataDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported customers. New created: %d\n", result.CustomersCreated)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported loans. New created: %d\n", result.LoansCreated)
	return nil
}

func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}
