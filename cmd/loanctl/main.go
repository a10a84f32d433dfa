// Command loanctl runs operator tasks against the loan eligibility database:
// spreadsheet imports, schema migrations and installment quotes.
package main

import (
	"context"
	"fmt"
	"io"
	"loan-eligibility/internal/config"
	"loan-eligibility/internal/infrastructure/logging"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	flags := viper.New()

	root := &cobra.Command{
		Use:           "loanctl",
		Short:         "Operator tools for the loan eligibility service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(flags, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().String("config-dir", ".", "directory containing config.yml")
	root.PersistentFlags().String("database-url", "", "PostgreSQL URL (overrides database.url)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = flags.BindPFlag("configDir", root.PersistentFlags().Lookup("config-dir"))
	_ = flags.BindPFlag("database.url", root.PersistentFlags().Lookup("database-url"))
	_ = flags.BindPFlag("logger.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(a.importCmd())
	root.AddCommand(a.migrateCmd())
	root.AddCommand(emiCmd())
	return root
}

func (a *app) init(flags *viper.Viper, stderr io.Writer) error {
	cfg, err := config.LoadConfig(flags.GetString("configDir"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if url := flags.GetString("database.url"); url != "" {
		cfg.Database.URL = url
	}
	if level := flags.GetString("logger.level"); level != "" {
		cfg.Logger.Level = level
	}
	cfg.Logger.Encoding = "text"

	a.cfg = cfg
	a.logger = slog.New(logging.NewHandler(cfg.Logger, stderr))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(&app{}).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
