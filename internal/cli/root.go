package cli

import (
	"database/sql"
	"fmt"
	"os"

	"bistro-pos/internal/config"
	"bistro-pos/internal/database"
	"bistro-pos/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// env is what every subcommand shares once the root has loaded configuration
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func (e *env) openDB() (*sql.DB, error) {
	db, err := database.New(e.cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

func newRootCmd() *cobra.Command {
	e := &env{}

	cmd := &cobra.Command{
		Use:           "posctl",
		Short:         "Operate the bistro register",
		Long:          "posctl runs migrations, seeds the menu, prints sales reports and tries out live search against the register's store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine, the environment may carry everything
			_ = godotenv.Load()

			e.cfg = config.Load()

			// command output owns stdout; logs go to stderr
			level := zapcore.InfoLevel
			if e.cfg.Server.LogLevel != "" {
				parsed, err := zapcore.ParseLevel(e.cfg.Server.LogLevel)
				if err != nil {
					return fmt.Errorf("invalid LOG_LEVEL: %w", err)
				}
				level = parsed
			}
			e.logger = logger.NewJSON(zapcore.Lock(os.Stderr), level)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	cmd.AddCommand(newMigrateCmd(e))
	cmd.AddCommand(newSeedCmd(e))
	cmd.AddCommand(newReportCmd(e))
	cmd.AddCommand(newSearchCmd(e))
	return cmd
}

// Execute runs posctl
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
	}
	return err
}
