package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// gooseLogger routes goose output through zap
type gooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) { l.sugar.Fatalf(format, v...) }
func (l gooseLogger) Printf(format string, v ...interface{}) { l.sugar.Infof(format, v...) }

func prepareGoose(logger *zap.Logger) error {
	goose.SetLogger(gooseLogger{sugar: logger.Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// RunMigrations executes all pending database migrations
func RunMigrations(db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	return RunMigrationsContext(context.Background(), db, migrationsDir, logger)
}

// RunMigrationsContext is RunMigrations bound to ctx
func RunMigrationsContext(ctx context.Context, db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	if err := prepareGoose(logger); err != nil {
		return err
	}

	logger.Info("Checking for pending migrations...", zap.String("dir", migrationsDir))

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	logger.Info("Migrations completed successfully", zap.Int64("version", version))
	return nil
}

// GetMigrationStatus logs the applied state of every migration in migrationsDir
func GetMigrationStatus(ctx context.Context, db *sql.DB, migrationsDir string, logger *zap.Logger) error {
	if err := prepareGoose(logger); err != nil {
		return err
	}

	if err := goose.StatusContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}
	return nil
}
