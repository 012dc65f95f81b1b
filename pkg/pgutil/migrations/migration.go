// Package migrations holds migrations related helpers
package migrations

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

const usageText = `Usage:
  go run cmd/verifier/migrate/main.go [flags] <command>

This program runs command on the database. Supported commands are:
  - init - creates migration info table in the database
  - up - runs all available migrations.
  - down - reverts last migration group.
  - status - prints migration status.

Examples:
  go run cmd/verifier/migrate/main.go -config config.yaml init
  go run cmd/verifier/migrate/main.go -config config.yaml up
`

// Usage prints command usage
func Usage() {
	fmt.Print(usageText)
	flag.PrintDefaults()
	os.Exit(2)
}

// Exitf exits command printing usage
func Exitf(s string, args ...any) {
	fmt.Fprintf(os.Stderr, s+"\n", args...)
	Usage()
}

func eachModel(models []any, fn func(model any) error) error {
	for _, model := range models {
		if err := fn(model); err != nil {
			return err
		}
	}
	return nil
}

// CreateSchema creates a table per model, skipping tables that already exist
func CreateSchema(ctx context.Context, db bun.IDB, models ...any) error {
	return eachModel(models, func(model any) error {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
		return nil
	})
}

// DropTables drops each model's table and everything depending on it
func DropTables(ctx context.Context, db bun.IDB, models ...any) error {
	return eachModel(models, func(model any) error {
		if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", model, err)
		}
		return nil
	})
}

// TruncateTables deletes every row of each model's table
func TruncateTables(ctx context.Context, db bun.IDB, models ...any) error {
	return eachModel(models, func(model any) error {
		if _, err := db.NewDelete().Model(model).Where("TRUE").Exec(ctx); err != nil {
			return fmt.Errorf("failed to truncate table for %T: %w", model, err)
		}
		return nil
	})
}

// CreateModelIndexes creates idx_<table>_<column> for every column.
func CreateModelIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	return createColumnIndexes(ctx, db, model, false, columns)
}

// CreateModelUniqueIndexes is CreateModelIndexes with UNIQUE indexes.
func CreateModelUniqueIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	return createColumnIndexes(ctx, db, model, true, columns)
}

func createColumnIndexes(ctx context.Context, db bun.IDB, model any, unique bool, columns []string) error {
	for _, column := range columns {
		name, err := modelIndexName(db, model, column)
		if err != nil {
			return err
		}
		if err := createIndex(ctx, db, model, name, unique, column); err != nil {
			return err
		}
	}
	return nil
}

// CreateCompositeIndex creates one index named name over columns, in order.
func CreateCompositeIndex(ctx context.Context, db bun.IDB, model any, name string, columns ...string) error {
	return createIndex(ctx, db, model, name, false, columns...)
}

func createIndex(ctx context.Context, db bun.IDB, model any, name string, unique bool, columns ...string) error {
	q := db.NewCreateIndex().Model(model).Index(name).Column(columns...).IfNotExists()
	if unique {
		q = q.Unique()
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}
	return nil
}

// DropModelIndexes drops the indexes CreateModelIndexes made for columns.
func DropModelIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	for _, column := range columns {
		name, err := modelIndexName(db, model, column)
		if err != nil {
			return err
		}
		if _, err := db.NewDropIndex().Model(model).Index(name).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop index %s: %w", name, err)
		}
	}
	return nil
}

func modelIndexName(db bun.IDB, model any, column string) (string, error) {
	if model == nil {
		return "", fmt.Errorf("model cannot be nil")
	}
	table := db.NewCreateIndex().Model(model).GetTableName()
	if table == "" {
		return "", fmt.Errorf("failed to resolve table name for model %T", model)
	}
	return fmt.Sprintf("idx_%s_%s", strings.NewReplacer(`"`, "", ".", "_").Replace(table), column), nil
}

type command func(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error

var commands = map[string]command{
	"init": func(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
		if err := migrator.Init(ctx); err != nil {
			return err
		}
		logger.Info("migration table created")
		return nil
	},
	"up": locked(func(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return err
		}
		logGroup(logger, group, "migrated", "database is up to date")
		return nil
	}),
	"down": locked(func(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
		group, err := migrator.Rollback(ctx)
		if err != nil {
			return err
		}
		logGroup(logger, group, "rolled back", "nothing to roll back")
		return nil
	}),
	"status": func(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
		ms, err := migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return err
		}
		logger.Info("migration status",
			zap.Stringer("migrations", ms),
			zap.Stringer("unapplied", ms.Unapplied()),
			zap.Stringer("last_group", ms.LastGroup()),
		)
		return nil
	},
}

// RunMigrations executes the command named by args[0] (init, up, down or status)
func RunMigrations(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger, args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	return cmd(ctx, migrator, logger)
}

func logGroup(logger *zap.Logger, group *migrate.MigrationGroup, done, idle string) {
	if group.IsZero() {
		logger.Info(idle)
		return
	}
	logger.Info(done, zap.String("group", group.String()))
}

// locked holds the migrator's table lock for the duration of cmd.
func locked(cmd command) command {
	return func(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
		if err := migrator.Lock(ctx); err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		defer func() {
			if err := migrator.Unlock(ctx); err != nil {
				logger.Warn("failed to release migration lock", zap.Error(err))
			}
		}()
		return cmd(ctx, migrator, logger)
	}
}
