// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"log/slog"

	"senghor/config"
	"senghor/internal/domain/lifecycle"
	"senghor/internal/errors"
	"senghor/internal/infra/persistence/postgres/migrations"

	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New creates the PostgreSQL client and manages its lifecycle: the pool is
// configured and pinged on start, embedded migrations are applied, and the
// connection is closed on stop.
func New(params Params) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(params.Config.Postgres.DSN()), &gorm.Config{
		// GORM's per-statement implicit transaction is disabled; multi-step
		// atomic operations go through TransactionManager.Execute.
		SkipDefaultTransaction: true,
		// Driver errors become gorm.ErrDuplicatedKey and friends, which the
		// repositories map onto the domain error taxonomy.
		TranslateError: true,
		Logger:         newGormSlogLogger(params.Logger, params.Config),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	pg := params.Config.Postgres
	if pg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pg.MaxOpenConns)
	}
	if pg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pg.MaxIdleConns)
	}
	if pg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pg.ConnMaxLifetime)
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			if err := goose.SetDialect("postgres"); err != nil {
				return errors.Wrap(err, "failed to set goose dialect")
			}
			goose.SetBaseFS(migrations.FS)
			if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
				return errors.Wrap(err, "failed to apply migrations")
			}

			params.Logger.Info("PostgreSQL ready",
				slog.String("host", pg.Host),
				slog.String("database", pg.DBName),
			)

			return nil
		},
		OnStop: func(_ context.Context) error {
			return sqlDB.Close()
		},
	})

	return db, nil
}
