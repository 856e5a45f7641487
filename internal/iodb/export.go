package iodb

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/seafront/seafront/pkg/db"
	"github.com/seafront/seafront/pkg/obs"
	"github.com/seafront/seafront/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Exporter writes summary tables to PostgreSQL.
type Exporter struct {
	op db.Operator
}

// NewExporter creates an exporter over a connected operator.
func NewExporter(op db.Operator) *Exporter {
	return &Exporter{op: op}
}

// Migrate creates or updates the summary tables.
func (e *Exporter) Migrate(ctx context.Context) error {
	pool := e.op.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return SchemaError(err)
	}

	if err = schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return SchemaError(err)
	}
	return nil
}

// Export replaces the stored summaries of every dataset present in t
// with the rows of t. Datasets absent from t are left untouched. It
// returns the number of inserted records.
func (e *Exporter) Export(ctx context.Context, t *obs.Table) (int64, error) {
	pool := e.op.Pool()
	if pool == nil {
		return 0, NotConnectedError()
	}

	recs, err := schema.Records(t)
	if err != nil {
		return 0, err
	}
	ids := schema.DatasetIDs(recs)
	if len(ids) == 0 {
		return 0, nil
	}

	var model schema.DatasetSummary
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = r.Row()
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, ExportError(model.TableName(), err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		"DELETE FROM "+model.TableName()+" WHERE dataset_id = ANY($1)", ids)
	if err != nil {
		return 0, ExportError(model.TableName(), err)
	}

	count, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{model.TableName()},
		model.Columns(),
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, ExportError(model.TableName(), err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, ExportError(model.TableName(), err)
	}

	slog.Info("Exported dataset summaries",
		"datasets", humanize.Comma(int64(len(ids))),
		"records", humanize.Comma(count),
	)
	return count, nil
}
