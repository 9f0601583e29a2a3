package database

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start"

// MetricsRecorder receives query timings and pool statistics.
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats sql.DBStats)
}

type registerFunc func(name string, fn func(*gorm.DB)) error

// RegisterMetricsCallbacks times every query, create, update, delete and raw
// statement issued through db.
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	cb := db.Callback()
	hooks := []struct {
		operation string
		before    registerFunc
		after     registerFunc
	}{
		{"select",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, fn) }},
		{"insert",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, fn) }},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, fn) }},
	}

	for _, h := range hooks {
		operation := h.operation
		if err := h.before("metrics:"+operation+"_before", markStart); err != nil {
			return err
		}
		if err := h.after("metrics:"+operation+"_after", func(tx *gorm.DB) {
			started, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(started.(time.Time)), tx.Error)
		}); err != nil {
			return err
		}
	}
	return nil
}

func markStart(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

// CollectStats reports connection pool statistics every interval until ctx
// is done.
func CollectStats(ctx context.Context, db *gorm.DB, recorder MetricsRecorder, interval time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	recorder.UpdateDBStats(sqlDB.Stats())
	for {
		select {
		case <-ticker.C:
			recorder.UpdateDBStats(sqlDB.Stats())
		case <-ctx.Done():
			return nil
		}
	}
}
