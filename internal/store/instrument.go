package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/preston-bernstein/game-store-service/internal/metrics"
)

const startKey = "metrics:start"

// Instrument registers gorm callbacks that time each statement and report it
// to recorder. A nil recorder leaves db untouched.
func Instrument(db *gorm.DB, recorder *metrics.Recorder) error {
	if recorder == nil {
		return nil
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("metrics:before_create", markStart); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("metrics:after_create", observe(recorder, "create")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("metrics:before_query", markStart); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("metrics:after_query", observe(recorder, "query")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("metrics:before_update", markStart); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("metrics:after_update", observe(recorder, "update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", markStart); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("metrics:after_delete", observe(recorder, "delete")); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("metrics:before_row", markStart); err != nil {
		return err
	}
	return cb.Row().After("gorm:row").Register("metrics:after_row", observe(recorder, "query"))
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func observe(recorder *metrics.Recorder, op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		var elapsed time.Duration
		if v, ok := db.InstanceGet(startKey); ok {
			if start, ok := v.(time.Time); ok {
				elapsed = time.Since(start)
			}
		}
		recorder.RecordStoreOperation(op, db.Statement.Table, elapsed, db.Error)
	}
}
