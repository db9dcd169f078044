package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	once     sync.Once
	instance *Db
)

// Db wraps a shared in-memory SQLite database that stands in for Postgres
// during integration tests. The server under test and the step assertions
// operate on the same connection.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	schema string
}

// NewDb returns the process-wide test database, creating and migrating it on
// first use.
func NewDb(schema string, models map[string]any) *Db {
	once.Do(func() {
		instance = connect(schema, models)
	})
	return instance
}

func connect(schema string, models map[string]any) *Db {
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	// A single connection keeps every session on the same shared-cache
	// database.
	conn.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(sqlite.Dialector{Conn: conn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to open test database: " + err.Error())
	}

	d := &Db{
		DbConn: gormDB,
		models: models,
		schema: schema,
	}
	if err := d.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to prepare test database: %s", err))
	}
	return d
}

// ClearDB recreates the schema if needed and empties every registered table.
// Safe to call between scenarios.
func (d *Db) ClearDB() error {
	for attempt := 0; attempt < 5; attempt++ {
		if err := d.DbConn.Exec("ATTACH ':memory:' AS " + d.schema).Error; err != nil {
			if !strings.Contains(err.Error(), "is already in use") {
				return err
			}
		} else {
			if err := d.migrate(); err != nil {
				continue
			}

			time.Sleep(200 * time.Millisecond)
			_ = d.DbConn.Exec("PRAGMA schema_version").Error

			if err := d.verifyTables(); err != nil {
				continue
			}
		}

		if err := d.truncate(); err != nil {
			continue
		}
		return nil
	}
	return fmt.Errorf("test database did not settle after 5 attempts")
}

// migrate drops and recreates every registered table inside one exclusive
// transaction.
func (d *Db) migrate() (err error) {
	tx := d.DbConn.Exec("BEGIN EXCLUSIVE")
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			err = fmt.Errorf("panic during test schema migration: %v", rec)
		} else if err != nil {
			if errTx := tx.Exec("ROLLBACK").Error; errTx != nil {
				panic(errTx)
			}
		} else if errTx := tx.Exec("COMMIT").Error; errTx != nil {
			panic(errTx)
		}
	}()

	all := make([]any, 0, len(d.models))
	for _, m := range d.models {
		table, err := tableName(tx, m)
		if err != nil {
			return err
		}
		if err := tx.Exec("DROP TABLE IF EXISTS " + table).Error; err != nil {
			return err
		}
		all = append(all, m)
	}

	if err := tx.AutoMigrate(all...); err != nil {
		return err
	}
	for _, m := range all {
		if !tx.Migrator().HasTable(m) {
			return fmt.Errorf("table for model %T missing after migration", m)
		}
	}
	return nil
}

// truncate removes every row, including soft-deleted ones, and resets the
// sqlite autoincrement bookkeeping.
func (d *Db) truncate() error {
	for _, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return err
		}

		table, err := tableName(d.DbConn, m)
		if err != nil {
			return err
		}
		err = d.DbConn.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
		if err != nil && !strings.Contains(err.Error(), "no such table: sqlite_sequence") {
			return err
		}
	}
	return nil
}

// verifyTables confirms every registered model is present and queryable.
func (d *Db) verifyTables() error {
	for _, m := range d.models {
		if !d.DbConn.Migrator().HasTable(m) {
			return fmt.Errorf("table for model %T was not created", m)
		}
		if err := d.DbConn.Find(&m).Error; err != nil {
			return fmt.Errorf("query on table for model %T failed: %w", m, err)
		}
	}
	return nil
}

// GetModel returns the registered model for a table name.
func (d *Db) GetModel(table string) (any, bool) {
	m, ok := d.models[table]
	return m, ok
}

func tableName(tx *gorm.DB, m any) (string, error) {
	stmt := &gorm.Statement{DB: tx}
	if err := stmt.Parse(m); err != nil {
		return "", err
	}
	return stmt.Schema.Table, nil
}
