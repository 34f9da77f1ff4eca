// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (production) or SQLite
// (development, tests) connections from the application's configuration.
//
// # Connect
//
// Connect establishes a connection and pings it within the configured timeout.
// Every connection translates driver errors into GORM sentinels so the record store
// can classify duplicate keys as conflicts independently of the driver.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns, which the integrity feature compares against
// the Record model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "records")
package database
