package db

import (
	"fmt"
	"log"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Dialect holds the few pieces of SQL that differ between the supported drivers.
type Dialect struct {
	Driver   string
	TimeType string
	// LockClause is appended to a SELECT to take a row lock inside a transaction.
	// SQLite has no row locks; its single writer connection serialises instead.
	LockClause string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return Dialect{Driver: driver, TimeType: "DATETIME(6)", LockClause: " FOR UPDATE"}, nil
	case "postgres":
		return Dialect{Driver: driver, TimeType: "TIMESTAMP", LockClause: " FOR UPDATE"}, nil
	case "sqlite":
		return Dialect{Driver: driver, TimeType: "DATETIME"}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects and pings the database.
func Open(driver, dbURL string) (*sqlx.DB, error) {
	if _, err := DialectFor(driver); err != nil {
		return nil, err
	}
	db, err := sqlx.Connect(driver, dbURL)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func InitDB(driver, dbURL string) *sqlx.DB {
	db, err := Open(driver, dbURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database: ", err)
	}

	log.Println("✅ Connected to database")
	return db
}

func migrationQueries(d Dialect) []string {
	ts := d.TimeType
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(100) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			contact_name VARCHAR(255) NOT NULL,
			contact_number VARCHAR(20) NOT NULL,
			property_type VARCHAR(20) NOT NULL,
			price DECIMAL(12,2) NOT NULL,
			district VARCHAR(100) NOT NULL,
			image VARCHAR(512) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL,
			request_type VARCHAR(20) NOT NULL,
			original_property_id VARCHAR(36) NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			property_id VARCHAR(36) NOT NULL,
			start_date ` + ts + ` NOT NULL,
			end_date ` + ts + ` NOT NULL,
			price DECIMAL(12,2) NOT NULL,
			status VARCHAR(20) NOT NULL,
			contact TEXT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS inquiries (
			id VARCHAR(36) PRIMARY KEY,
			booking_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			message TEXT NOT NULL,
			response TEXT NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_at ` + ts + ` NOT NULL,
			updated_at ` + ts + ` NOT NULL
		)`,
	}

	indexes := []struct{ name, table, cols string }{
		{"idx_bookings_property", "bookings", "property_id"},
		{"idx_bookings_user", "bookings", "user_id"},
		{"idx_properties_status", "properties", "status"},
		{"idx_inquiries_user", "inquiries", "user_id"},
	}
	for _, idx := range indexes {
		// MySQL has no CREATE INDEX IF NOT EXISTS; RunMigrations tolerates duplicates there.
		stmt := "CREATE INDEX "
		if d.Driver != "mysql" {
			stmt += "IF NOT EXISTS "
		}
		queries = append(queries, stmt+idx.name+" ON "+idx.table+" ("+idx.cols+")")
	}
	return queries
}

// Migrate creates the schema. It is safe to run on every start.
func Migrate(db *sqlx.DB, d Dialect) error {
	for _, q := range migrationQueries(d) {
		if _, err := db.Exec(q); err != nil {
			if d.Driver == "mysql" && strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func RunMigrations(db *sqlx.DB, d Dialect) {
	if err := Migrate(db, d); err != nil {
		log.Fatal("Migration error: ", err)
	}
	log.Println("Migrations complete")
}
