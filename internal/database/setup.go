package database

import (
	"database/sql"
	"fmt"
	"incordes-client/internal/models"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSqlite   = "sqlite"
	DriverMysql    = "mysql"
	DriverPostgres = "pgx"
)

// Dialect smooths over the placeholder and upsert differences between the
// supported drivers.
type Dialect struct {
	Driver string
}

// Rebind rewrites ? placeholders into $1, $2... for postgres.
func (d Dialect) Rebind(query string) string {
	if d.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) Upsert() string {
	switch d.Driver {
	case DriverMysql:
		return "INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)"
	default:
		return d.Rebind("INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT (k) DO UPDATE SET v = excluded.v")
	}
}

func setPragmaValues(db *sql.DB) error {
	// these next 2 extremely speed up performance of sqlite
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA synchronous = normal"); err != nil {
		return err
	}

	return nil
}

func readPragmaValues(db *sql.DB) error {
	var journalModeValue string
	err := db.QueryRow("PRAGMA journal_mode").Scan(&journalModeValue)
	if err != nil {
		return err
	}
	fmt.Printf("sqlite PRAGMA journal_mode: %s\n", journalModeValue)

	var synchronousValue int
	err = db.QueryRow("PRAGMA synchronous").Scan(&synchronousValue)
	if err != nil {
		return err
	}

	var synchronousValueStr string
	switch synchronousValue {
	case 0:
		synchronousValueStr = "off"
	case 1:
		synchronousValueStr = "normal"
	case 2:
		synchronousValueStr = "full"
	case 3:
		synchronousValueStr = "extra"
	default:
		return fmt.Errorf("synchronous value is unsupported")
	}

	fmt.Printf("sqlite PRAGMA synchronous: %s\n", synchronousValueStr)

	return nil
}

// Setup opens the database picked by cfg.SessionBackend and makes sure the
// kv table exists.
func Setup(cfg *models.ConfigFile) (*sql.DB, Dialect, error) {
	var db *sql.DB
	var err error
	var dialect Dialect

	switch cfg.SessionBackend {
	case "sqlite":
		fmt.Println("Connecting to database sqlite...")
		dialect = Dialect{Driver: DriverSqlite}

		path := cfg.SqlitePath
		if path == "" {
			path = "./session.db"
		}

		db, err = sql.Open(DriverSqlite, path)
		if err != nil {
			return db, dialect, err
		}

		// there can be sqlite busy errors if this is not set to 1
		db.SetMaxOpenConns(1)

		err = setPragmaValues(db)
		if err != nil {
			return db, dialect, err
		}

		err = readPragmaValues(db)
		if err != nil {
			return db, dialect, err
		}
	case "mysql":
		fmt.Println("Connecting to database mysql/mariadb...")
		dialect = Dialect{Driver: DriverMysql}

		db, err = sql.Open(DriverMysql, fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&timeout=10s", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase))
		if err != nil {
			return db, dialect, err
		}

		db.SetMaxOpenConns(10)
	case "postgres":
		fmt.Println("Connecting to database postgres...")
		dialect = Dialect{Driver: DriverPostgres}

		db, err = sql.Open(DriverPostgres, fmt.Sprintf("postgres://%s:%s@%s:%s/%s?connect_timeout=10", cfg.DbUser, cfg.DbPassword, cfg.DbAddress, cfg.DbPort, cfg.DbDatabase))
		if err != nil {
			return db, dialect, err
		}

		db.SetMaxOpenConns(10)
	default:
		return nil, dialect, fmt.Errorf("session backend [%s] is not a database", cfg.SessionBackend)
	}

	err = setupTables(db)
	if err != nil {
		return db, dialect, err
	}

	return db, dialect, nil
}

func setupTables(db *sql.DB) error {
	_, err := db.Exec(`
			CREATE TABLE IF NOT EXISTS kv (
				k VARCHAR(64) PRIMARY KEY,
				v TEXT NOT NULL
			);
		`)
	return err
}
