package statestore

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
	_ "github.com/lib/pq"                                // postgres driver
	"github.com/sirupsen/logrus"
)

// Postgres stores the snapshot in a single-row table
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to the database and runs the migrations
func NewPostgres(dsn, migrationsPath string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db, migrationsPath); err != nil {
		return nil, err
	}

	return &Postgres{db: db}, nil
}

func runMigrations(db *sql.DB, migrationsPath string) error {
	logrus.WithField("migrationsPath", migrationsPath).Info("running migrations")

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

// Save upserts the snapshot row
func (p *Postgres) Save(data []byte) error {
	const query = `
INSERT INTO game_snapshots (id, data, updated)
VALUES (1, $1, (NOW() AT TIME ZONE 'utc'))
ON CONFLICT (id) DO UPDATE SET data = $1, updated = (NOW() AT TIME ZONE 'utc')`

	_, err := p.db.Exec(query, data)
	return err
}

// Load reads the snapshot row
func (p *Postgres) Load() ([]byte, error) {
	const query = `SELECT data FROM game_snapshots WHERE id = 1`

	var data []byte
	if err := p.db.QueryRow(query).Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoSnapshot
		}

		return nil, err
	}

	return data, nil
}
