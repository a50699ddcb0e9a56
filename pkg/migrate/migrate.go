// Package migrate applies versioned SQL migrations, used to stand up a
// local mirror of the Cluetooth schema. Files are named
// NNNN_name.up.sql / NNNN_name.down.sql and tracked in a
// schema_migrations version table.
package migrate

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var fileRe = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// Migration holds one versioned migration pair.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// Manager applies and rolls back migrations against an open database.
type Manager struct {
	db         *sql.DB
	dir        string
	migrations []Migration
}

// NewManager loads migration files from dir.
func NewManager(db *sql.DB, dir string) (*Manager, error) {
	m := &Manager{db: db, dir: dir}
	if err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) load() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	tmp := map[int]*Migration{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		matches := fileRe.FindStringSubmatch(e.Name())
		if matches == nil {
			continue
		}
		ver, _ := strconv.Atoi(matches[1])
		data, err := os.ReadFile(filepath.Join(m.dir, e.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", e.Name(), err)
		}
		mig, ok := tmp[ver]
		if !ok {
			mig = &Migration{Version: ver, Name: matches[2]}
			tmp[ver] = mig
		}
		if matches[3] == "up" {
			mig.UpSQL = string(data)
		} else {
			mig.DownSQL = string(data)
		}
	}
	versions := make([]int, 0, len(tmp))
	for v := range tmp {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	for _, v := range versions {
		m.migrations = append(m.migrations, *tmp[v])
	}
	return nil
}

func (m *Manager) ensureVersionTable() error {
	_, err := m.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INT PRIMARY KEY);`)
	return err
}

func (m *Manager) currentVersion() (int, error) {
	var v sql.NullInt64
	if err := m.db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, err
	}
	if !v.Valid {
		return 0, nil
	}
	return int(v.Int64), nil
}

// Up applies all pending migrations in version order.
func (m *Manager) Up() error {
	if err := m.ensureVersionTable(); err != nil {
		return err
	}
	current, err := m.currentVersion()
	if err != nil {
		return err
	}
	for _, mig := range m.migrations {
		if mig.Version <= current {
			continue
		}
		log.Printf("applying %04d_%s.up.sql", mig.Version, mig.Name)
		if _, err := m.db.Exec(mig.UpSQL); err != nil {
			return fmt.Errorf("apply up %d_%s: %w", mig.Version, mig.Name, err)
		}
		if _, err := m.db.Exec(`INSERT INTO schema_migrations(version) VALUES($1)`, mig.Version); err != nil {
			return fmt.Errorf("record version %d: %w", mig.Version, err)
		}
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Manager) Down() error {
	if err := m.ensureVersionTable(); err != nil {
		return err
	}
	current, err := m.currentVersion()
	if err != nil {
		return err
	}
	if current == 0 {
		log.Print("no migrations to roll back")
		return nil
	}
	var latest *Migration
	for i := len(m.migrations) - 1; i >= 0; i-- {
		if m.migrations[i].Version == current {
			latest = &m.migrations[i]
			break
		}
	}
	if latest == nil {
		return fmt.Errorf("migration not found for version %d", current)
	}
	log.Printf("rolling back %04d_%s.down.sql", latest.Version, latest.Name)
	if _, err := m.db.Exec(latest.DownSQL); err != nil {
		return fmt.Errorf("apply down %d_%s: %w", latest.Version, latest.Name, err)
	}
	if _, err := m.db.Exec(`DELETE FROM schema_migrations WHERE version = $1`, latest.Version); err != nil {
		return fmt.Errorf("delete version %d: %w", latest.Version, err)
	}
	return nil
}

// Status reports the applied and pending migration counts.
func (m *Manager) Status() (string, error) {
	if err := m.ensureVersionTable(); err != nil {
		return "", err
	}
	current, err := m.currentVersion()
	if err != nil {
		return "", err
	}
	pending := 0
	for _, mig := range m.migrations {
		if mig.Version > current {
			pending++
		}
	}
	return fmt.Sprintf("version %d, %d pending of %d known", current, pending, len(m.migrations)), nil
}
