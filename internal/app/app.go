// Package app wires together configuration and the local store into a single
// Deps struct that commands receive at runtime.
package app

import (
	"fmt"

	"github.com/mhoekstra/gauge/internal/config"
	"github.com/mhoekstra/gauge/internal/store"
)

// Deps holds all runtime dependencies injected into command Run functions.
// The store is opened lazily via RequireStore so pure pipe commands never
// touch the database file.
type Deps struct {
	Config *config.Config
	Store  *store.Store
}

// New builds a Deps from resolved config.
func New(cfg *config.Config) *Deps {
	return &Deps{Config: cfg}
}

// RequireStore opens the bbolt database if it is not open yet.
func (d *Deps) RequireStore() error {
	if d.Store != nil {
		return nil
	}
	if d.Config.DBPath == "" {
		return fmt.Errorf("no database path configured (set GAUGE_DB_PATH, db_path in config.json, or --db)")
	}
	s, err := store.Open(d.Config.DBPath)
	if err != nil {
		return err
	}
	d.Store = s
	return nil
}

// Close releases the store if it was opened.
func (d *Deps) Close() {
	if d.Store != nil {
		d.Store.Close()
		d.Store = nil
	}
}
