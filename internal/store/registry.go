package store

import (
	"fmt"

	"github.com/scribe-audio/scribe/internal/domain"
)

// Registry holds the set of named databases the service was configured
// with. Names are fixed at startup; requests resolve a name to its DB.
type Registry struct {
	dbs map[string]*DB
}

// OpenRegistry opens every configured database and applies the schema.
// On any failure, databases opened so far are closed.
func OpenRegistry(databases map[string]string) (*Registry, error) {
	r := &Registry{dbs: make(map[string]*DB, len(databases))}
	for name, path := range databases {
		db, err := NewSQLiteDB(path)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to open database %q: %w", name, err)
		}
		r.dbs[name] = db
	}
	return r, nil
}

// Get resolves a database name. Unknown names are a caller error.
func (r *Registry) Get(name string) (*DB, error) {
	db, ok := r.dbs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDatabase, name)
	}
	return db, nil
}

// Names returns the configured database names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.dbs))
	for name := range r.dbs {
		names = append(names, name)
	}
	return names
}

func (r *Registry) Close() error {
	var firstErr error
	for _, db := range r.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
