package health

import "context"

// Pinger is implemented by stores that hold a database connection
type Pinger interface {
	Ping(ctx context.Context) error
}

type Repository struct {
	db     Pinger
	driver string
}

// NewRepository wraps the active store. db is nil for the in-memory driver.
func NewRepository(db Pinger, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.Ping(ctx)
}

func (r *Repository) Driver() string {
	return r.driver
}
