package series

import "context"

type Repository interface {
	// LoadAll returns every persisted series. A missing backing table is
	// the first-run bootstrap condition and yields an empty slice, not an
	// error.
	LoadAll(ctx context.Context) ([]Series, error)

	// SaveIfAbsent persists a discovery unless the series id is already
	// present. Concurrent resolver instances may race to persist the same
	// discovery; losing that race is not an error.
	SaveIfAbsent(ctx context.Context, item Series) error
}
