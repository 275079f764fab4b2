package bronze

import crerr "github.com/cockroachdb/errors"

var (
	// ErrInvalidBatch marks a malformed batch: bad schema, bad value type,
	// or an identifier column the batch does not carry.
	ErrInvalidBatch = crerr.New("invalid batch")

	// ErrSchemaMismatch marks a batch whose columns are incompatible with
	// the existing table. Not retriable; surfaced to the caller unchanged.
	ErrSchemaMismatch = crerr.New("schema mismatch")

	// ErrStorageUnavailable marks a storage-layer failure. The whole append
	// is rolled back, so a retry recomputes dedup against current state and
	// is safe.
	ErrStorageUnavailable = crerr.New("storage unavailable")
)
