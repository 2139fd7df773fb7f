package sessions

import "context"

// Backend is the key/value persistence the Store writes through. Apply must
// install every set and delete as one unit so concurrent writers never
// observe a half written session.
type Backend interface {
	// Get returns the values present for keys. Missing keys are absent from
	// the map.
	Get(ctx context.Context, keys ...string) (map[string]string, error)

	// Apply stores set and removes del in a single step.
	Apply(ctx context.Context, set map[string]string, del []string) error

	// Close releases the backend's resources.
	Close() error
}
