// ABOUTME: Typed errors for the BoondManager API client
// ABOUTME: Distinguishes transient transport failures from rejected operations
package boond

import (
	"errors"
	"fmt"

	"github.com/recrutech/boondsync/models"
)

// ErrReadOnlyEnvironment is returned before any network I/O when a write is
// attempted against the production tenant.
var ErrReadOnlyEnvironment = errors.New("boond: refusing to write to read-only environment")

// APIError is a non-transient rejection from BoondManager (a 4xx other than
// 429). It is never retried and always names the entity it concerns.
type APIError struct {
	Status     int
	Env        models.Environment
	EntityType models.EntityType
	EntityID   string
	Body       string
}

func (e *APIError) Error() string {
	if e.EntityID != "" {
		return fmt.Sprintf("boond %s: %s %s rejected with status %d: %s", e.Env, e.EntityType, e.EntityID, e.Status, e.Body)
	}
	return fmt.Sprintf("boond %s: %s rejected with status %d: %s", e.Env, e.EntityType, e.Status, e.Body)
}

// TransientError wraps a transport-level failure (timeout, connection error,
// 429 or 5xx) that survived the full retry budget.
type TransientError struct {
	Env      models.Environment
	Attempts int
	LastErr  error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("boond %s: giving up after %d attempts: %v", e.Env, e.Attempts, e.LastErr)
}

func (e *TransientError) Unwrap() error {
	return e.LastErr
}
