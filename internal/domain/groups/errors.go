// internal/domain/groups/errors.go
package groups

import "errors"

// Error taxonomy for study-group mutations. All of these are local
// validation or state errors returned to the caller; none is fatal and
// none is retried automatically except ErrConflict, which the service's
// update loop surfaces only after its compare-and-swap retries run out.
var (
	// ErrNotFound indicates the group or meeting does not exist.
	ErrNotFound = errors.New("group or meeting not found")

	// ErrGroupFull indicates the group is at max_members capacity.
	ErrGroupFull = errors.New("group is at maximum capacity")

	// ErrAlreadyMember indicates the user is already in the group.
	// Note the asymmetry: adding a present user is an error, while
	// removing an absent user is a silent no-op.
	ErrAlreadyMember = errors.New("user is already a member of this group")

	// ErrInvalidRole indicates an unknown member role.
	ErrInvalidRole = errors.New(`role must be "admin", "moderator", or "member"`)

	// ErrInvalidGroup indicates group creation input that violates the
	// structural invariants (empty name, capacity out of bounds).
	ErrInvalidGroup = errors.New("invalid group")

	// ErrInvalidMeeting indicates meeting input that cannot be scheduled.
	ErrInvalidMeeting = errors.New("invalid meeting")

	// ErrMeetingNotCancellable indicates a cancel on a meeting that has
	// already started or finished.
	ErrMeetingNotCancellable = errors.New("only meetings that have not started can be cancelled")

	// ErrInvalidMessage indicates a chat message that failed validation.
	ErrInvalidMessage = errors.New("invalid chat message")

	// ErrCodeGenerationExhausted indicates every generated access code
	// collided with an existing group.
	ErrCodeGenerationExhausted = errors.New("could not generate a unique access code")

	// ErrConflict indicates optimistic-concurrency retries ran out.
	ErrConflict = errors.New("group was modified concurrently; retries exhausted")
)
