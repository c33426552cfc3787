package state

import "errors"

// Sentinel errors for Instance/Group invariant violations (§3) and store
// operations (§4.7, §7 "User errors").
var (
	errInvalidID             = errors.New("instance id must be 16 hex characters")
	errSandboxMissingFields  = errors.New("sandbox_info.enabled requires image and container_name")
	errCleanupWithoutManaged = errors.New("cleanup_on_delete requires managed_by_us")

	ErrNotFound         = errors.New("session not found")
	ErrDuplicateTitle   = errors.New("duplicate title at same path")
	ErrParentNotFound   = errors.New("parent session not found")
	ErrParentHasParent  = errors.New("parent session already has a parent")
	ErrGroupNotFound    = errors.New("group not found")
)
