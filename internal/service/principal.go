package service

import "github.com/google/uuid"

// Principal identifies the authenticated caller of an operation. A nil
// *Principal means the request is unauthenticated. It is threaded explicitly
// through every operation that needs it rather than read from ambient state.
type Principal struct {
	UserID   uuid.UUID
	Username string
}
