package repository

import "errors"

// Common repository errors
var (
	// ErrBoardNotFound is returned when a board is not found in the requested workspace
	ErrBoardNotFound = errors.New("board not found")

	// ErrDeckNotFound is returned when a deck is not found or not owned by the caller
	ErrDeckNotFound = errors.New("deck not found")

	// ErrStaleOrder is returned when a deck sequence names decks that no longer exist
	ErrStaleOrder = errors.New("deck order references decks that no longer exist")

	ErrWorkspaceNotFound = errors.New("workspace not found")

	ErrMemberNotFound = errors.New("workspace member not found")
)
