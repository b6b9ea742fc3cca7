package app

import "errors"

// Local rejections. None of these reach the backend.
var (
	ErrClipboardEmpty    = errors.New("clipboard is empty")
	ErrOperationInFlight = errors.New("another copy is still running")
	ErrActionDisabled    = errors.New("action is not available here")
	ErrStaleMenu         = errors.New("menu is no longer open")
	ErrStaleListing      = errors.New("listing has changed")
	ErrNothingPending    = errors.New("nothing to confirm")
)
