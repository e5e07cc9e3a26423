package store

import "errors"

// Store-level sentinel errors. The service layer maps these into the
// application error taxonomy before they reach a handler.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	ErrBookNotFound    = errors.New("book not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already registered")
	ErrSessionNotFound = errors.New("session not found")
	ErrSlideNotFound   = errors.New("carousel slide not found")
	ErrCarouselFull    = errors.New("carousel is full")
	ErrSlideExists     = errors.New("book already on carousel")
)
