package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrUserNotFound = errors.New("user not found")

	ErrSelfFriend      = errors.New("cannot add yourself as a friend")
	ErrFriendNotFound  = errors.New("friend user not found")
	ErrDuplicateFriend = errors.New("already friends")

	ErrGalleryFull  = errors.New("photo gallery is full")
	ErrInvalidIndex = errors.New("invalid photo index")
	ErrNotAnImage   = errors.New("uploaded file is not an image")
)

// ValidationError carries every violated field so forms can be re-rendered
// with all messages at once, not just the first.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, m := range e.Fields {
		msgs = append(msgs, m)
	}
	return strings.Join(msgs, "; ")
}

// DuplicateFieldError names which unique field collided.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	switch e.Field {
	case "email":
		return "that email is already in use"
	case "username":
		return "that username is already taken"
	}
	return fmt.Sprintf("duplicate value for %s", e.Field)
}
