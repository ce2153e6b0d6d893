package post

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("post not found")
)

// ParseError reports a source that exists but whose front matter could not
// be decoded into a post.
type ParseError struct {
	ID  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse post %q: %v", e.ID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFound wraps ErrNotFound with the id that was asked for.
func NotFound(id string) error {
	return fmt.Errorf("post with id %q: %w", id, ErrNotFound)
}
