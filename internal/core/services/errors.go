package services

import (
	"errors"
	"fmt"
)

// ErrPartialUpdate indicates the album aggregate was written but the user's
// profile index was not. The aggregate is correct; resubmitting the same
// rating repairs the index without double-counting, because the upsert is
// idempotent by review identity.
var ErrPartialUpdate = errors.New("partial update")

// PartialUpdateError carries the context of a failed profile index write.
type PartialUpdateError struct {
	UserID  string
	AlbumID string
	Err     error
}

func (e *PartialUpdateError) Error() string {
	return fmt.Sprintf("service: album %s updated but profile index for user %s was not: %v", e.AlbumID, e.UserID, e.Err)
}

func (e *PartialUpdateError) Unwrap() error { return e.Err }

func (e *PartialUpdateError) Is(target error) bool { return target == ErrPartialUpdate }
