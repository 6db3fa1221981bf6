package service

import (
	"errors"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Common service errors
var (
	// ErrPageNotFound means the requested page holds no rows
	ErrPageNotFound = errors.New("page not found")
)

// storeError keeps domain sentinels intact and tags anything else as a store
// failure of op.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrQuestionNotFound) || errors.Is(err, domain.ErrCategoryNotFound) {
		return err
	}
	return &domain.StoreError{Op: op, Err: err}
}
