package repo

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ID names a stored blob.
type ID string

// Reader loads blobs.
type Reader interface {
	Load(ctx context.Context, id ID) (io.ReadCloser, error)
}

// Writer saves blobs.
type Writer interface {
	Save(ctx context.Context, id ID, body io.Reader) error
}

// Repository embeds both halves and adds its own method.
type Repository interface {
	Reader
	Writer
	Touch(id ID, at time.Time)
}

// Copy copies one blob to another id and marks the copy as touched.
func Copy(ctx context.Context, repo Repository, from, to ID, now time.Time) error {
	body, err := repo.Load(ctx, from)
	if err != nil {
		return fmt.Errorf("loading %s: %w", from, err)
	}
	defer body.Close()

	err = repo.Save(ctx, to, body)
	if err != nil {
		return fmt.Errorf("saving %s: %w", to, err)
	}

	repo.Touch(to, now)

	return nil
}
