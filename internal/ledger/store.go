// Package ledger persists posts and their uploaded images.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/creatorstation/postdesk/internal/models"
)

var (
	ErrStoreUnavailable = errors.New("ledger unavailable")
	ErrRecordNotFound   = errors.New("post not found")
	ErrStatusFinal      = errors.New("post already reviewed")
	ErrDuplicateID      = errors.New("post id already exists")
	ErrImageMissing     = errors.New("image not found in upload store")
)

// Columns is the ledger column order.
var Columns = []string{"id", "platform", "type", "text", "image", "status", "scheduled_time", "created_at"}

// Store is the contract every ledger backend implements.
type Store interface {
	Initialize(ctx context.Context) error
	LoadAll(ctx context.Context) ([]models.Post, error)
	Append(ctx context.Context, post models.Post) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error

	SaveImage(ctx context.Context, id, filename string, data []byte) (string, error)
	ReadImage(ctx context.Context, ref string) ([]byte, error)
	DeleteImage(ctx context.Context, ref string) error
}

// NormalizeText folds CRLF line endings to LF, the form the CSV reader
// returns, so every backend stores the text it will later load.
func NormalizeText(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// checkTransition enforces Pending -> Approved|Rejected.
func checkTransition(current, next models.Status) error {
	if !next.Final() {
		return fmt.Errorf("invalid target status %q", next)
	}
	if current != models.StatusPending {
		return fmt.Errorf("%w: status is %s", ErrStatusFinal, current)
	}
	return nil
}
