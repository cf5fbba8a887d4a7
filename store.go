package blogtext

import "context"

// PostStore persists extracted posts as the output of a finished run.
// Saved posts become visible only on Commit; Abort discards them.
type PostStore interface {
	Save(ctx context.Context, post *ExtractedPost) error
	Commit() error
	Abort() error
}
