package prompt_history

import "context"

// Well-known history keys, one per persisted recency list.
const (
	PromptHistoryKey         = "promptHistory"
	NegativePromptHistoryKey = "negativePromptHistory"
)

// MaxEntries caps every recency list.
const MaxEntries = 20

type Repository interface {
	// Record notes one use of text in the named list: duplicates are removed,
	// the text is prepended, and the list is truncated to MaxEntries. Blank
	// text is ignored. The updated list is returned.
	Record(ctx context.Context, key string, text string) ([]string, error)
	// Get returns the named list, most recent first.
	Get(ctx context.Context, key string) ([]string, error)
}
