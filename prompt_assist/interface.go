package prompt_assist

import "context"

// Assistant covers the two best-effort text helpers: translating a prompt to
// English and expanding keywords into a full creative prompt.
type Assistant interface {
	Translate(ctx context.Context, text string) (string, error)
	BuildCreativePrompt(ctx context.Context, keywords string) (string, error)
}
