package creation_queue

import (
	"context"

	"github.com/sergiomvj/facemedia/entities"
)

type Queue interface {
	// Add enqueues one generation request and returns its position in line.
	Add(item *QueueItem) (int, error)
	// Generate runs one request to completion. It never returns an error:
	// every failure surfaces as a text MediaResult, which is the only way
	// generation failures reach the presentation layer. The returned list is
	// the owner's refreshed creation history, nil when nothing was persisted.
	Generate(ctx context.Context, item *QueueItem) (*entities.MediaResult, []*entities.Creation)
	// StartPolling runs the queue worker until the process is interrupted.
	StartPolling()
	// Translate and BuildCreativePrompt are best-effort prompt helpers.
	Translate(ctx context.Context, text string) (string, error)
	BuildCreativePrompt(ctx context.Context, keywords string) (string, error)
	// Creations lists the owner's history, newest first.
	Creations(ctx context.Context, ownerID string) ([]*entities.Creation, error)
	// DeleteCreation removes one record; deleting a missing id is a no-op.
	DeleteCreation(ctx context.Context, id int64) error
}
