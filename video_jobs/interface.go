package video_jobs

import (
	"context"

	"github.com/sergiomvj/facemedia/entities"
)

// Poller tracks one asynchronous video generation from submission to the
// retrieval of its produced asset.
type Poller interface {
	Submit(ctx context.Context, prompt string, baseImage *entities.ImageFile) (*entities.VideoJob, error)
	AwaitCompletion(ctx context.Context, job *entities.VideoJob) (*entities.VideoJob, error)
	FetchResult(ctx context.Context, job *entities.VideoJob) ([]byte, error)
}
