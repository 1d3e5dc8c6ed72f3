package video_jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/gemini_api"
)

const defaultPollInterval = 10 * time.Second

type pollerImpl struct {
	api          gemini_api.GeminiAPI
	pollInterval time.Duration
	maxWait      time.Duration
	after        func(time.Duration) <-chan time.Time
}

type Config struct {
	API gemini_api.GeminiAPI
	// PollInterval is how long to wait between status queries. Zero means
	// the default 10 seconds.
	PollInterval time.Duration
	// MaxWait bounds the total time spent waiting for completion. Zero means
	// wait indefinitely, matching the backend's own contract.
	MaxWait time.Duration
}

func New(cfg Config) (Poller, error) {
	if cfg.API == nil {
		return nil, errors.New("missing gemini API")
	}

	if cfg.PollInterval == 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &pollerImpl{
		api:          cfg.API,
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
		after:        time.After,
	}, nil
}

func (p *pollerImpl) Submit(ctx context.Context, prompt string, baseImage *entities.ImageFile) (*entities.VideoJob, error) {
	req := &gemini_api.GenerateVideosRequest{Prompt: prompt}

	if baseImage != nil {
		req.Image = &gemini_api.InlineImage{
			Data:     baseImage.Data,
			MimeType: baseImage.MimeType,
		}
	}

	operation, err := p.api.GenerateVideos(req)
	if err != nil {
		return nil, err
	}

	return jobFromOperation(operation), nil
}

// AwaitCompletion sleeps the poll interval and re-queries until the backend
// reports the job done. Completion is not success; the returned snapshot's
// payload decides that.
func (p *pollerImpl) AwaitCompletion(ctx context.Context, job *entities.VideoJob) (*entities.VideoJob, error) {
	if job == nil {
		return nil, errors.New("missing job")
	}

	started := time.Now()

	for !job.Done {
		if p.maxWait > 0 && time.Since(started) > p.maxWait {
			return nil, fmt.Errorf("video job %s did not complete within %s", job.Name, p.maxWait)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.after(p.pollInterval):
		}

		operation, err := p.api.GetVideosOperation(job.Name)
		if err != nil {
			return nil, err
		}

		job = jobFromOperation(operation)

		log.Printf("Polled video job %s: done=%v", job.Name, job.Done)
	}

	return job, nil
}

func (p *pollerImpl) FetchResult(ctx context.Context, job *entities.VideoJob) ([]byte, error) {
	if job == nil || !job.Done {
		return nil, errors.New("job is not complete")
	}

	if job.ResultURI == "" {
		return nil, errors.New("completed job carries no asset reference")
	}

	return p.api.DownloadFile(job.ResultURI)
}

func jobFromOperation(operation *gemini_api.VideoOperation) *entities.VideoJob {
	job := &entities.VideoJob{
		Name: operation.Name,
		Done: operation.Done,
	}

	if len(operation.VideoURIs) > 0 {
		job.ResultURI = operation.VideoURIs[0]
	}

	return job
}
