package creation_queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/media_generator"
	"github.com/sergiomvj/facemedia/repositories/creations"
	"github.com/sergiomvj/facemedia/repositories/prompt_history"
)

const defaultProgressInterval = 3 * time.Second

// Status lines cycled while a video job is polled, wrapping around when
// exhausted.
var videoGenerationMessages = []string{
	"Initializing video engine...",
	"Warming up the pixels...",
	"Composing your masterpiece...",
	"Polling for result... this can take a few minutes.",
	"Almost there, adding the finishing touches...",
	"Finalizing video stream...",
	"Gathering stardust for your scene...",
}

const (
	creatingImageMessage = "Creating new image..."
	editingImageMessage  = "Editing image..."
)

type queueImpl struct {
	generator        media_generator.Generator
	creationRepo     creations.Repository
	historyRepo      prompt_history.Repository
	progressInterval time.Duration
	queue            chan *QueueItem
	currentItem      *QueueItem
	mu               sync.Mutex
}

type Config struct {
	Generator        media_generator.Generator
	CreationRepo     creations.Repository
	HistoryRepo      prompt_history.Repository
	ProgressInterval time.Duration
}

func New(cfg Config) (Queue, error) {
	if cfg.Generator == nil {
		return nil, errors.New("missing media generator")
	}

	if cfg.CreationRepo == nil {
		return nil, errors.New("missing creation repository")
	}

	if cfg.HistoryRepo == nil {
		return nil, errors.New("missing prompt history repository")
	}

	if cfg.ProgressInterval == 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}

	return &queueImpl{
		generator:        cfg.Generator,
		creationRepo:     cfg.CreationRepo,
		historyRepo:      cfg.HistoryRepo,
		progressInterval: cfg.ProgressInterval,
		queue:            make(chan *QueueItem, 100),
	}, nil
}

// QueueItem is one member's generation request together with the hooks the
// presentation layer gets called back on.
type QueueItem struct {
	OwnerID        string
	Mode           entities.Mode
	Prompt         string
	NegativePrompt string
	BaseImage      *entities.ImageFile
	BlendImage     *entities.ImageFile
	AspectRatio    string
	StylePreset    string

	// OnProgress receives human-readable status lines while the request is
	// in flight. OnResult receives the final result and the owner's
	// refreshed history. Either may be nil.
	OnProgress func(message string)
	OnResult   func(result *entities.MediaResult, history []*entities.Creation)
}

func (item *QueueItem) notifyProgress(message string) {
	if item.OnProgress != nil {
		item.OnProgress(message)
	}
}

func (q *queueImpl) Add(item *QueueItem) (int, error) {
	q.queue <- item

	linePosition := len(q.queue)

	return linePosition, nil
}

// StartPolling pulls one item at a time off the queue; a second submission
// always waits behind the first rather than racing it.
func (q *queueImpl) StartPolling() {
	log.Println("Press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	stopPolling := false

	for {
		select {
		case <-stop:
			stopPolling = true
		case <-time.After(1 * time.Second):
			if !q.busy() {
				q.pullNextInQueue()
			}
		}

		if stopPolling {
			break
		}
	}

	log.Printf("Polling stopped...\n")
}

// busy reports whether an item is currently in flight. The worker goroutine
// clears currentItem under the same lock.
func (q *queueImpl) busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.currentItem != nil
}

func (q *queueImpl) pullNextInQueue() {
	if len(q.queue) > 0 {
		item := <-q.queue

		q.mu.Lock()
		defer q.mu.Unlock()

		q.currentItem = item

		q.processCurrentItem()
	}
}

func (q *queueImpl) processCurrentItem() {
	go func() {
		defer func() {
			q.mu.Lock()
			defer q.mu.Unlock()

			q.currentItem = nil
		}()

		item := q.currentItem

		result, history := q.Generate(context.Background(), item)

		if item.OnResult != nil {
			item.OnResult(result, history)
		}
	}()
}

func (q *queueImpl) Generate(ctx context.Context, item *QueueItem) (*entities.MediaResult, []*entities.Creation) {
	q.recordHistory(ctx, item)

	result, err := q.dispatch(ctx, item)
	if err != nil {
		log.Printf("Generation failed for %s: %v", item.OwnerID, err)

		return &entities.MediaResult{
			Type: entities.MediaTypeText,
			Text: fmt.Sprintf("Error: %s", err.Error()),
		}, nil
	}

	history, err := q.saveResult(ctx, item, result)
	if err != nil {
		log.Printf("Persisting creation failed for %s: %v", item.OwnerID, err)

		return &entities.MediaResult{
			Type: entities.MediaTypeText,
			Text: fmt.Sprintf("Error: %s", err.Error()),
		}, nil
	}

	return result, history
}

// recordHistory notes the submitted prompts before generation is attempted;
// the lists track attempts, not just successes.
func (q *queueImpl) recordHistory(ctx context.Context, item *QueueItem) {
	_, err := q.historyRepo.Record(ctx, prompt_history.PromptHistoryKey, item.Prompt)
	if err != nil {
		log.Printf("Error recording prompt history: %v", err)
	}

	if item.NegativePrompt != "" {
		_, err = q.historyRepo.Record(ctx, prompt_history.NegativePromptHistoryKey, item.NegativePrompt)
		if err != nil {
			log.Printf("Error recording negative prompt history: %v", err)
		}
	}
}

func (q *queueImpl) dispatch(ctx context.Context, item *QueueItem) (*entities.MediaResult, error) {
	prompt, negativePrompt := item.styledPrompts()

	switch {
	case item.Mode == entities.ModeImage && item.BaseImage != nil:
		item.notifyProgress(editingImageMessage)

		return q.generator.EditImage(ctx, prompt, item.BaseImage, item.BlendImage)
	case item.Mode == entities.ModeImage:
		item.notifyProgress(creatingImageMessage)

		return q.generator.CreateImage(ctx, prompt, negativePrompt, item.AspectRatio)
	case item.Mode == entities.ModeVideo:
		return q.generateVideo(ctx, item)
	default:
		return nil, fmt.Errorf("unknown generation mode %q", item.Mode)
	}
}

// styledPrompts appends the selected style preset's fragments to the prompts
// sent to the backend. The persisted creation keeps the member's raw prompt
// together with the preset name, so reloads re-apply the style.
func (item *QueueItem) styledPrompts() (string, string) {
	preset, ok := entities.FindStylePreset(item.StylePreset)
	if !ok {
		return item.Prompt, item.NegativePrompt
	}

	prompt := fmt.Sprintf("%s, %s", item.Prompt, preset.Prompt)

	negativePrompt := item.NegativePrompt
	if preset.NegativePrompt != "" {
		if negativePrompt == "" {
			negativePrompt = preset.NegativePrompt
		} else {
			negativePrompt = fmt.Sprintf("%s, %s", negativePrompt, preset.NegativePrompt)
		}
	}

	return prompt, negativePrompt
}

func (q *queueImpl) generateVideo(ctx context.Context, item *QueueItem) (*entities.MediaResult, error) {
	generationDone := make(chan bool)

	go func() {
		messageIndex := 0

		for {
			select {
			case <-generationDone:
				return
			case <-time.After(q.progressInterval):
				item.notifyProgress(videoGenerationMessages[messageIndex%len(videoGenerationMessages)])
				messageIndex++
			}
		}
	}()

	defer close(generationDone)

	return q.generator.GenerateVideo(ctx, item.OwnerID, item.Prompt, item.BaseImage)
}

// saveResult persists the finished creation and refreshes the owner's list.
// Nothing is written when generation failed.
func (q *queueImpl) saveResult(ctx context.Context, item *QueueItem, result *entities.MediaResult) ([]*entities.Creation, error) {
	_, err := q.creationRepo.Create(ctx, &entities.Creation{
		OwnerID:        item.OwnerID,
		Mode:           item.Mode,
		Prompt:         item.Prompt,
		NegativePrompt: item.NegativePrompt,
		BaseImage:      item.BaseImage,
		BlendImage:     item.BlendImage,
		AspectRatio:    item.AspectRatio,
		StylePreset:    item.StylePreset,
		Result:         *result,
	})
	if err != nil {
		return nil, err
	}

	return q.creationRepo.ListByOwner(ctx, item.OwnerID)
}

// Translate is best effort: the caller logs and drops the error without
// changing any state.
func (q *queueImpl) Translate(ctx context.Context, text string) (string, error) {
	return q.generator.Translate(ctx, text)
}

func (q *queueImpl) BuildCreativePrompt(ctx context.Context, keywords string) (string, error) {
	return q.generator.BuildCreativePrompt(ctx, keywords)
}

func (q *queueImpl) Creations(ctx context.Context, ownerID string) ([]*entities.Creation, error) {
	return q.creationRepo.ListByOwner(ctx, ownerID)
}

func (q *queueImpl) DeleteCreation(ctx context.Context, id int64) error {
	return q.creationRepo.Delete(ctx, id)
}
