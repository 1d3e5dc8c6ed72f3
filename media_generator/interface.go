package media_generator

import (
	"context"

	"github.com/sergiomvj/facemedia/entities"
)

// Generator turns one creative request into one backend call (or, for video,
// one submit plus poll sequence) and normalizes the outcome into a
// MediaResult or a GenerationError.
type Generator interface {
	CreateImage(ctx context.Context, prompt string, negativePrompt string, aspectRatio string) (*entities.MediaResult, error)
	EditImage(ctx context.Context, prompt string, baseImage *entities.ImageFile, blendImage *entities.ImageFile) (*entities.MediaResult, error)
	GenerateVideo(ctx context.Context, ownerID string, prompt string, baseImage *entities.ImageFile) (*entities.MediaResult, error)
	Translate(ctx context.Context, text string) (string, error)
	BuildCreativePrompt(ctx context.Context, keywords string) (string, error)
}
