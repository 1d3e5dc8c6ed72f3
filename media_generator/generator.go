package media_generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/gemini_api"
	"github.com/sergiomvj/facemedia/media_codec"
	"github.com/sergiomvj/facemedia/media_storage"
	"github.com/sergiomvj/facemedia/prompt_assist"
	"github.com/sergiomvj/facemedia/video_jobs"
)

const generatedImageMimeType = "image/jpeg"

type generatorImpl struct {
	api       gemini_api.GeminiAPI
	poller    video_jobs.Poller
	assistant prompt_assist.Assistant
	storage   media_storage.Storage
}

type Config struct {
	API       gemini_api.GeminiAPI
	Poller    video_jobs.Poller
	Assistant prompt_assist.Assistant
	Storage   media_storage.Storage
}

func New(cfg Config) (Generator, error) {
	if cfg.API == nil {
		return nil, errors.New("missing gemini API")
	}

	if cfg.Poller == nil {
		return nil, errors.New("missing video job poller")
	}

	if cfg.Assistant == nil {
		return nil, errors.New("missing prompt assistant")
	}

	if cfg.Storage == nil {
		return nil, errors.New("missing media storage")
	}

	return &generatorImpl{
		api:       cfg.API,
		poller:    cfg.Poller,
		assistant: cfg.Assistant,
		storage:   cfg.Storage,
	}, nil
}

func (g *generatorImpl) CreateImage(ctx context.Context, prompt string, negativePrompt string, aspectRatio string) (*entities.MediaResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, NewGenerationError(ReasonEmptyPrompt, nil)
	}

	// The backend has no separate negative-prompt field; it rides along as
	// guidance text on the prompt itself.
	fullPrompt := prompt
	if negativePrompt != "" {
		fullPrompt = fmt.Sprintf("%s, negative prompt: %s", prompt, negativePrompt)
	}

	resp, err := g.api.GenerateImages(&gemini_api.GenerateImagesRequest{
		Prompt:         fullPrompt,
		NumberOfImages: 1,
		AspectRatio:    aspectRatio,
		OutputMimeType: generatedImageMimeType,
	})
	if err != nil {
		return nil, wrapBackendError(err)
	}

	if len(resp.Images) == 0 {
		return nil, NewGenerationError(ReasonNoOutput, nil)
	}

	image := resp.Images[0]

	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = generatedImageMimeType
	}

	return &entities.MediaResult{
		Type: entities.MediaTypeImage,
		Src:  media_codec.ToDataURI(image.Data, mimeType),
	}, nil
}

func (g *generatorImpl) EditImage(ctx context.Context, prompt string, baseImage *entities.ImageFile, blendImage *entities.ImageFile) (*entities.MediaResult, error) {
	if baseImage == nil {
		return nil, errors.New("missing base image")
	}

	parts := []gemini_api.ContentPart{imagePart(baseImage)}

	if blendImage != nil {
		parts = append(parts, imagePart(blendImage))
	}

	if prompt != "" {
		parts = append(parts, gemini_api.ContentPart{Text: prompt})
	}

	resp, err := g.api.GenerateContent(&gemini_api.GenerateContentRequest{Parts: parts})
	if err != nil {
		return nil, wrapBackendError(err)
	}

	var resultText strings.Builder
	resultSrc := ""

	for _, part := range resp.Parts {
		if part.Text != "" {
			resultText.WriteString(part.Text)
		} else if part.InlineData != nil {
			resultSrc = media_codec.ToDataURI(part.InlineData.Data, part.InlineData.MimeType)
		}
	}

	if resultSrc == "" {
		return nil, NewGenerationError(ReasonNoImageReturned, nil)
	}

	return &entities.MediaResult{
		Type: entities.MediaTypeImage,
		Src:  resultSrc,
		Text: resultText.String(),
	}, nil
}

func (g *generatorImpl) GenerateVideo(ctx context.Context, ownerID string, prompt string, baseImage *entities.ImageFile) (*entities.MediaResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, NewGenerationError(ReasonEmptyPrompt, nil)
	}

	job, err := g.poller.Submit(ctx, prompt, baseImage)
	if err != nil {
		return nil, wrapBackendError(err)
	}

	job, err = g.poller.AwaitCompletion(ctx, job)
	if err != nil {
		return nil, wrapBackendError(err)
	}

	if job.ResultURI == "" {
		return nil, NewGenerationError(ReasonNoDownloadLink, nil)
	}

	raw, err := g.poller.FetchResult(ctx, job)
	if err != nil {
		return nil, NewGenerationError(ReasonDownloadFailed, err)
	}

	path, err := g.storage.Save(ownerID, "generated-video.mp4", raw)
	if err != nil {
		return nil, err
	}

	return &entities.MediaResult{
		Type: entities.MediaTypeVideo,
		Src:  path,
	}, nil
}

func (g *generatorImpl) Translate(ctx context.Context, text string) (string, error) {
	return g.assistant.Translate(ctx, text)
}

func (g *generatorImpl) BuildCreativePrompt(ctx context.Context, keywords string) (string, error) {
	return g.assistant.BuildCreativePrompt(ctx, keywords)
}

func imagePart(image *entities.ImageFile) gemini_api.ContentPart {
	return gemini_api.ContentPart{
		InlineData: &gemini_api.InlineData{
			MimeType: image.MimeType,
			Data:     image.Data,
		},
	}
}

func wrapBackendError(err error) error {
	if errors.Is(err, &gemini_api.TransportError{}) {
		return NewGenerationError(ReasonBackendRejected, err)
	}

	return err
}
