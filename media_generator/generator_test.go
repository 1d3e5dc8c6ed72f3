package media_generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/gemini_api"
)

type fakeAPI struct {
	imagesRequest   *gemini_api.GenerateImagesRequest
	imagesResponse  *gemini_api.GenerateImagesResponse
	imagesErr       error
	contentRequest  *gemini_api.GenerateContentRequest
	contentResponse *gemini_api.GenerateContentResponse
}

func (f *fakeAPI) GenerateImages(req *gemini_api.GenerateImagesRequest) (*gemini_api.GenerateImagesResponse, error) {
	f.imagesRequest = req

	return f.imagesResponse, f.imagesErr
}

func (f *fakeAPI) GenerateContent(req *gemini_api.GenerateContentRequest) (*gemini_api.GenerateContentResponse, error) {
	f.contentRequest = req

	return f.contentResponse, nil
}

func (f *fakeAPI) GenerateVideos(*gemini_api.GenerateVideosRequest) (*gemini_api.VideoOperation, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) GetVideosOperation(string) (*gemini_api.VideoOperation, error) {
	return nil, errors.New("not used")
}

func (f *fakeAPI) DownloadFile(string) ([]byte, error) {
	return nil, errors.New("not used")
}

type fakePoller struct {
	job       *entities.VideoJob
	awaited   *entities.VideoJob
	fetched   []byte
	fetchErr  error
	submitErr error
}

func (f *fakePoller) Submit(context.Context, string, *entities.ImageFile) (*entities.VideoJob, error) {
	return f.job, f.submitErr
}

func (f *fakePoller) AwaitCompletion(_ context.Context, job *entities.VideoJob) (*entities.VideoJob, error) {
	if f.awaited != nil {
		return f.awaited, nil
	}

	return job, nil
}

func (f *fakePoller) FetchResult(context.Context, *entities.VideoJob) ([]byte, error) {
	return f.fetched, f.fetchErr
}

type fakeAssistant struct{}

func (fakeAssistant) Translate(_ context.Context, text string) (string, error) {
	return "translated: " + text, nil
}

func (fakeAssistant) BuildCreativePrompt(_ context.Context, keywords string) (string, error) {
	return "expanded: " + keywords, nil
}

type fakeStorage struct {
	savedName string
	savedData []byte
}

func (f *fakeStorage) Save(ownerID string, name string, data []byte) (string, error) {
	f.savedName = name
	f.savedData = data

	return "/media/" + ownerID + "_" + name, nil
}

func newTestGenerator(t *testing.T, api *fakeAPI, poller *fakePoller) (Generator, *fakeStorage) {
	t.Helper()

	storage := &fakeStorage{}

	generator, err := New(Config{
		API:       api,
		Poller:    poller,
		Assistant: fakeAssistant{},
		Storage:   storage,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return generator, storage
}

func TestCreateImage(t *testing.T) {
	tests := []struct {
		name           string
		prompt         string
		negativePrompt string
		response       *gemini_api.GenerateImagesResponse
		wantReason     string
		wantFullPrompt string
	}{
		{
			name:       "blank prompt",
			prompt:     "   ",
			wantReason: ReasonEmptyPrompt,
		},
		{
			name:       "backend returns no images",
			prompt:     "a red fox in snow",
			response:   &gemini_api.GenerateImagesResponse{},
			wantReason: ReasonNoOutput,
		},
		{
			name:   "success without negative prompt",
			prompt: "a red fox in snow",
			response: &gemini_api.GenerateImagesResponse{
				Images: []gemini_api.InlineImage{{Data: "aGVsbG8=", MimeType: "image/jpeg"}},
			},
			wantFullPrompt: "a red fox in snow",
		},
		{
			name:           "negative prompt folded into guidance text",
			prompt:         "a red fox in snow",
			negativePrompt: "blurry",
			response: &gemini_api.GenerateImagesResponse{
				Images: []gemini_api.InlineImage{{Data: "aGVsbG8=", MimeType: "image/jpeg"}},
			},
			wantFullPrompt: "a red fox in snow, negative prompt: blurry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{imagesResponse: tt.response}
			generator, _ := newTestGenerator(t, api, &fakePoller{})

			result, err := generator.CreateImage(context.Background(), tt.prompt, tt.negativePrompt, "1:1")

			if tt.wantReason != "" {
				var genErr *GenerationError
				if !errors.As(err, &genErr) || genErr.Reason != tt.wantReason {
					t.Fatalf("CreateImage() error = %v, want reason %q", err, tt.wantReason)
				}

				return
			}

			if err != nil {
				t.Fatalf("CreateImage() error = %v", err)
			}

			if api.imagesRequest.Prompt != tt.wantFullPrompt {
				t.Errorf("request prompt = %q, want %q", api.imagesRequest.Prompt, tt.wantFullPrompt)
			}

			if result.Type != entities.MediaTypeImage {
				t.Errorf("result type = %q, want image", result.Type)
			}

			if result.Src != "data:image/jpeg;base64,aGVsbG8=" {
				t.Errorf("result src = %q", result.Src)
			}
		})
	}
}

func TestEditImage(t *testing.T) {
	base := &entities.ImageFile{Data: "YmFzZQ==", MimeType: "image/png", Name: "base.png"}
	blend := &entities.ImageFile{Data: "YmxlbmQ=", MimeType: "image/png", Name: "blend.png"}

	t.Run("caption collects text parts in order", func(t *testing.T) {
		api := &fakeAPI{
			contentResponse: &gemini_api.GenerateContentResponse{
				Parts: []gemini_api.ContentPart{
					{Text: "Here is "},
					{InlineData: &gemini_api.InlineData{MimeType: "image/png", Data: "cmVzdWx0"}},
					{Text: "your edit."},
				},
			},
		}

		generator, _ := newTestGenerator(t, api, &fakePoller{})

		result, err := generator.EditImage(context.Background(), "make it snowy", base, blend)
		if err != nil {
			t.Fatalf("EditImage() error = %v", err)
		}

		if result.Text != "Here is your edit." {
			t.Errorf("caption = %q", result.Text)
		}

		if result.Src != "data:image/png;base64,cmVzdWx0" {
			t.Errorf("src = %q", result.Src)
		}

		// base, blend, then instruction text
		if len(api.contentRequest.Parts) != 3 {
			t.Fatalf("sent %d parts, want 3", len(api.contentRequest.Parts))
		}

		if api.contentRequest.Parts[0].InlineData == nil || api.contentRequest.Parts[0].InlineData.Data != "YmFzZQ==" {
			t.Errorf("first part is not the base image")
		}

		if api.contentRequest.Parts[2].Text != "make it snowy" {
			t.Errorf("last part = %+v, want instruction text", api.contentRequest.Parts[2])
		}
	})

	t.Run("no image part in response", func(t *testing.T) {
		api := &fakeAPI{
			contentResponse: &gemini_api.GenerateContentResponse{
				Parts: []gemini_api.ContentPart{{Text: "cannot do that"}},
			},
		}

		generator, _ := newTestGenerator(t, api, &fakePoller{})

		_, err := generator.EditImage(context.Background(), "make it snowy", base, nil)

		var genErr *GenerationError
		if !errors.As(err, &genErr) || genErr.Reason != ReasonNoImageReturned {
			t.Errorf("EditImage() error = %v, want reason %q", err, ReasonNoImageReturned)
		}
	})
}

func TestGenerateVideo(t *testing.T) {
	t.Run("success materializes the fetched asset", func(t *testing.T) {
		poller := &fakePoller{
			job:     &entities.VideoJob{Name: "operations/abc", Done: false},
			awaited: &entities.VideoJob{Name: "operations/abc", Done: true, ResultURI: "X"},
			fetched: []byte("video-bytes"),
		}

		generator, storage := newTestGenerator(t, &fakeAPI{}, poller)

		result, err := generator.GenerateVideo(context.Background(), "member-1", "a slow sunrise", nil)
		if err != nil {
			t.Fatalf("GenerateVideo() error = %v", err)
		}

		if result.Type != entities.MediaTypeVideo {
			t.Errorf("result type = %q, want video", result.Type)
		}

		if !strings.HasPrefix(result.Src, "/media/member-1_") {
			t.Errorf("result src = %q", result.Src)
		}

		if string(storage.savedData) != "video-bytes" {
			t.Errorf("stored bytes = %q", storage.savedData)
		}
	})

	t.Run("completed job without download link", func(t *testing.T) {
		poller := &fakePoller{
			job:     &entities.VideoJob{Name: "operations/abc", Done: false},
			awaited: &entities.VideoJob{Name: "operations/abc", Done: true},
		}

		generator, _ := newTestGenerator(t, &fakeAPI{}, poller)

		_, err := generator.GenerateVideo(context.Background(), "member-1", "a slow sunrise", nil)

		var genErr *GenerationError
		if !errors.As(err, &genErr) || genErr.Reason != ReasonNoDownloadLink {
			t.Errorf("GenerateVideo() error = %v, want reason %q", err, ReasonNoDownloadLink)
		}
	})

	t.Run("download failure", func(t *testing.T) {
		poller := &fakePoller{
			job:      &entities.VideoJob{Name: "operations/abc", Done: false},
			awaited:  &entities.VideoJob{Name: "operations/abc", Done: true, ResultURI: "X"},
			fetchErr: &gemini_api.TransportError{StatusCode: 500, Status: "500 Internal Server Error"},
		}

		generator, _ := newTestGenerator(t, &fakeAPI{}, poller)

		_, err := generator.GenerateVideo(context.Background(), "member-1", "a slow sunrise", nil)

		var genErr *GenerationError
		if !errors.As(err, &genErr) || genErr.Reason != ReasonDownloadFailed {
			t.Errorf("GenerateVideo() error = %v, want reason %q", err, ReasonDownloadFailed)
		}
	})

	t.Run("blank prompt", func(t *testing.T) {
		generator, _ := newTestGenerator(t, &fakeAPI{}, &fakePoller{})

		_, err := generator.GenerateVideo(context.Background(), "member-1", "", nil)

		var genErr *GenerationError
		if !errors.As(err, &genErr) || genErr.Reason != ReasonEmptyPrompt {
			t.Errorf("GenerateVideo() error = %v, want reason %q", err, ReasonEmptyPrompt)
		}
	})
}
