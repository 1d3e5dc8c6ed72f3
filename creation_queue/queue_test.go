package creation_queue

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sergiomvj/facemedia/databases/sqlite"
	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/media_generator"
	"github.com/sergiomvj/facemedia/repositories/creations"
	"github.com/sergiomvj/facemedia/repositories/prompt_history"
)

type fakeGenerator struct {
	created        bool
	edited         bool
	createErr      error
	lastPrompt     string
	lastNegative   string
	block          chan struct{}
	progressToRead int
	progressSeen   []string
	progress       chan string
}

func (f *fakeGenerator) CreateImage(_ context.Context, prompt, negativePrompt, aspectRatio string) (*entities.MediaResult, error) {
	f.created = true
	f.lastPrompt = prompt
	f.lastNegative = negativePrompt

	if f.block != nil {
		<-f.block
	}

	if f.createErr != nil {
		return nil, f.createErr
	}

	return &entities.MediaResult{Type: entities.MediaTypeImage, Src: "data:image/jpeg;base64,aGVsbG8="}, nil
}

func (f *fakeGenerator) EditImage(_ context.Context, prompt string, base, blend *entities.ImageFile) (*entities.MediaResult, error) {
	f.edited = true
	f.lastPrompt = prompt

	return &entities.MediaResult{Type: entities.MediaTypeImage, Src: "data:image/png;base64,ZWRpdA=="}, nil
}

func (f *fakeGenerator) GenerateVideo(context.Context, string, string, *entities.ImageFile) (*entities.MediaResult, error) {
	// Consume scripted progress updates before finishing so the test can
	// assert on the exact sequence without racing the ticker.
	for i := 0; i < f.progressToRead; i++ {
		f.progressSeen = append(f.progressSeen, <-f.progress)
	}

	return &entities.MediaResult{Type: entities.MediaTypeVideo, Src: "/media/clip.mp4"}, nil
}

func (f *fakeGenerator) Translate(_ context.Context, text string) (string, error) {
	return text, nil
}

func (f *fakeGenerator) BuildCreativePrompt(_ context.Context, keywords string) (string, error) {
	return keywords, nil
}

func newTestQueue(t *testing.T, generator media_generator.Generator) (Queue, prompt_history.Repository) {
	t.Helper()

	db, err := sqlite.New(context.Background(), sqlite.Config{
		Filename: filepath.Join(t.TempDir(), "test.sqlite"),
	})
	if err != nil {
		t.Fatalf("creating test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	creationRepo, err := creations.NewRepository(&creations.Config{DB: db})
	if err != nil {
		t.Fatalf("creating creation repository: %v", err)
	}

	historyRepo, err := prompt_history.NewRepository(&prompt_history.Config{DB: db})
	if err != nil {
		t.Fatalf("creating history repository: %v", err)
	}

	queue, err := New(Config{
		Generator:        generator,
		CreationRepo:     creationRepo,
		HistoryRepo:      historyRepo,
		ProgressInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("creating queue: %v", err)
	}

	return queue, historyRepo
}

func TestGenerate_ImageCreationScenario(t *testing.T) {
	generator := &fakeGenerator{}
	queue, historyRepo := newTestQueue(t, generator)
	ctx := context.Background()

	result, history := queue.Generate(ctx, &QueueItem{
		OwnerID:     "member-1",
		Mode:        entities.ModeImage,
		Prompt:      "a red fox in snow",
		AspectRatio: "1:1",
	})

	if !generator.created {
		t.Errorf("CreateImage was not called")
	}

	if result.Type != entities.MediaTypeImage {
		t.Errorf("result type = %q, want image", result.Type)
	}

	if len(history) != 1 {
		t.Fatalf("history has %d creations, want 1", len(history))
	}

	if history[0].Mode != entities.ModeImage || history[0].Prompt != "a red fox in snow" {
		t.Errorf("persisted creation = %+v", history[0])
	}

	if history[0].Result.Type != entities.MediaTypeImage {
		t.Errorf("persisted result type = %q, want image", history[0].Result.Type)
	}

	prompts, err := historyRepo.Get(ctx, prompt_history.PromptHistoryKey)
	if err != nil {
		t.Fatalf("reading prompt history: %v", err)
	}

	if len(prompts) != 1 || prompts[0] != "a red fox in snow" {
		t.Errorf("prompt history = %v, want [a red fox in snow]", prompts)
	}

	negatives, err := historyRepo.Get(ctx, prompt_history.NegativePromptHistoryKey)
	if err != nil {
		t.Fatalf("reading negative history: %v", err)
	}

	if len(negatives) != 0 {
		t.Errorf("negative history = %v, want empty", negatives)
	}
}

func TestGenerate_AppliesStylePreset(t *testing.T) {
	preset := entities.StylePresets[0]

	generator := &fakeGenerator{}
	queue, _ := newTestQueue(t, generator)
	ctx := context.Background()

	_, history := queue.Generate(ctx, &QueueItem{
		OwnerID:        "member-1",
		Mode:           entities.ModeImage,
		Prompt:         "a red fox in snow",
		NegativePrompt: "blurry",
		AspectRatio:    "1:1",
		StylePreset:    preset.Name,
	})

	wantPrompt := "a red fox in snow, " + preset.Prompt
	if generator.lastPrompt != wantPrompt {
		t.Errorf("backend prompt = %q, want %q", generator.lastPrompt, wantPrompt)
	}

	wantNegative := "blurry, " + preset.NegativePrompt
	if generator.lastNegative != wantNegative {
		t.Errorf("backend negative prompt = %q, want %q", generator.lastNegative, wantNegative)
	}

	if len(history) != 1 {
		t.Fatalf("history has %d creations, want 1", len(history))
	}

	// The raw prompt and the preset name are persisted, not the styled text.
	if history[0].Prompt != "a red fox in snow" {
		t.Errorf("persisted prompt = %q, want the raw prompt", history[0].Prompt)
	}

	if history[0].StylePreset != preset.Name {
		t.Errorf("persisted style preset = %q, want %q", history[0].StylePreset, preset.Name)
	}
}

func TestGenerate_UnknownStylePresetPassesPromptsThrough(t *testing.T) {
	generator := &fakeGenerator{}
	queue, _ := newTestQueue(t, generator)

	queue.Generate(context.Background(), &QueueItem{
		OwnerID:     "member-1",
		Mode:        entities.ModeImage,
		Prompt:      "a red fox in snow",
		AspectRatio: "1:1",
		StylePreset: "Nonexistent",
	})

	if generator.lastPrompt != "a red fox in snow" {
		t.Errorf("backend prompt = %q, want the raw prompt", generator.lastPrompt)
	}
}

func TestBusy_WhileItemInFlight(t *testing.T) {
	block := make(chan struct{})
	generator := &fakeGenerator{block: block}
	queue, _ := newTestQueue(t, generator)

	impl := queue.(*queueImpl)

	done := make(chan struct{})

	_, err := queue.Add(&QueueItem{
		OwnerID:     "member-1",
		Mode:        entities.ModeImage,
		Prompt:      "a red fox in snow",
		AspectRatio: "1:1",
		OnResult: func(*entities.MediaResult, []*entities.Creation) {
			close(done)
		},
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	impl.pullNextInQueue()

	if !impl.busy() {
		t.Error("busy() = false while an item is in flight")
	}

	close(block)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("item never completed")
	}

	deadline := time.Now().Add(5 * time.Second)
	for impl.busy() {
		if time.Now().After(deadline) {
			t.Fatal("busy() never cleared after completion")
		}

		time.Sleep(time.Millisecond)
	}
}

func TestGenerate_FailureContainment(t *testing.T) {
	generator := &fakeGenerator{
		createErr: media_generator.NewGenerationError(media_generator.ReasonNoOutput, nil),
	}
	queue, historyRepo := newTestQueue(t, generator)
	ctx := context.Background()

	result, history := queue.Generate(ctx, &QueueItem{
		OwnerID:     "member-1",
		Mode:        entities.ModeImage,
		Prompt:      "a red fox in snow",
		AspectRatio: "1:1",
	})

	if result.Type != entities.MediaTypeText {
		t.Fatalf("result type = %q, want text", result.Type)
	}

	if !strings.HasPrefix(result.Text, "Error: ") || len(result.Text) <= len("Error: ") {
		t.Errorf("result text = %q, want non-empty error message", result.Text)
	}

	if history != nil {
		t.Errorf("history = %v, want nil on failure", history)
	}

	listed, err := queue.Creations(ctx, "member-1")
	if err != nil {
		t.Fatalf("Creations() error = %v", err)
	}

	if len(listed) != 0 {
		t.Errorf("%d creations persisted after failure, want 0", len(listed))
	}

	// The attempt still lands in the prompt history.
	prompts, err := historyRepo.Get(ctx, prompt_history.PromptHistoryKey)
	if err != nil {
		t.Fatalf("reading prompt history: %v", err)
	}

	if len(prompts) != 1 {
		t.Errorf("prompt history = %v, want the attempted prompt", prompts)
	}
}

func TestGenerate_RoutesEditWhenBaseImagePresent(t *testing.T) {
	generator := &fakeGenerator{}
	queue, _ := newTestQueue(t, generator)

	result, _ := queue.Generate(context.Background(), &QueueItem{
		OwnerID:     "member-1",
		Mode:        entities.ModeImage,
		Prompt:      "make it snowy",
		BaseImage:   &entities.ImageFile{Data: "YmFzZQ==", MimeType: "image/png", Name: "base.png"},
		AspectRatio: "1:1",
	})

	if !generator.edited {
		t.Errorf("EditImage was not called")
	}

	if generator.created {
		t.Errorf("CreateImage called despite base image")
	}

	if result.Type != entities.MediaTypeImage {
		t.Errorf("result type = %q, want image", result.Type)
	}
}

func TestGenerate_VideoProgressMessagesCycle(t *testing.T) {
	wantCount := len(videoGenerationMessages) + 2

	progress := make(chan string, 100)
	generator := &fakeGenerator{progressToRead: wantCount, progress: progress}
	queue, _ := newTestQueue(t, generator)

	result, _ := queue.Generate(context.Background(), &QueueItem{
		OwnerID: "member-1",
		Mode:    entities.ModeVideo,
		Prompt:  "a slow sunrise",
		OnProgress: func(message string) {
			progress <- message
		},
	})

	if result.Type != entities.MediaTypeVideo {
		t.Fatalf("result type = %q, want video", result.Type)
	}

	if len(generator.progressSeen) != wantCount {
		t.Fatalf("saw %d progress messages, want %d", len(generator.progressSeen), wantCount)
	}

	for i, message := range generator.progressSeen {
		want := videoGenerationMessages[i%len(videoGenerationMessages)]
		if message != want {
			t.Errorf("progress message %d = %q, want %q", i, message, want)
		}
	}
}

func TestGenerate_RecordsNegativePromptHistory(t *testing.T) {
	generator := &fakeGenerator{}
	queue, historyRepo := newTestQueue(t, generator)
	ctx := context.Background()

	queue.Generate(ctx, &QueueItem{
		OwnerID:        "member-1",
		Mode:           entities.ModeImage,
		Prompt:         "a red fox in snow",
		NegativePrompt: "blurry",
		AspectRatio:    "1:1",
	})

	negatives, err := historyRepo.Get(ctx, prompt_history.NegativePromptHistoryKey)
	if err != nil {
		t.Fatalf("reading negative history: %v", err)
	}

	if len(negatives) != 1 || negatives[0] != "blurry" {
		t.Errorf("negative history = %v, want [blurry]", negatives)
	}
}

func TestGenerate_UnknownMode(t *testing.T) {
	queue, _ := newTestQueue(t, &fakeGenerator{})

	result, history := queue.Generate(context.Background(), &QueueItem{
		OwnerID: "member-1",
		Mode:    entities.Mode("Tools"),
		Prompt:  "anything",
	})

	if result.Type != entities.MediaTypeText {
		t.Errorf("result type = %q, want text", result.Type)
	}

	if history != nil {
		t.Errorf("history = %v, want nil", history)
	}
}

func TestDeleteCreation_Idempotent(t *testing.T) {
	queue, _ := newTestQueue(t, &fakeGenerator{})
	ctx := context.Background()

	_, history := queue.Generate(ctx, &QueueItem{
		OwnerID:     "member-1",
		Mode:        entities.ModeImage,
		Prompt:      "a red fox in snow",
		AspectRatio: "1:1",
	})

	if len(history) != 1 {
		t.Fatalf("history has %d creations, want 1", len(history))
	}

	id := history[0].ID

	if err := queue.DeleteCreation(ctx, id); err != nil {
		t.Fatalf("DeleteCreation() error = %v", err)
	}

	if err := queue.DeleteCreation(ctx, id); err != nil {
		t.Fatalf("second DeleteCreation() error = %v", err)
	}

	listed, err := queue.Creations(ctx, "member-1")
	if err != nil {
		t.Fatalf("Creations() error = %v", err)
	}

	if len(listed) != 0 {
		t.Errorf("%d creations remain after delete, want 0", len(listed))
	}
}
