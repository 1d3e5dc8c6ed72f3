package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/sergiomvj/facemedia/creation_queue"
	"github.com/sergiomvj/facemedia/databases/sqlite"
	"github.com/sergiomvj/facemedia/discord_bot"
	"github.com/sergiomvj/facemedia/gallery_renderer"
	"github.com/sergiomvj/facemedia/gemini_api"
	"github.com/sergiomvj/facemedia/media_generator"
	"github.com/sergiomvj/facemedia/media_storage"
	"github.com/sergiomvj/facemedia/prompt_assist"
	"github.com/sergiomvj/facemedia/repositories/creations"
	"github.com/sergiomvj/facemedia/repositories/prompt_history"
	"github.com/sergiomvj/facemedia/repositories/user_settings"
	"github.com/sergiomvj/facemedia/video_jobs"
)

// Bot parameters
var (
	guildID      = flag.String("guild", "", "Guild ID. If not passed - bot registers commands globally")
	botToken     = flag.String("token", "", "Bot access token")
	geminiAPIKey = flag.String("gemini-key", "", "Gemini API key. Falls back to the GEMINI_API_KEY environment variable")
	mediaDir     = flag.String("media", "media", "Directory for downloaded video files")
	dbFilename   = flag.String("db", "", "SQLite database file. Default is face_media_bot.sqlite in the working directory")
	videoMaxWait = flag.Duration("video-max-wait", 30*time.Minute, "Longest time to wait for one video generation")
)

func main() {
	flag.Parse()

	if guildID == nil || *guildID == "" {
		log.Fatalf("Guild ID flag is required")
	}

	if botToken == nil || *botToken == "" {
		log.Fatalf("Bot token flag is required")
	}

	apiKey := *geminiAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	if apiKey == "" {
		log.Fatalf("Gemini API key flag or GEMINI_API_KEY environment variable is required")
	}

	geminiAPI, err := gemini_api.New(gemini_api.Config{
		APIKey: apiKey,
	})
	if err != nil {
		log.Fatalf("Failed to create Gemini API: %v", err)
	}

	ctx := context.Background()

	sqliteDB, err := sqlite.Open(ctx, sqlite.Config{Filename: *dbFilename})
	if err != nil {
		log.Fatalf("Failed to create sqlite database: %v", err)
	}

	creationRepo, err := creations.NewRepository(&creations.Config{DB: sqliteDB})
	if err != nil {
		log.Fatalf("Failed to create creation repository: %v", err)
	}

	historyRepo, err := prompt_history.NewRepository(&prompt_history.Config{DB: sqliteDB})
	if err != nil {
		log.Fatalf("Failed to create prompt history repository: %v", err)
	}

	settingsRepo, err := user_settings.NewRepository(&user_settings.Config{DB: sqliteDB})
	if err != nil {
		log.Fatalf("Failed to create user settings repository: %v", err)
	}

	assistant, err := prompt_assist.New(prompt_assist.Config{
		APIKey: apiKey,
	})
	if err != nil {
		log.Fatalf("Failed to create prompt assistant: %v", err)
	}

	poller, err := video_jobs.New(video_jobs.Config{
		API:     geminiAPI,
		MaxWait: *videoMaxWait,
	})
	if err != nil {
		log.Fatalf("Failed to create video job poller: %v", err)
	}

	storage, err := media_storage.New(media_storage.Config{
		MediaDir: *mediaDir,
	})
	if err != nil {
		log.Fatalf("Failed to create media storage: %v", err)
	}

	generator, err := media_generator.New(media_generator.Config{
		API:       geminiAPI,
		Poller:    poller,
		Assistant: assistant,
		Storage:   storage,
	})
	if err != nil {
		log.Fatalf("Failed to create media generator: %v", err)
	}

	creationQueue, err := creation_queue.New(creation_queue.Config{
		Generator:    generator,
		CreationRepo: creationRepo,
		HistoryRepo:  historyRepo,
	})
	if err != nil {
		log.Fatalf("Failed to create creation queue: %v", err)
	}

	renderer, err := gallery_renderer.New(gallery_renderer.Config{})
	if err != nil {
		log.Fatalf("Failed to create gallery renderer: %v", err)
	}

	bot, err := discord_bot.New(discord_bot.Config{
		BotToken:        *botToken,
		GuildID:         *guildID,
		CreationQueue:   creationQueue,
		SettingsRepo:    settingsRepo,
		GalleryRenderer: renderer,
	})
	if err != nil {
		log.Fatalf("Error creating Discord bot: %v", err)
	}

	bot.Start()

	log.Println("Gracefully shutting down.")
}
