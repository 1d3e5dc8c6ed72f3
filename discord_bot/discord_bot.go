package discord_bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sergiomvj/facemedia/creation_queue"
	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/gallery_renderer"
	"github.com/sergiomvj/facemedia/image_meta"
	"github.com/sergiomvj/facemedia/media_codec"
	"github.com/sergiomvj/facemedia/repositories"
	"github.com/sergiomvj/facemedia/repositories/user_settings"
)

type botImpl struct {
	botSession         *discordgo.Session
	guildID            string
	creationQueue      creation_queue.Queue
	settingsRepo       user_settings.Repository
	galleryRenderer    gallery_renderer.Renderer
	httpClient         *http.Client
	registeredCommands []*discordgo.ApplicationCommand

	formMu     sync.Mutex
	formStates map[string]*entities.FormState
}

type Config struct {
	BotToken        string
	GuildID         string
	CreationQueue   creation_queue.Queue
	SettingsRepo    user_settings.Repository
	GalleryRenderer gallery_renderer.Renderer
}

func New(cfg Config) (Bot, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("missing bot token")
	}

	if cfg.GuildID == "" {
		return nil, errors.New("missing guild ID")
	}

	if cfg.CreationQueue == nil {
		return nil, errors.New("missing creation queue")
	}

	if cfg.SettingsRepo == nil {
		return nil, errors.New("missing settings repo")
	}

	if cfg.GalleryRenderer == nil {
		return nil, errors.New("missing gallery renderer")
	}

	botSession, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}

	botSession.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	err = botSession.Open()
	if err != nil {
		return nil, err
	}

	bot := &botImpl{
		botSession:         botSession,
		guildID:            cfg.GuildID,
		creationQueue:      cfg.CreationQueue,
		settingsRepo:       cfg.SettingsRepo,
		galleryRenderer:    cfg.GalleryRenderer,
		httpClient:         &http.Client{Timeout: 30 * time.Second},
		registeredCommands: make([]*discordgo.ApplicationCommand, 0),
		formStates:         make(map[string]*entities.FormState),
	}

	err = bot.addCommands()
	if err != nil {
		return nil, err
	}

	botSession.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			switch i.ApplicationCommandData().Name {
			case "create":
				bot.processCreateCommand(s, i)
			case "video":
				bot.processVideoCommand(s, i)
			case "gallery":
				bot.processGalleryCommand(s, i)
			case "translate":
				bot.processTranslateCommand(s, i)
			case "prompt":
				bot.processPromptCommand(s, i)
			case "settings":
				bot.processSettingsCommand(s, i)
			case "clear":
				bot.processClearCommand(s, i)
			default:
				log.Printf("Unknown command '%v'", i.ApplicationCommandData().Name)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID

			switch {
			case customID == "creation_use_as_base":
				bot.processUseAsBase(s, i)
			case customID == "creation_regenerate":
				bot.processRegenerate(s, i)
			case strings.HasPrefix(customID, "creation_delete_"):
				bot.processDeleteCreation(s, i, strings.TrimPrefix(customID, "creation_delete_"))
			case strings.HasPrefix(customID, "creation_reload_"):
				bot.processReloadCreation(s, i, strings.TrimPrefix(customID, "creation_reload_"))
			default:
				log.Printf("Unknown message component '%v'", customID)
			}
		}
	})

	return bot, nil
}

func (b *botImpl) Start() {
	b.creationQueue.StartPolling()

	err := b.teardown()
	if err != nil {
		log.Printf("Error tearing down bot: %v", err)
	}
}

func (b *botImpl) teardown() error {
	return b.botSession.Close()
}

func aspectRatioChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.AspectRatios))

	for _, ratio := range entities.AspectRatios {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  ratio,
			Value: ratio,
		})
	}

	return choices
}

// noStyleChoice clears a previously selected preset.
const noStyleChoice = "None"

func stylePresetChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.StylePresets)+1)

	choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
		Name:  noStyleChoice,
		Value: noStyleChoice,
	})

	for _, preset := range entities.StylePresets {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  preset.Name,
			Value: preset.Name,
		})
	}

	return choices
}

func (b *botImpl) addCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "create",
			Description: "Create or edit an image from a text prompt",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "What to create",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "negative_prompt",
					Description: "What to avoid in the image",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "aspect_ratio",
					Description: "Aspect ratio of the image",
					Choices:     aspectRatioChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "style",
					Description: "Style preset applied to the image",
					Choices:     stylePresetChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "base_image",
					Description: "Image to edit instead of creating from scratch",
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "blend_image",
					Description: "Second image to blend into the base image",
				},
			},
		},
		{
			Name:        "video",
			Description: "Generate a short video from a text prompt",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "What the video should show",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionAttachment,
					Name:        "base_image",
					Description: "Starting frame for the video",
				},
			},
		},
		{
			Name:        "gallery",
			Description: "Show your most recent creations",
		},
		{
			Name:        "clear",
			Description: "Reset your form: prompts, images, style and result",
		},
		{
			Name:        "translate",
			Description: "Translate a prompt to English",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "The text to translate",
					Required:    true,
				},
			},
		},
		{
			Name:        "prompt",
			Description: "Build a detailed prompt from a few keywords",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "keywords",
					Description: "Comma separated keywords",
					Required:    true,
				},
			},
		},
		{
			Name:        "settings",
			Description: "Set your default aspect ratio and negative prompt",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "aspect_ratio",
					Description: "Default aspect ratio",
					Choices:     aspectRatioChoices(),
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "negative_prompt",
					Description: "Default negative prompt",
				},
			},
		},
	}

	for _, command := range commands {
		log.Printf("Adding command '%s'...", command.Name)

		cmd, err := b.botSession.ApplicationCommandCreate(b.botSession.State.User.ID, b.guildID, command)
		if err != nil {
			log.Printf("Error creating '%s' command: %v", command.Name, err)

			return err
		}

		b.registeredCommands = append(b.registeredCommands, cmd)
	}

	return nil
}

func memberID(i *discordgo.InteractionCreate) string {
	if i.Member != nil {
		return i.Member.User.ID
	}

	return i.User.ID
}

// formStateLocked returns the member's form, creating it on first use. The
// caller holds formMu; form fields are only ever touched under that lock.
func (b *botImpl) formStateLocked(member string) *entities.FormState {
	state, ok := b.formStates[member]
	if !ok {
		state = entities.NewFormState()
		b.formStates[member] = state
	}

	return state
}

// setFormResult records a finished result on the member's form. Called from
// the queue's worker goroutine.
func (b *botImpl) setFormResult(member string, result *entities.MediaResult) {
	b.formMu.Lock()
	defer b.formMu.Unlock()

	b.formStateLocked(member).Result = result
}

// queueItemFromState snapshots the form into a queue item, so the worker
// goroutine never reads the live form state.
func queueItemFromState(member string, state *entities.FormState) *creation_queue.QueueItem {
	return &creation_queue.QueueItem{
		OwnerID:        member,
		Mode:           state.Mode,
		Prompt:         state.Prompt,
		NegativePrompt: state.NegativePrompt,
		BaseImage:      state.BaseImage,
		BlendImage:     state.BlendImage,
		AspectRatio:    state.AspectRatio,
		StylePreset:    state.StylePreset,
	}
}

// memberSettings loads the member's saved defaults; a member without saved
// settings gets the zero value.
func (b *botImpl) memberSettings(ctx context.Context, member string) *entities.UserSettings {
	settings, err := b.settingsRepo.GetByMemberID(ctx, member)
	if err != nil {
		if !errors.Is(err, &repositories.NotFoundError{}) {
			log.Printf("Error loading settings for %s: %v", member, err)
		}

		return &entities.UserSettings{MemberID: member}
	}

	return settings
}

// resolveAttachment downloads an attachment option and validates it as an
// acceptable reference image.
func (b *botImpl) resolveAttachment(i *discordgo.InteractionCreate, option *discordgo.ApplicationCommandInteractionDataOption) (*entities.ImageFile, error) {
	attachmentID, ok := option.Value.(string)
	if !ok {
		return nil, errors.New("malformed attachment option")
	}

	attachment, ok := i.ApplicationCommandData().Resolved.Attachments[attachmentID]
	if !ok {
		return nil, errors.New("attachment not found in interaction")
	}

	resp, err := b.httpClient.Get(attachment.URL)
	if err != nil {
		return nil, fmt.Errorf("downloading attachment: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading attachment: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, image_meta.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("downloading attachment: %w", err)
	}

	info, err := image_meta.Inspect(raw)
	if err != nil {
		return nil, err
	}

	return media_codec.FromBytes(raw, info.MimeType, attachment.Filename), nil
}

func optionsByName(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options

	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}

	return optionMap
}

func (b *botImpl) processCreateCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := memberID(i)
	optionMap := optionsByName(i)
	settings := b.memberSettings(context.Background(), member)

	var baseImage, blendImage *entities.ImageFile

	if option, ok := optionMap["base_image"]; ok {
		resolved, err := b.resolveAttachment(i, option)
		if err != nil {
			b.respond(s, i, fmt.Sprintf("Error: %v", err))

			return
		}

		baseImage = resolved
	}

	if option, ok := optionMap["blend_image"]; ok {
		resolved, err := b.resolveAttachment(i, option)
		if err != nil {
			b.respond(s, i, fmt.Sprintf("Error: %v", err))

			return
		}

		blendImage = resolved
	}

	b.formMu.Lock()

	state := b.formStateLocked(member)
	state.Mode = entities.ModeImage
	state.Prompt = optionMap["prompt"].StringValue()

	state.NegativePrompt = settings.NegativePrompt
	if option, ok := optionMap["negative_prompt"]; ok {
		state.NegativePrompt = option.StringValue()
	}

	if settings.AspectRatio != "" {
		state.AspectRatio = settings.AspectRatio
	}

	if option, ok := optionMap["aspect_ratio"]; ok && entities.ValidAspectRatio(option.StringValue()) {
		state.AspectRatio = option.StringValue()
	}

	if option, ok := optionMap["style"]; ok {
		if option.StringValue() == noStyleChoice {
			state.StylePreset = ""
		} else if _, found := entities.FindStylePreset(option.StringValue()); found {
			state.StylePreset = option.StringValue()
		}
	}

	if baseImage != nil {
		state.BaseImage = baseImage
	}

	if blendImage != nil {
		state.BlendImage = blendImage
	}

	item := queueItemFromState(member, state)

	b.formMu.Unlock()

	b.enqueueItem(s, i, member, item)
}

func (b *botImpl) processVideoCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := memberID(i)
	optionMap := optionsByName(i)

	var baseImage *entities.ImageFile

	if option, ok := optionMap["base_image"]; ok {
		resolved, err := b.resolveAttachment(i, option)
		if err != nil {
			b.respond(s, i, fmt.Sprintf("Error: %v", err))

			return
		}

		baseImage = resolved
	}

	b.formMu.Lock()

	state := b.formStateLocked(member)
	state.Mode = entities.ModeVideo
	state.Prompt = optionMap["prompt"].StringValue()
	state.BlendImage = nil

	if baseImage != nil {
		state.BaseImage = baseImage
	}

	item := queueItemFromState(member, state)

	b.formMu.Unlock()

	b.enqueueItem(s, i, member, item)
}

// enqueueItem submits a snapshotted queue item and acknowledges the
// interaction with the member's position in line. Progress and the final
// result arrive as edits to that acknowledgement.
func (b *botImpl) enqueueItem(s *discordgo.Session, i *discordgo.InteractionCreate, member string, item *creation_queue.QueueItem) {
	item.OnProgress = func(message string) {
		b.editResponse(i.Interaction, message, nil)
	}
	item.OnResult = func(result *entities.MediaResult, history []*entities.Creation) {
		b.setFormResult(member, result)
		b.deliverResult(i.Interaction, member, result)
	}

	position, err := b.creationQueue.Add(item)
	if err != nil {
		log.Printf("Error adding creation to queue: %v\n", err)
	}

	b.respond(s, i, fmt.Sprintf(
		"I'm working on that for you. You are currently #%d in line.\n<@%s> asked for \"%s\".",
		position,
		member,
		item.Prompt))
}

// deliverResult edits the acknowledgement into the final result: an attached
// file for media, text otherwise. Image results carry the follow-up buttons.
func (b *botImpl) deliverResult(interaction *discordgo.Interaction, member string, result *entities.MediaResult) {
	switch result.Type {
	case entities.MediaTypeImage:
		raw, err := media_codec.Decode(dataURIPayload(result.Src))
		if err != nil {
			log.Printf("Error decoding image result for %s: %v", member, err)
			b.editResponse(interaction, "Error: the generated image could not be decoded.", nil)

			return
		}

		mimeType := dataURIMimeType(result.Src)
		content := fmt.Sprintf("Here you go, <@%s>!", member)

		_, err = b.botSession.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
			Content: &content,
			Files: []*discordgo.File{
				{
					Name:        resultFileName(mimeType),
					ContentType: mimeType,
					Reader:      bytes.NewReader(raw),
				},
			},
			Components: &[]discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.Button{
							Label:    "Use as base",
							Style:    discordgo.SecondaryButton,
							CustomID: "creation_use_as_base",
						},
						discordgo.Button{
							Label:    "Regenerate",
							Style:    discordgo.SecondaryButton,
							CustomID: "creation_regenerate",
						},
					},
				},
			},
		})
		if err != nil {
			log.Printf("Error editing interaction response: %v", err)
		}
	case entities.MediaTypeVideo:
		videoFile, err := os.Open(result.Src)
		if err != nil {
			log.Printf("Error opening video result for %s: %v", member, err)
			b.editResponse(interaction, "Error: the generated video could not be read.", nil)

			return
		}

		defer videoFile.Close()

		content := fmt.Sprintf("Here you go, <@%s>!", member)

		_, err = b.botSession.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
			Content: &content,
			Files: []*discordgo.File{
				{
					Name:        "generated-video.mp4",
					ContentType: "video/mp4",
					Reader:      videoFile,
				},
			},
		})
		if err != nil {
			log.Printf("Error editing interaction response: %v", err)
		}
	default:
		b.editResponse(interaction, result.Text, nil)
	}
}

func (b *botImpl) processUseAsBase(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := memberID(i)

	b.formMu.Lock()
	promoted := b.formStateLocked(member).ReuseAsBase()
	b.formMu.Unlock()

	if !promoted {
		b.respond(s, i, "There is no image result to use as a base.")

		return
	}

	b.respond(s, i, "Got it. Your next /create will edit that image.")
}

func (b *botImpl) processRegenerate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := memberID(i)

	b.formMu.Lock()
	item := queueItemFromState(member, b.formStateLocked(member))
	b.formMu.Unlock()

	if item.Prompt == "" {
		b.respond(s, i, "There is nothing to regenerate yet.")

		return
	}

	b.enqueueItem(s, i, member, item)
}

func (b *botImpl) processClearCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := memberID(i)

	b.formMu.Lock()
	b.formStateLocked(member).ClearAll()
	b.formMu.Unlock()

	b.respond(s, i, "Form cleared.")
}

func (b *botImpl) processReloadCreation(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		log.Printf("Malformed creation id '%s': %v", rawID, err)

		return
	}

	member := memberID(i)

	creationList, err := b.creationQueue.Creations(context.Background(), member)
	if err != nil {
		b.respond(s, i, fmt.Sprintf("Error: %v", err))

		return
	}

	for _, creation := range creationList {
		if creation.ID != id {
			continue
		}

		b.formMu.Lock()
		b.formStateLocked(member).LoadCreation(creation)
		b.formMu.Unlock()

		b.respond(s, i, "Loaded that creation back into your form. Use /create or /video to rework it.")

		return
	}

	b.respond(s, i, "That creation no longer exists.")
}

func (b *botImpl) processDeleteCreation(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		log.Printf("Malformed creation id '%s': %v", rawID, err)

		return
	}

	err = b.creationQueue.DeleteCreation(context.Background(), id)
	if err != nil {
		b.respond(s, i, fmt.Sprintf("Error: %v", err))

		return
	}

	b.respond(s, i, "Deleted.")
}

func (b *botImpl) processGalleryCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := memberID(i)

	b.deferResponse(s, i)

	creationList, err := b.creationQueue.Creations(context.Background(), member)
	if err != nil {
		b.editResponse(i.Interaction, fmt.Sprintf("Error: %v", err), nil)

		return
	}

	if len(creationList) == 0 {
		b.editResponse(i.Interaction, "You have no creations yet.", nil)

		return
	}

	imageBufs := make([]*bytes.Buffer, 0, gallery_renderer.MaxTiles)
	shown := make([]*entities.Creation, 0, gallery_renderer.MaxTiles)

	for _, creation := range creationList {
		if len(imageBufs) == gallery_renderer.MaxTiles {
			break
		}

		if creation.Result.Type != entities.MediaTypeImage {
			continue
		}

		raw, err := media_codec.Decode(dataURIPayload(creation.Result.Src))
		if err != nil {
			log.Printf("Error decoding creation %d: %v", creation.ID, err)

			continue
		}

		imageBufs = append(imageBufs, bytes.NewBuffer(raw))
		shown = append(shown, creation)
	}

	if len(imageBufs) == 0 {
		b.editResponse(i.Interaction, fmt.Sprintf("You have %d creations, but none with an image to show.", len(creationList)), nil)

		return
	}

	sheet, err := b.galleryRenderer.ContactSheet(imageBufs)
	if err != nil {
		log.Printf("Error rendering gallery for %s: %v", member, err)
		b.editResponse(i.Interaction, "Error: the gallery could not be rendered.", nil)

		return
	}

	reloadButtons := make([]discordgo.MessageComponent, 0, len(shown))
	deleteButtons := make([]discordgo.MessageComponent, 0, len(shown))

	for index, creation := range shown {
		reloadButtons = append(reloadButtons, discordgo.Button{
			Label:    fmt.Sprintf("Reload #%d", index+1),
			Style:    discordgo.SecondaryButton,
			CustomID: fmt.Sprintf("creation_reload_%d", creation.ID),
		})
		deleteButtons = append(deleteButtons, discordgo.Button{
			Label:    fmt.Sprintf("Delete #%d", index+1),
			Style:    discordgo.DangerButton,
			CustomID: fmt.Sprintf("creation_delete_%d", creation.ID),
		})
	}

	content := fmt.Sprintf("Your %d most recent creations, newest first:", len(shown))

	_, err = b.botSession.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Files: []*discordgo.File{
			{
				Name:        "gallery.png",
				ContentType: "image/png",
				Reader:      sheet,
			},
		},
		Components: &[]discordgo.MessageComponent{
			discordgo.ActionsRow{Components: reloadButtons},
			discordgo.ActionsRow{Components: deleteButtons},
		},
	})
	if err != nil {
		log.Printf("Error editing interaction response: %v", err)
	}
}

func (b *botImpl) processTranslateCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := optionsByName(i)
	text := optionMap["text"].StringValue()

	b.deferResponse(s, i)

	translated, err := b.creationQueue.Translate(context.Background(), text)
	if err != nil {
		log.Printf("Error translating text: %v", err)
		b.editResponse(i.Interaction, "Error: the text could not be translated.", nil)

		return
	}

	b.editResponse(i.Interaction, translated, nil)
}

func (b *botImpl) processPromptCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	optionMap := optionsByName(i)
	keywords := optionMap["keywords"].StringValue()

	b.deferResponse(s, i)

	built, err := b.creationQueue.BuildCreativePrompt(context.Background(), keywords)
	if err != nil {
		log.Printf("Error building creative prompt: %v", err)
		b.editResponse(i.Interaction, "Error: a prompt could not be built from those keywords.", nil)

		return
	}

	b.editResponse(i.Interaction, built, nil)
}

func (b *botImpl) processSettingsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	member := memberID(i)
	optionMap := optionsByName(i)

	settings := b.memberSettings(context.Background(), member)

	if option, ok := optionMap["aspect_ratio"]; ok && entities.ValidAspectRatio(option.StringValue()) {
		settings.AspectRatio = option.StringValue()
	}

	if option, ok := optionMap["negative_prompt"]; ok {
		settings.NegativePrompt = option.StringValue()
	}

	_, err := b.settingsRepo.Upsert(context.Background(), settings)
	if err != nil {
		b.respond(s, i, fmt.Sprintf("Error: %v", err))

		return
	}

	b.respond(s, i, "Settings saved.")
}

func (b *botImpl) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func (b *botImpl) deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("Error deferring interaction response: %v", err)
	}
}

func (b *botImpl) editResponse(interaction *discordgo.Interaction, content string, files []*discordgo.File) {
	_, err := b.botSession.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Content: &content,
		Files:   files,
	})
	if err != nil {
		log.Printf("Error editing interaction response: %v", err)
	}
}

// dataURIPayload strips a "data:<mime>;base64," prefix when present.
func dataURIPayload(src string) string {
	if index := strings.IndexByte(src, ','); index >= 0 {
		return src[index+1:]
	}

	return src
}

// dataURIMimeType reads the MIME type out of a "data:<mime>;base64," URI,
// falling back to image/png when none is declared.
func dataURIMimeType(src string) string {
	if !strings.HasPrefix(src, "data:") {
		return "image/png"
	}

	rest := src[len("data:"):]
	if index := strings.IndexAny(rest, ";,"); index >= 0 {
		rest = rest[:index]
	}

	if rest == "" {
		return "image/png"
	}

	return rest
}

// resultFileName picks an attachment filename whose extension matches the
// actual image type.
func resultFileName(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "generated-image.jpg"
	case "image/webp":
		return "generated-image.webp"
	default:
		return "generated-image.png"
	}
}
