package bot

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"petpal/internal/ai"
	"petpal/internal/calendar"
	"petpal/internal/model"
	"petpal/internal/places"
	"petpal/internal/repository"
	"petpal/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota

	stagePetName
	stagePetSpecies
	stagePetBreed
	stagePetGender
	stagePetColor
	stagePetBirth

	stageRemTitle
	stageRemType
	stageRemPet
	stageRemDate
	stageRemTime
	stageRemNote
	stageRemFreq

	stageMoodPet
	stageMoodValue

	stageChat
)

const (
	cbCompletePrefix = "done:"
	cbDeletePrefix   = "del:"
)

type conversationState struct {
	stage conversationStage
	pet   model.Pet
	rem   model.RecurrenceRequest
	// moodPetID holds the chosen pet while the mood keyboard is up.
	moodPetID string
}

// Bot aggregates the Telegram API with the pet-care services.
type Bot struct {
	api         *tgbotapi.BotAPI
	pets        *repository.PetStore
	photos      *repository.PhotoStore
	chats       *repository.ChatStore
	reminderSvc *service.ReminderService
	calendarSvc *service.CalendarService
	moodSvc     *service.MoodService
	digestSvc   *service.DigestService
	exportSvc   *service.ExportService
	assistant   *ai.Client
	vetFinder   *places.Client
	logger      *logrus.Logger

	conversations map[int64]*conversationState
	mu            sync.Mutex
}

// Deps bundles everything the bot needs; all fields are required.
type Deps struct {
	Pets      *repository.PetStore
	Photos    *repository.PhotoStore
	Chats     *repository.ChatStore
	Reminders *service.ReminderService
	Calendar  *service.CalendarService
	Moods     *service.MoodService
	Digest    *service.DigestService
	Export    *service.ExportService
	Assistant *ai.Client
	VetFinder *places.Client
	Logger    *logrus.Logger
}

func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	deps.Logger.WithField("account", api.Self.UserName).Info("bot authorized")

	return &Bot{
		api:           api,
		pets:          deps.Pets,
		photos:        deps.Photos,
		chats:         deps.Chats,
		reminderSvc:   deps.Reminders,
		calendarSvc:   deps.Calendar,
		moodSvc:       deps.Moods,
		digestSvc:     deps.Digest,
		exportSvc:     deps.Export,
		assistant:     deps.Assistant,
		vetFinder:     deps.VetFinder,
		logger:        deps.Logger,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.logger.WithError(err).Error("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.logger.WithError(err).Error("handle message")
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if err := b.chats.Remember(ctx, msg.Chat.ID); err != nil {
		b.logger.WithError(err).Warn("remember chat")
	}

	switch {
	case len(msg.Photo) > 0:
		return b.handlePhoto(ctx, msg)
	case msg.Location != nil:
		return b.handleLocation(ctx, msg)
	}

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled. Back to the main menu.")
	}

	if msg.IsCommand() {
		b.clearConversation(msg.From.ID)
		b.logger.WithFields(logrus.Fields{
			"user":    msg.From.ID,
			"command": msg.Command(),
		}).Info("command received")
		return b.handleCommand(ctx, msg)
	}

	// An active dialog owns the chat; menu taps there are wizard answers.
	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I didn't catch that. Try /remind to schedule something, or /help for the full list.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "addpet":
		return b.startAddPetConversation(msg)
	case "pets":
		return b.handlePets(ctx, msg)
	case "weight":
		return b.handleWeight(ctx, msg)
	case "vaccine":
		return b.handleVaccine(ctx, msg)
	case "note":
		return b.handleNote(ctx, msg)
	case "remind":
		return b.startRemindConversation(ctx, msg)
	case "today":
		return b.handleToday(ctx, msg)
	case "calendar":
		return b.handleCalendar(ctx, msg)
	case "mood":
		return b.startMoodConversation(ctx, msg)
	case "memories":
		return b.handleMemories(ctx, msg)
	case "export":
		return b.handleExport(ctx, msg)
	case "ask":
		return b.startChatMode(msg)
	case "digest":
		return b.handleDigest(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

// SendDailyDigests pushes the daily summary to every known chat.
func (b *Bot) SendDailyDigests(ctx context.Context) error {
	chats, err := b.chats.List(ctx)
	if err != nil {
		return err
	}

	text, err := b.digestSvc.Daily(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, chatID := range chats {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(chatID, text); err != nil {
			b.logger.WithError(err).WithField("chat", chatID).Warn("send digest")
		}
	}
	return nil
}

// NotifyDue fires reminder notifications for events due this minute.
func (b *Bot) NotifyDue(ctx context.Context) error {
	due, err := b.reminderSvc.DueAt(ctx, time.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	chats, err := b.chats.List(ctx)
	if err != nil {
		return err
	}

	names, err := b.petNames(ctx)
	if err != nil {
		return err
	}

	for _, ev := range due {
		text := fmt.Sprintf("⏰ <b>Reminder</b>\n%s %s <b>%s</b>", service.EventIcon(ev.Type), ev.Time, escape(ev.Title))
		if name, ok := names[ev.PetID]; ok {
			text += fmt.Sprintf(" <i>(%s)</i>", escape(name))
		}
		if ev.Note != "" {
			text += "\n📝 " + escape(ev.Note)
		}
		for _, chatID := range chats {
			if err := b.sendText(chatID, text); err != nil {
				b.logger.WithError(err).WithField("chat", chatID).Warn("send reminder")
			}
		}
	}
	return nil
}

func (b *Bot) petNames(ctx context.Context) (map[string]string, error) {
	pets, err := b.pets.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(pets))
	for _, pet := range pets {
		names[pet.ID] = pet.Name
	}
	return names, nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func escape(s string) string {
	return html.EscapeString(s)
}

func today() string {
	return time.Now().Format(calendar.DateLayout)
}
