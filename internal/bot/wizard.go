package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"petpal/internal/calendar"
	"petpal/internal/model"
	"petpal/internal/service"
)

const skipLabel = "⏭ Skip"

func isCancelInput(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "cancel", "❌ cancel", "⏪ back":
		return true
	}
	return false
}

func isSkipInput(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return t == "skip" || t == strings.ToLower(skipLabel)
}

func (b *Bot) startAddPetConversation(msg *tgbotapi.Message) error {
	b.setConversation(msg.From.ID, &conversationState{stage: stagePetName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🐾 Let's register a pet!\nWhat's their <b>name</b>?", cancelKeyboard())
}

func (b *Bot) startRemindConversation(ctx context.Context, msg *tgbotapi.Message) error {
	pets, err := b.pets.List(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load pets: %s", escape(err.Error())))
	}
	if len(pets) == 0 {
		return b.sendText(msg.Chat.ID, "Register a pet first with /addpet, then I can schedule reminders for them.")
	}

	b.setConversation(msg.From.ID, &conversationState{stage: stageRemTitle})
	return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ New reminder.\nWhat should I call it? (e.g. <i>Rabies booster</i>)", cancelKeyboard())
}

func (b *Bot) startMoodConversation(ctx context.Context, msg *tgbotapi.Message) error {
	pets, err := b.pets.List(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load pets: %s", escape(err.Error())))
	}
	if len(pets) == 0 {
		return b.sendText(msg.Chat.ID, "Register a pet first with /addpet.")
	}

	if len(pets) == 1 {
		b.setConversation(msg.From.ID, &conversationState{stage: stageMoodValue, moodPetID: pets[0].ID})
		return b.sendWithReplyMarkup(msg.Chat.ID,
			fmt.Sprintf("😊 How is <b>%s</b> feeling today?", escape(pets[0].Name)), moodKeyboard())
	}

	b.setConversation(msg.From.ID, &conversationState{stage: stageMoodPet})
	return b.sendWithReplyMarkup(msg.Chat.ID, "😊 Whose mood are we logging?", petKeyboard(pets))
}

func (b *Bot) startChatMode(msg *tgbotapi.Message) error {
	b.setConversation(msg.From.ID, &conversationState{stage: stageChat})
	return b.sendWithReplyMarkup(msg.Chat.ID,
		"💬 Ask me anything about your pet's health or behaviour. I'll answer as a vet assistant.\nSend /cancel when you're done.\n\n<i>Not a substitute for a real veterinarian.</i>",
		cancelKeyboard())
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch msg.Text {
	case "➕ Reminder":
		return true, b.startRemindConversation(ctx, msg)
	case "📅 Today":
		return true, b.handleToday(ctx, msg)
	case "🗓 Calendar":
		return true, b.handleCalendar(ctx, msg)
	case "🐾 Pets":
		return true, b.handlePets(ctx, msg)
	case "😊 Mood":
		return true, b.startMoodConversation(ctx, msg)
	case "📷 Memories":
		return true, b.handleMemories(ctx, msg)
	case "💬 Ask vet":
		return true, b.startChatMode(msg)
	case "ℹ️ Help":
		return true, b.handleHelp(msg)
	}
	return false, nil
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return b.sendWithReplyMarkup(msg.Chat.ID, "Please answer with text, or send /cancel.", cancelKeyboard())
	}

	switch state.stage {
	case stagePetName:
		state.pet.Name = text
		state.stage = stagePetSpecies
		return b.sendWithReplyMarkup(msg.Chat.ID, "What <b>species</b> are they?", speciesKeyboard())
	case stagePetSpecies:
		state.pet.Species = strings.ToLower(text)
		state.stage = stagePetBreed
		return b.sendWithReplyMarkup(msg.Chat.ID, "What's the <b>breed</b>?", skipKeyboard())
	case stagePetBreed:
		if !isSkipInput(text) {
			state.pet.Breed = text
		}
		state.stage = stagePetGender
		return b.sendWithReplyMarkup(msg.Chat.ID, "Their <b>gender</b>?", genderKeyboard())
	case stagePetGender:
		if !isSkipInput(text) {
			state.pet.Gender = strings.ToLower(strings.TrimLeft(text, "♂♀ "))
		}
		state.stage = stagePetColor
		return b.sendWithReplyMarkup(msg.Chat.ID, "Their <b>color</b>?", skipKeyboard())
	case stagePetColor:
		if !isSkipInput(text) {
			state.pet.Color = text
		}
		state.stage = stagePetBirth
		return b.sendWithReplyMarkup(msg.Chat.ID, "And their <b>birth date</b>? (YYYY-MM-DD)", skipKeyboard())
	case stagePetBirth:
		if !isSkipInput(text) {
			if _, err := time.Parse(calendar.DateLayout, text); err != nil {
				return b.sendWithReplyMarkup(msg.Chat.ID, "That doesn't look like a date. Use YYYY-MM-DD, e.g. 2021-06-15.", skipKeyboard())
			}
			state.pet.BirthDate = text
		}
		return b.finishAddPet(ctx, msg, state)

	case stageRemTitle:
		state.rem.Title = text
		state.stage = stageRemType
		return b.sendWithReplyMarkup(msg.Chat.ID, "What <b>kind</b> of event is it?", typeKeyboard())
	case stageRemType:
		eventType := model.EventType(normalizeChoice(text))
		if !eventType.Valid() {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of the buttons below.", typeKeyboard())
		}
		state.rem.Type = eventType
		return b.askReminderPet(ctx, msg, state)
	case stageRemPet:
		pet, err := b.pets.FindByName(ctx, normalizeChoice(text))
		if err != nil {
			pets, listErr := b.pets.List(ctx)
			if listErr != nil {
				return listErr
			}
			return b.sendWithReplyMarkup(msg.Chat.ID, "I don't know that pet. Pick one of the buttons.", petKeyboard(pets))
		}
		state.rem.PetID = pet.ID
		state.stage = stageRemDate
		return b.sendWithReplyMarkup(msg.Chat.ID, "When does it <b>start</b>? (YYYY-MM-DD)", todayKeyboard())
	case stageRemDate:
		date := text
		if strings.EqualFold(text, "📅 Today") || strings.EqualFold(text, "today") {
			date = today()
		}
		if _, err := time.Parse(calendar.DateLayout, date); err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Use YYYY-MM-DD, e.g. 2025-09-15.", todayKeyboard())
		}
		state.rem.AnchorDate = date
		state.stage = stageRemTime
		return b.sendWithReplyMarkup(msg.Chat.ID, "At what <b>time</b>? (HH:MM, 24h)", cancelKeyboard())
	case stageRemTime:
		if _, err := time.Parse("15:04", text); err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Use HH:MM in 24-hour form, e.g. 09:30.", cancelKeyboard())
		}
		state.rem.Time = text
		state.stage = stageRemNote
		return b.sendWithReplyMarkup(msg.Chat.ID, "Any <b>note</b> to attach?", skipKeyboard())
	case stageRemNote:
		if !isSkipInput(text) {
			state.rem.Note = text
		}
		state.stage = stageRemFreq
		return b.sendWithReplyMarkup(msg.Chat.ID, "How often should it <b>repeat</b>?", freqKeyboard())
	case stageRemFreq:
		state.rem.Frequency = model.Frequency(normalizeChoice(text))
		return b.finishRemind(ctx, msg, state)

	case stageMoodPet:
		pet, err := b.pets.FindByName(ctx, normalizeChoice(text))
		if err != nil {
			pets, listErr := b.pets.List(ctx)
			if listErr != nil {
				return listErr
			}
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick one of your pets from the buttons.", petKeyboard(pets))
		}
		state.moodPetID = pet.ID
		state.stage = stageMoodValue
		return b.sendWithReplyMarkup(msg.Chat.ID,
			fmt.Sprintf("😊 How is <b>%s</b> feeling today?", escape(pet.Name)), moodKeyboard())
	case stageMoodValue:
		mood := model.Mood(normalizeChoice(text))
		if !mood.Valid() {
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick a mood from the buttons below.", moodKeyboard())
		}
		return b.finishMood(ctx, msg, state, mood)

	case stageChat:
		return b.handleChatQuestion(ctx, msg)
	}

	b.clearConversation(msg.From.ID)
	return b.sendText(msg.Chat.ID, "Something went wrong, let's start over. See /help.")
}

func (b *Bot) finishAddPet(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	state.pet.ID = uuid.NewString()
	if err := b.pets.Add(ctx, state.pet); err != nil {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save the pet: %s", escape(err.Error())))
	}
	b.clearConversation(msg.From.ID)

	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"%s <b>%s</b> is registered! 🎉\nSchedule their care with /remind, or log a mood with /mood.",
		speciesIcon(state.pet.Species), escape(state.pet.Name)))
}

func (b *Bot) askReminderPet(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	pets, err := b.pets.List(ctx)
	if err != nil {
		return err
	}
	if len(pets) == 1 {
		state.rem.PetID = pets[0].ID
		state.stage = stageRemDate
		return b.sendWithReplyMarkup(msg.Chat.ID,
			fmt.Sprintf("For <b>%s</b>. When does it <b>start</b>? (YYYY-MM-DD)", escape(pets[0].Name)),
			todayKeyboard())
	}
	state.stage = stageRemPet
	return b.sendWithReplyMarkup(msg.Chat.ID, "Which <b>pet</b> is this for?", petKeyboard(pets))
}

func (b *Bot) finishRemind(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	events, err := b.reminderSvc.Schedule(ctx, state.rem)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrInvalidFrequency):
			return b.sendWithReplyMarkup(msg.Chat.ID, "Pick a repeat option from the buttons.", freqKeyboard())
		case errors.Is(err, calendar.ErrMissingFields):
			b.clearConversation(msg.From.ID)
			return b.sendText(msg.Chat.ID, "The reminder was missing required details, let's start over with /remind.")
		default:
			b.clearConversation(msg.From.ID)
			return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not schedule the reminder: %s", escape(err.Error())))
		}
	}
	b.clearConversation(msg.From.ID)

	first := events[0]
	text := fmt.Sprintf("✅ Scheduled <b>%s</b> %s\nFirst on %s at %s", escape(first.Title), service.EventIcon(first.Type), first.Date, first.Time)
	if len(events) > 1 {
		text += fmt.Sprintf("\n🔁 %d occurrences planned, last on %s.", len(events), events[len(events)-1].Date)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) finishMood(ctx context.Context, msg *tgbotapi.Message, state *conversationState, mood model.Mood) error {
	streak, err := b.moodSvc.Log(ctx, today(), state.moodPetID, mood)
	b.clearConversation(msg.From.ID)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not log the mood: %s", escape(err.Error())))
	}

	text := fmt.Sprintf("%s Mood logged!", service.MoodIcon(mood))
	if streak.Count > 1 {
		text += fmt.Sprintf("\n🔥 %d-day logging streak, keep it up!", streak.Count)
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleChatQuestion(ctx context.Context, msg *tgbotapi.Message) error {
	typing := tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(typing); err != nil {
		b.logger.WithError(err).Debug("send chat action")
	}

	advice, err := b.assistant.Ask(ctx, msg.Text)
	if err != nil {
		b.logger.WithError(err).Error("assistant request failed")
		return b.sendWithReplyMarkup(msg.Chat.ID, "The assistant is unavailable right now, please try again in a moment.", cancelKeyboard())
	}

	text := escape(advice.Answer)
	if advice.SeeVet {
		text += "\n\n⚠️ <b>This sounds like something a vet should look at in person.</b>\nShare your location with me and I'll find clinics nearby."
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, text, cancelKeyboard())
}

// normalizeChoice strips a leading emoji from a keyboard button label.
func normalizeChoice(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) > 1 && len(fields[0]) > 0 && fields[0][0] > 127 {
		fields = fields[1:]
	}
	return strings.ToLower(strings.Join(fields, " "))
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("➕ Reminder"),
			tgbotapi.NewKeyboardButton("📅 Today"),
			tgbotapi.NewKeyboardButton("🗓 Calendar"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("🐾 Pets"),
			tgbotapi.NewKeyboardButton("😊 Mood"),
			tgbotapi.NewKeyboardButton("📷 Memories"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("💬 Ask vet"),
			tgbotapi.NewKeyboardButton("ℹ️ Help"),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

func speciesKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("dog"),
			tgbotapi.NewKeyboardButton("cat"),
			tgbotapi.NewKeyboardButton("bird"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("rabbit"),
			tgbotapi.NewKeyboardButton("fish"),
			tgbotapi.NewKeyboardButton("other"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func genderKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("♂ male"),
			tgbotapi.NewKeyboardButton("♀ female"),
			tgbotapi.NewKeyboardButton(skipLabel),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func typeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("💉 vaccine"),
			tgbotapi.NewKeyboardButton("🏥 vet"),
			tgbotapi.NewKeyboardButton("💊 medication"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("✂️ grooming"),
			tgbotapi.NewKeyboardButton("🎾 play"),
			tgbotapi.NewKeyboardButton("📌 other"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func petKeyboard(pets []model.Pet) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(pets))
	for _, pet := range pets {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(fmt.Sprintf("%s %s", speciesIcon(pet.Species), pet.Name)),
		))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func freqKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("once"),
			tgbotapi.NewKeyboardButton("daily"),
			tgbotapi.NewKeyboardButton("weekly"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("monthly"),
			tgbotapi.NewKeyboardButton("quarterly"),
			tgbotapi.NewKeyboardButton("yearly"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func moodKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("😊 happy"),
			tgbotapi.NewKeyboardButton("⚡ energetic"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("😴 sleepy"),
			tgbotapi.NewKeyboardButton("🤒 sick"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func todayKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("📅 Today"),
			tgbotapi.NewKeyboardButton("❌ Cancel"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(skipLabel),
			tgbotapi.NewKeyboardButton("❌ Cancel"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("❌ Cancel"),
		),
	)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = true
	return keyboard
}
