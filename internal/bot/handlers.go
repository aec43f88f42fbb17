package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"petpal/internal/metrics"
	"petpal/internal/model"
	"petpal/internal/repository"
	"petpal/internal/service"
)

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Hi %s!\n<b>I'm your pet-care companion.</b> I keep track of your pets, their reminders, moods and photo memories.\n\n"+
			"Start with /addpet to register a pet, then /remind to schedule care.\nFull command list: /help",
		escape(name),
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /addpet — register a pet step by step\n" +
		"• /pets — list your pets\n" +
		"• /weight &lt;pet&gt; &lt;kg&gt; — log a weigh-in\n" +
		"• /vaccine &lt;pet&gt; &lt;name&gt; — record a vaccine\n" +
		"• /note &lt;pet&gt; &lt;text&gt; — add a note\n" +
		"• /remind — schedule a one-off or recurring reminder\n" +
		"• /today — today's events, mood and photo\n" +
		"• /calendar [YYYY-MM] — month overview\n" +
		"• /mood — log how a pet is feeling\n" +
		"• /memories [YYYY-MM] — photo playback for a month\n" +
		"• /export [YYYY-MM] — download the month as an .ics file\n" +
		"• /ask — chat with the vet assistant (send /cancel to stop)\n" +
		"• /digest — preview the daily digest\n" +
		"• /cancel — abort the current dialog\n\n" +
		"📷 Send me a photo to save today's memory.\n📍 Share a location to find vets nearby."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handlePets(ctx context.Context, msg *tgbotapi.Message) error {
	pets, err := b.pets.List(ctx)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load pets: %s", escape(err.Error())))
	}
	if len(pets) == 0 {
		return b.sendText(msg.Chat.ID, "No pets yet. Register one with /addpet.")
	}

	var builder strings.Builder
	builder.WriteString("🐾 <b>Your pets</b>\n")
	for i, pet := range pets {
		builder.WriteString(fmt.Sprintf("\n%s <b>%s</b> (%s", speciesIcon(pet.Species), escape(pet.Name), escape(pet.Species)))
		if pet.Breed != "" {
			builder.WriteString(", " + escape(pet.Breed))
		}
		builder.WriteString(")\n")
		if pet.BirthDate != "" {
			builder.WriteString(fmt.Sprintf("   🎂 %s\n", pet.BirthDate))
		}
		if n := len(pet.Weights); n > 0 {
			last := pet.Weights[n-1]
			builder.WriteString(fmt.Sprintf("   ⚖️ %.1f kg (%s)\n", last.Kg, last.Date))
		}
		if n := len(pet.Vaccines); n > 0 {
			builder.WriteString(fmt.Sprintf("   💉 %d vaccine(s), last: %s\n", n, escape(pet.Vaccines[n-1].Name)))
		}
		if n := len(pet.Notes); n > 0 {
			builder.WriteString(fmt.Sprintf("   📝 %d note(s)\n", n))
		}
		if i == 0 {
			builder.WriteString("   ⭐ primary\n")
		}
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

// petAndRest splits command arguments into a known pet and the remaining
// words.
func (b *Bot) petAndRest(ctx context.Context, args string) (*model.Pet, string, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return nil, "", errors.New("not enough arguments")
	}
	pet, err := b.pets.FindByName(ctx, fields[0])
	if err != nil {
		return nil, "", err
	}
	return pet, strings.Join(fields[1:], " "), nil
}

func (b *Bot) handleWeight(ctx context.Context, msg *tgbotapi.Message) error {
	pet, rest, err := b.petAndRest(ctx, msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /weight &lt;pet&gt; &lt;kg&gt;, e.g. /weight Rex 12.5")
	}

	kg, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil || kg <= 0 {
		return b.sendText(msg.Chat.ID, "The weight must be a positive number of kilograms.")
	}

	pet.Weights = append(pet.Weights, model.WeightEntry{Date: today(), Kg: kg})
	if err := b.pets.Update(ctx, *pet); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save the weigh-in: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("⚖️ Logged %.1f kg for <b>%s</b>.", kg, escape(pet.Name)))
}

func (b *Bot) handleVaccine(ctx context.Context, msg *tgbotapi.Message) error {
	pet, rest, err := b.petAndRest(ctx, msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /vaccine &lt;pet&gt; &lt;vaccine name&gt;, e.g. /vaccine Rex rabies")
	}

	pet.Vaccines = append(pet.Vaccines, model.VaccineRecord{Date: today(), Name: rest})
	if err := b.pets.Update(ctx, *pet); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save the vaccine: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("💉 Recorded <b>%s</b> for <b>%s</b>.", escape(rest), escape(pet.Name)))
}

func (b *Bot) handleNote(ctx context.Context, msg *tgbotapi.Message) error {
	pet, rest, err := b.petAndRest(ctx, msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Usage: /note &lt;pet&gt; &lt;text&gt;")
	}

	pet.Notes = append(pet.Notes, model.PetNote{Date: today(), Text: rest})
	if err := b.pets.Update(ctx, *pet); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save the note: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📝 Note added for <b>%s</b>.", escape(pet.Name)))
}

func (b *Bot) handleToday(ctx context.Context, msg *tgbotapi.Message) error {
	return b.sendDayView(ctx, msg.Chat.ID, today())
}

func (b *Bot) sendDayView(ctx context.Context, chatID int64, date string) error {
	cell, err := b.calendarSvc.Day(ctx, date)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load the day: %s", escape(err.Error())))
	}

	names, err := b.petNames(ctx)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not load pets: %s", escape(err.Error())))
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 <b>%s</b>\n", date))
	if cell.Mood != "" {
		builder.WriteString(fmt.Sprintf("%s mood logged\n", service.MoodIcon(cell.Mood)))
	}
	if cell.Photo != nil {
		builder.WriteString("📷 photo memory saved\n")
	}
	builder.WriteByte('\n')

	if !cell.HasEvent {
		builder.WriteString("Nothing scheduled. Add something with /remind.")
		return b.sendText(chatID, builder.String())
	}

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, ev := range cell.Events {
		check := ""
		if ev.Completed {
			check = " ✅"
		}
		builder.WriteString(fmt.Sprintf("%s %s <b>%s</b>%s", service.EventIcon(ev.Type), ev.Time, escape(ev.Title), check))
		if name, ok := names[ev.PetID]; ok {
			builder.WriteString(fmt.Sprintf(" <i>(%s)</i>", escape(name)))
		}
		if ev.Note != "" {
			builder.WriteString("\n   📝 " + escape(ev.Note))
		}
		builder.WriteByte('\n')

		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ %s %s", ev.Time, shortTitle(ev.Title, 16)), cbCompletePrefix+ev.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", cbDeletePrefix+ev.ID),
		}
		buttons = append(buttons, row)
	}

	out := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	out.ParseMode = tgbotapi.ModeHTML
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(out)
	return err
}

func (b *Bot) handleCalendar(ctx context.Context, msg *tgbotapi.Message) error {
	year, month, err := parseMonthArg(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use /calendar YYYY-MM, e.g. /calendar 2025-09")
	}

	cells, err := b.calendarSvc.Month(ctx, year, month)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the calendar: %s", escape(err.Error())))
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📅 <b>%s %d</b>\n", month, year))

	busy := 0
	for _, cell := range cells {
		if !cell.HasEvent && cell.Mood == "" && cell.Photo == nil {
			continue
		}
		busy++
		day := cell.Date[len(cell.Date)-2:]
		builder.WriteString("\n<b>" + day + "</b> —")
		if cell.HasEvent {
			builder.WriteString(fmt.Sprintf(" %d event(s)", len(cell.Events)))
		}
		if cell.Mood != "" {
			builder.WriteString(" " + service.MoodIcon(cell.Mood))
		}
		if cell.Photo != nil {
			builder.WriteString(" 📷")
		}
	}

	if busy == 0 {
		builder.WriteString("\nAn empty month so far. Schedule care with /remind.")
	}
	return b.sendText(msg.Chat.ID, builder.String())
}

func (b *Bot) handleMemories(ctx context.Context, msg *tgbotapi.Message) error {
	year, month, err := parseMonthArg(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use /memories YYYY-MM, e.g. /memories 2025-08")
	}

	photos, err := b.calendarSvc.Memories(ctx, year, month)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not load memories: %s", escape(err.Error())))
	}
	if len(photos) == 0 {
		return b.sendText(msg.Chat.ID, "No photo memories for that month yet. Send me a photo to start one!")
	}

	if len(photos) == 1 {
		photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileID(photos[0].FileID))
		photo.Caption = photos[0].Date
		_, err := b.api.Send(photo)
		return err
	}

	// Telegram caps a media group at ten items.
	if len(photos) > 10 {
		photos = photos[:10]
	}
	media := make([]interface{}, 0, len(photos))
	for _, p := range photos {
		item := tgbotapi.NewInputMediaPhoto(tgbotapi.FileID(p.FileID))
		item.Caption = p.Date
		media = append(media, item)
	}
	_, err = b.api.SendMediaGroup(tgbotapi.NewMediaGroup(msg.Chat.ID, media))
	return err
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	year, month, err := parseMonthArg(msg.CommandArguments())
	if err != nil {
		return b.sendText(msg.Chat.ID, "Use /export YYYY-MM, e.g. /export 2025-09")
	}

	ics, count, err := b.exportSvc.MonthICS(ctx, year, month)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not export the month: %s", escape(err.Error())))
	}
	if count == 0 {
		return b.sendText(msg.Chat.ID, "Nothing to export for that month.")
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("petpal-%04d-%02d.ics", year, int(month)),
		Bytes: []byte(ics),
	})
	doc.Caption = fmt.Sprintf("%d event(s)", count)
	_, err = b.api.Send(doc)
	return err
}

func (b *Bot) handleDigest(ctx context.Context, msg *tgbotapi.Message) error {
	text, err := b.digestSvc.Daily(ctx, time.Now())
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not build the digest: %s", escape(err.Error())))
	}
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) error {
	largest := msg.Photo[len(msg.Photo)-1]
	memory := model.PhotoMemory{
		Date:    today(),
		FileID:  largest.FileID,
		Caption: strings.TrimSpace(msg.Caption),
	}
	if err := b.photos.Put(ctx, memory); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not save the photo: %s", escape(err.Error())))
	}

	metrics.PhotosSaved.Inc()
	b.logger.WithField("date", memory.Date).Info("photo memory saved")
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📷 Saved as the memory for %s. Browse with /memories.", memory.Date))
}

func (b *Bot) handleLocation(ctx context.Context, msg *tgbotapi.Message) error {
	loc := msg.Location
	vets, err := b.vetFinder.NearbyVets(ctx, loc.Latitude, loc.Longitude, 5)
	if err != nil {
		b.logger.WithError(err).Error("vet search failed")
		return b.sendText(msg.Chat.ID, "The vet search is unavailable right now, please try again later.")
	}
	if len(vets) == 0 {
		return b.sendText(msg.Chat.ID, "No veterinary clinics found near that location.")
	}

	var builder strings.Builder
	builder.WriteString("🏥 <b>Vets near you</b>\n")
	for i, vet := range vets {
		builder.WriteString(fmt.Sprintf("\n%d. %s\n   📍 %.1f km away", i+1, escape(vet.Name), vet.DistanceKm))
	}
	return b.sendText(msg.Chat.ID, builder.String())
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.WithError(err).Warn("callback ack")
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID

	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		id := strings.TrimPrefix(data, cbCompletePrefix)
		if err := b.reminderSvc.Complete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return b.sendText(chatID, "That reminder no longer exists.")
			}
			return err
		}
		return b.sendDayView(ctx, chatID, today())
	case strings.HasPrefix(data, cbDeletePrefix):
		id := strings.TrimPrefix(data, cbDeletePrefix)
		if err := b.reminderSvc.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return b.sendText(chatID, "That reminder no longer exists.")
			}
			return err
		}
		return b.sendDayView(ctx, chatID, today())
	default:
		return nil
	}
}

func parseMonthArg(args string) (int, time.Month, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	parsed, err := time.Parse("2006-01", args)
	if err != nil {
		return 0, 0, err
	}
	return parsed.Year(), parsed.Month(), nil
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func speciesIcon(species string) string {
	switch strings.ToLower(strings.TrimSpace(species)) {
	case "dog":
		return "🐶"
	case "cat":
		return "🐱"
	case "bird":
		return "🐦"
	case "rabbit":
		return "🐰"
	case "fish":
		return "🐠"
	default:
		return "🐾"
	}
}
