package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"petpal/internal/ai"
	"petpal/internal/bot"
	"petpal/internal/config"
	"petpal/internal/places"
	"petpal/internal/repository"
	"petpal/internal/service"
	"petpal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatalf("config: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	kv := repository.NewKV(db)
	pets := repository.NewPetStore(kv)
	reminders := repository.NewReminderStore(kv)
	moods := repository.NewMoodStore(kv)
	photos := repository.NewPhotoStore(kv)
	chats := repository.NewChatStore(kv)

	reminderSvc := service.NewReminderService(reminders, pets, log)
	calendarSvc := service.NewCalendarService(reminders, pets, moods, photos)
	moodSvc := service.NewMoodService(moods, log)
	digestSvc := service.NewDigestService(calendarSvc, pets)
	exportSvc := service.NewExportService(reminders)

	assistant := ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, log)
	vetFinder := places.NewClient(cfg.PlacesBaseURL, cfg.PlacesAPIKey, log)

	telegramBot, err := bot.New(cfg.TelegramToken, bot.Deps{
		Pets:      pets,
		Photos:    photos,
		Chats:     chats,
		Reminders: reminderSvc,
		Calendar:  calendarSvc,
		Moods:     moodSvc,
		Digest:    digestSvc,
		Export:    exportSvc,
		Assistant: assistant,
		VetFinder: vetFinder,
		Logger:    log,
	})
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	scheduler := service.NewSchedulerService(time.Local, log)
	if _, err := scheduler.ScheduleDaily("daily-digest", cfg.DigestTime, telegramBot.SendDailyDigests); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if _, err := scheduler.ScheduleInterval("due-reminders", cfg.CheckInterval, telegramBot.NotifyDue); err != nil {
		log.Fatalf("schedule reminder checks: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := ":" + cfg.MetricsPort
		log.WithField("addr", addr).Info("metrics server listening")
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server")
		}
	}()

	log.Info("pet companion bot started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Info("shutdown complete")
}
