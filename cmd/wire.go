package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/repositories"
	"github.com/desertthunder/prima/internal/services"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
)

// wire opens the store and builds every service the commands use.
//
// The returned func closes the database.
func wire(ctx context.Context, config *shared.Config, logger *log.Logger, output io.Writer) (RunnerOpts, func() error, error) {
	db, err := shared.OpenStore(config.Database)
	if err != nil {
		return RunnerOpts{}, nil, fmt.Errorf("failed to open store: %w", err)
	}

	store := repositories.NewStore(db, logger)

	var summarizer studio.Summarizer
	if gemini, err := services.NewGeminiSummarizer(ctx, config.Feedback.APIKey, config.Feedback.Model); err != nil {
		logger.Warn("feedback service unavailable", "error", err)
	} else {
		summarizer = gemini
	}

	manager := studio.NewManager(studio.ManagerOpts{
		Store:      repositories.NewShiftRepository(store),
		Summarizer: summarizer,
		Rates:      models.NewRates(config.Studio.DefaultRate, config.Studio.Rates),
		Timeout:    config.Feedback.Timeout(),
		Logger:     logger,
	})

	planner := studio.NewPlanner(studio.PlannerOpts{
		Tasks:     repositories.NewTaskRepository(store),
		Schedules: repositories.NewScheduleRepository(store),
		Guides:    repositories.NewGuideRepository(store),
		Profile:   repositories.NewProfileRepository(store),
	})

	opts := RunnerOpts{
		Config:   config,
		Manager:  manager,
		Planner:  planner,
		Identity: newIdentity(config.Telegram),
		Sharer:   newSharer(config.Telegram, logger, output),
		Logger:   logger,
		Output:   output,
	}

	if objects, err := services.NewParseStore(config.Parse.ServerURL, config.Parse.AppID, config.Parse.RESTKey, nil); err == nil {
		opts.Objects = objects
	}

	return opts, db.Close, nil
}

// newIdentity verifies configured launch data, falling back to the placeholder operator.
func newIdentity(cfg shared.TelegramConfig) studio.IdentityProvider {
	if cfg.InitData == "" {
		return services.PlaceholderIdentity{}
	}
	return &services.TelegramIdentity{
		InitData: cfg.InitData,
		BotToken: cfg.BotToken,
		MaxAge:   cfg.MaxAge(),
	}
}

// newSharer posts through the bot when a chat is configured, otherwise opens a share link.
// Either way a failed share is printed on output.
func newSharer(cfg shared.TelegramConfig, logger *log.Logger, output io.Writer) services.Sharer {
	var primary services.Sharer = services.NewTelegramLinkSharer(cfg.AppURL, nil)
	if bot, err := services.NewTelegramBotSharer(services.BotSharerOpts{
		Token:  cfg.BotToken,
		ChatID: cfg.ChatID,
		AppURL: cfg.AppURL,
	}); err == nil {
		primary = bot
	}

	return &services.FallbackSharer{
		Primary:  primary,
		Fallback: services.NewWriterSharer(output),
		Logger:   logger,
	}
}
