package main

import (
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	_ "github.com/joho/godotenv/autoload"

	"github.com/ligarx-org/audiov1/access"
	"github.com/ligarx-org/audiov1/bot"
	"github.com/ligarx-org/audiov1/config"
	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model/sql"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/plugin/admin"
	"github.com/ligarx-org/audiov1/plugin/broadcast"
	"github.com/ligarx-org/audiov1/plugin/language"
	settingsplugin "github.com/ligarx-org/audiov1/plugin/settings"
	"github.com/ligarx-org/audiov1/plugin/start"
	"github.com/ligarx-org/audiov1/plugin/stats"
	"github.com/ligarx-org/audiov1/telegram"
	"github.com/ligarx-org/audiov1/utils"
)

var log = logger.New("main")

func main() {
	versionInfo, err := utils.ReadVersionInfo()
	if err == nil {
		log.Info().Msgf("audiov1-%s, %v", versionInfo.Revision, versionInfo.LastCommit)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	db, err := sql.New(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	log.Info().Msg("Database connection established")

	userService := sql.NewUserService(db)
	adminService := sql.NewAdminService(db)
	activityService := sql.NewActivityService(db)
	channelService := sql.NewChannelService(db)
	subscriptionService := sql.NewSubscriptionService(db)
	settingService := sql.NewSettingService(db)

	b, err := gotgbot.NewBot(cfg.BotToken, nil)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	log.Info().Msgf("Logged in as @%s (%d)", b.User.Username, b.User.Id)

	settings := access.NewSettings(settingService, cfg)
	gate := access.NewChannelGate(channelService, subscriptionService, telegram.NewMemberChecker(b), settings)
	limiter := access.NewRateLimiter(activityService, settings)
	controller := access.NewController(userService, gate, limiter)

	registry, err := access.NewAdminRegistry(adminService, cfg.MegaAdminID)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	processor := bot.NewProcessor(controller, registry, userService)

	plugins := []plugin.Plugin{
		start.New(gate),
		language.New(userService),
		admin.New(registry, userService, channelService),
		stats.New(userService, activityService),
		broadcast.New(userService),
		settingsplugin.New(settingService),
	}

	for i, plg := range plugins {
		log.Info().Msgf("Registering plugin (%d/%d): %s", i+1, len(plugins), plg.Name())
	}
	processor.SetPlugins(plugins)

	var commands []gotgbot.BotCommand
	for _, plg := range plugins {
		commands = append(commands, plg.Commands()...)
	}
	if _, err := b.SetMyCommands(commands, nil); err != nil {
		log.Err(err).Msg("Failed to set bot commands")
	}

	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Processor: processor,
		Error: func(b *gotgbot.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			log.Err(err).Msg("Error while handling update")
			return ext.DispatcherActionNoop
		},
	})
	updater := ext.NewUpdater(dispatcher, nil)

	err = updater.StartPolling(b, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 10 * time.Second,
			},
			AllowedUpdates: []string{"message", "edited_message", "callback_query"},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	log.Info().Msg("Polling for updates")
	updater.Idle()
}
