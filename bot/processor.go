package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/rs/xid"

	"github.com/ligarx-org/audiov1/access"
	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/utils"
)

var log = logger.New("bot")

// Processor funnels every update through the admission pipeline before a
// matched handler runs.
type Processor struct {
	controller  *access.Controller
	admins      *access.AdminRegistry
	userService model.UserService
	plugins     []plugin.Plugin
}

func NewProcessor(controller *access.Controller, admins *access.AdminRegistry, userService model.UserService) *Processor {
	return &Processor{
		controller:  controller,
		admins:      admins,
		userService: userService,
	}
}

func (p *Processor) SetPlugins(plugins []plugin.Plugin) {
	p.plugins = plugins
}

func (p *Processor) ProcessUpdate(d *ext.Dispatcher, b *gotgbot.Bot, ctx *ext.Context) error {
	if ctx.Message != nil || ctx.EditedMessage != nil {
		return p.onMessage(b, ctx)
	}

	if ctx.CallbackQuery != nil {
		return p.onCallback(b, ctx)
	}

	return nil
}

func (p *Processor) onMessage(b *gotgbot.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	user := ctx.EffectiveUser
	if user == nil || user.IsBot {
		return nil
	}

	isEdited := msg.EditDate != 0

	if !isEdited {
		if err := p.userService.Upsert(user); err != nil {
			return err
		}
	}

	text := utils.AnyText(msg)

	for _, plg := range p.plugins {
		plg := plg
		for _, h := range plg.Handlers(&b.User) {
			h := h

			handler, ok := h.(*plugin.CommandHandler)
			if !ok {
				continue
			}

			if isEdited && !handler.HandleEdits {
				continue
			}

			command, ok := handler.Command().(*regexp.Regexp)
			if !ok {
				panic("Unsupported command handler type!! Must be regexp.Regexp!")
			}

			matches := command.FindStringSubmatch(text)
			if len(matches) == 0 {
				continue
			}

			log.Debug().Msgf("Matched plugin '%s': %s", plg.Name(), handler.Trigger)

			if handler.MegaAdminOnly && !p.admins.IsMegaAdmin(user.Id) {
				log.Debug().Int64("user_id", user.Id).Msg("User is not the mega admin")
				continue
			}

			if handler.AdminOnly && !p.admins.IsAdmin(user.Id) {
				log.Debug().Int64("user_id", user.Id).Msg("User is not an admin")
				continue
			}

			if !handler.SkipGate {
				decision := p.controller.Authorize(context.Background(), user.Id, activityType(plg, handler.ActivityType), text)
				if !decision.Allowed() {
					return p.replyDenied(b, msg, decision)
				}
			}

			namedMatches := make(map[string]string)
			for i, name := range matches {
				namedMatches[command.SubexpNames()[i]] = name
			}

			go p.runHandler(b, ctx, plg.Name(), handler, plugin.Context{
				Context:      ctx,
				Matches:      matches,
				NamedMatches: namedMatches,
			})
		}
	}

	return nil
}

func (p *Processor) onCallback(b *gotgbot.Bot, ctx *ext.Context) error {
	callback := ctx.CallbackQuery

	if callback.Data == "" {
		_, err := callback.Answer(b, nil)
		return err
	}

	for _, plg := range p.plugins {
		plg := plg
		for _, h := range plg.Handlers(&b.User) {
			h := h

			handler, ok := h.(*plugin.CallbackHandler)
			if !ok {
				continue
			}

			matches := handler.Trigger.FindStringSubmatch(callback.Data)
			if len(matches) == 0 {
				continue
			}

			log.Debug().Msgf("Matched plugin '%s': %s", plg.Name(), handler.Trigger)

			if handler.AdminOnly && !p.admins.IsAdmin(callback.From.Id) {
				_, err := callback.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
					Text:      "Siz bot administratori emassiz.",
					ShowAlert: true,
				})
				return err
			}

			if !handler.SkipGate {
				decision := p.controller.Authorize(context.Background(), callback.From.Id, activityType(plg, handler.ActivityType), callback.Data)
				if !decision.Allowed() {
					_, err := callback.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
						Text:      denialText(decision),
						ShowAlert: true,
					})
					return err
				}
			}

			if handler.DeleteButton && ctx.EffectiveMessage != nil {
				go func() {
					_, _, err := ctx.EffectiveMessage.EditReplyMarkup(b, nil)
					if err != nil {
						log.Err(err).
							Int64("chat_id", ctx.EffectiveChat.Id).
							Msg("Error removing inline keyboard")
					}
				}()
			}

			namedMatches := make(map[string]string)
			for i, name := range matches {
				namedMatches[handler.Trigger.SubexpNames()[i]] = name
			}

			go p.runHandler(b, ctx, plg.Name(), handler, plugin.Context{
				Context:      ctx,
				Matches:      matches,
				NamedMatches: namedMatches,
			})
		}
	}

	return nil
}

func (p *Processor) runHandler(b *gotgbot.Bot, ctx *ext.Context, pluginName string, handler plugin.Handler, c plugin.Context) {
	defer func() {
		if r := recover(); r != nil {
			guid := xid.New().String()
			log.Err(errors.New("panic")).
				Str("guid", guid).
				Int64("chat_id", ctx.EffectiveChat.Id).
				Int64("user_id", ctx.EffectiveUser.Id).
				Str("component", pluginName).
				Msgf("%s", r)
			if ctx.EffectiveMessage != nil {
				_, _ = ctx.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Xatolik yuz berdi.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions)
			}
		}
	}()

	err := handler.Run(b, c)
	if err != nil {
		guid := xid.New().String()
		log.Err(err).
			Str("guid", guid).
			Int64("chat_id", ctx.EffectiveChat.Id).
			Int64("user_id", ctx.EffectiveUser.Id).
			Str("component", pluginName).
			Send()
		if ctx.EffectiveMessage != nil {
			_, _ = ctx.EffectiveMessage.Reply(b, fmt.Sprintf("❌ Xatolik yuz berdi.%s", utils.EmbedGUID(guid)), utils.DefaultSendOptions)
		}
	}
}

func activityType(plg plugin.Plugin, override string) string {
	if override != "" {
		return override
	}
	return plg.Name()
}
