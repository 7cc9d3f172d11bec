package plugin

import (
	"regexp"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
)

type (
	Plugin interface {
		Name() string

		// Commands will be shown in the menu button
		Commands() []gotgbot.BotCommand

		// Handlers are used to react to specific strings & entities in a message
		Handlers(botInfo *gotgbot.User) []Handler
	}

	Handler interface {
		Command() any
		Run(b *gotgbot.Bot, c Context) error
	}

	Context struct {
		*ext.Context
		Matches      []string          // Regex matches
		NamedMatches map[string]string // Named Regex matches
	}

	HandlerFunc func(b *gotgbot.Bot, c Context) error

	CommandHandler struct {
		Trigger     any
		HandlerFunc HandlerFunc
		// ActivityType is the key the admission pipeline rates and logs
		// this command under. Empty means the plugin name.
		ActivityType string
		AdminOnly    bool
		// MegaAdminOnly restricts the command to the configured mega admin.
		MegaAdminOnly bool
		// SkipGate bypasses the admission pipeline entirely. Admin
		// commands set it, as does the subscription re-check button.
		SkipGate    bool
		HandleEdits bool
	}

	CallbackHandler struct {
		HandlerFunc  HandlerFunc
		Trigger      *regexp.Regexp
		ActivityType string
		AdminOnly    bool
		SkipGate     bool
		DeleteButton bool
	}
)

func (h *CommandHandler) Command() any {
	return h.Trigger
}

func (h *CommandHandler) Run(b *gotgbot.Bot, c Context) error {
	return h.HandlerFunc(b, c)
}

func (h *CallbackHandler) Command() any {
	return h.Trigger
}

func (h *CallbackHandler) Run(b *gotgbot.Bot, c Context) error {
	return h.HandlerFunc(b, c)
}
