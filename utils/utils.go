package utils

import (
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

var DefaultSendOptions = &gotgbot.SendMessageOpts{
	ReplyParameters: &gotgbot.ReplyParameters{
		AllowSendingWithoutReply: true,
	},
	LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
		IsDisabled: true,
	},
	DisableNotification: true,
	ParseMode:           gotgbot.ParseModeHTML,
}

type VersionInfo struct {
	GoVersion  string
	Revision   string
	LastCommit time.Time
	DirtyBuild bool
}

func ReadVersionInfo() (VersionInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()

	if !ok {
		return VersionInfo{}, errors.New("could not read build info")
	}

	versionInfo := VersionInfo{
		GoVersion: buildInfo.GoVersion,
	}

	for _, kv := range buildInfo.Settings {
		switch kv.Key {
		case "vcs.revision":
			versionInfo.Revision = kv.Value
		case "vcs.time":
			versionInfo.LastCommit, _ = time.Parse(time.RFC3339, kv.Value)
		case "vcs.modified":
			versionInfo.DirtyBuild = kv.Value == "true"
		}
	}

	return versionInfo, nil
}

func EmbedGUID(guid string) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("(<code>")
	sb.WriteString(guid)
	sb.WriteString("</code>)")
	return sb.String()
}

// Do not escape ampersands, because they are not parsed by Telegram
var htmlTelegramEscaper = strings.NewReplacer(
	`'`, "&#39;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&#34;",
)

func Escape(s string) string {
	return htmlTelegramEscaper.Replace(s)
}

func AnyText(message *gotgbot.Message) string {
	text := message.Text
	if message.Text == "" {
		text = message.Caption
	}
	return text
}

func IsPrivate(message *gotgbot.Message) bool {
	return message.Chat.Type == gotgbot.ChatTypePrivate
}
