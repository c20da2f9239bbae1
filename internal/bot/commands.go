package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	settingsdomain "group_guard_bot/internal/pkg/settings/domain"
)

// handleCommand returns true when a handler claimed the message. Unknown
// commands and commands refused by the privilege gate report false so group
// messages with a command prefix still run through the moderation pipeline —
// "/x buy this scam" is not a free pass.
func (b *Bot) handleCommand(msg *tgbotapi.Message) bool {
	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "setgrup":
		return b.handleSetGroup(msg)
	case "setlog":
		return b.handleSetLog(msg)
	case "addfilter":
		return b.handleAddFilter(msg)
	case "delfilter":
		return b.handleDelFilter(msg)
	case "filters":
		return b.handleListFilters(msg)
	case "settings":
		return b.handleShowSettings(msg)
	case "unwarn":
		return b.handleUnwarn(msg)
	default:
		// The group should not see bot chatter for every typo.
		if msg.Chat.IsPrivate() {
			b.reply(msg.Chat.ID, "Unknown command 🤔")
			return true
		}
		return false
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) bool {
	if !msg.Chat.IsPrivate() {
		return false
	}
	if msg.From == nil || msg.From.ID != b.adminID {
		b.reply(msg.Chat.ID, "This bot guards a group. Nothing to see here.")
		return true
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Welcome text", callbackSetWelcome),
			tgbotapi.NewInlineKeyboardButtonData("🔘 Welcome button", callbackSetButton),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Add filter word", callbackAddFilter),
			tgbotapi.NewInlineKeyboardButtonData("📣 Broadcast", callbackBroadcast),
		),
	)

	reply := tgbotapi.NewMessage(msg.Chat.ID, "Admin panel. Pick a setting to change:")
	reply.ReplyMarkup = keyboard
	if _, err := b.Api.Send(reply); err != nil {
		log.Printf("Error sending admin menu: %v", err)
	}
	return true
}

// handleSetGroup binds the current group as the moderation target.
func (b *Bot) handleSetGroup(msg *tgbotapi.Message) bool {
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		b.reply(msg.Chat.ID, "❌ This command works only in groups.")
		return true
	}
	if !b.isGroupAdmin(msg) {
		b.reply(msg.Chat.ID, "❌ Only a group administrator can configure the bot.")
		return false
	}

	if err := b.store.SetSetting(settingsdomain.KeyGroupID, chatIDString(msg.Chat.ID)); err != nil {
		log.Printf("Error saving group id: %v", err)
		b.reply(msg.Chat.ID, "❌ Failed to save settings.")
		return true
	}
	b.refreshSettings(msg.Chat.ID)
	b.reply(msg.Chat.ID, "✅ This group is now the moderation target.")
	return true
}

// handleSetLog binds the log destination for the current group. With no
// argument the group logs to itself.
func (b *Bot) handleSetLog(msg *tgbotapi.Message) bool {
	if !msg.Chat.IsGroup() && !msg.Chat.IsSuperGroup() {
		b.reply(msg.Chat.ID, "❌ This command works only in groups.")
		return true
	}
	if !b.isGroupAdmin(msg) {
		b.reply(msg.Chat.ID, "❌ Only a group administrator can configure the bot.")
		return false
	}

	logChat := chatIDString(msg.Chat.ID)
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		if _, err := strconv.ParseInt(arg, 10, 64); err != nil {
			b.reply(msg.Chat.ID, "❌ Usage: /setlog CHAT_ID")
			return true
		}
		logChat = arg
	}

	if err := b.store.SetGroupLog(chatIDString(msg.Chat.ID), logChat); err != nil {
		log.Printf("Error saving log mapping: %v", err)
		b.reply(msg.Chat.ID, "❌ Failed to save settings.")
		return true
	}
	b.refreshSettings(msg.Chat.ID)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Moderation log for this group goes to %s.", logChat))
	return true
}

func (b *Bot) handleAddFilter(msg *tgbotapi.Message) bool {
	if !b.isPrivilegedSender(msg) {
		return false
	}
	word := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	if word == "" {
		b.reply(msg.Chat.ID, "Usage: /addfilter WORD")
		return true
	}
	if err := b.store.AddFilter(word); err != nil {
		log.Printf("Error adding filter word: %v", err)
		b.reply(msg.Chat.ID, "❌ Failed to save the word.")
		return true
	}
	b.refreshSettings(msg.Chat.ID)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Added %q to the filter list.", word))
	return true
}

func (b *Bot) handleDelFilter(msg *tgbotapi.Message) bool {
	if !b.isPrivilegedSender(msg) {
		return false
	}
	word := strings.ToLower(strings.TrimSpace(msg.CommandArguments()))
	if word == "" {
		b.reply(msg.Chat.ID, "Usage: /delfilter WORD")
		return true
	}
	if err := b.store.RemoveFilter(word); err != nil {
		log.Printf("Error removing filter word: %v", err)
		b.reply(msg.Chat.ID, "❌ Failed to remove the word.")
		return true
	}
	b.refreshSettings(msg.Chat.ID)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Removed %q from the filter list.", word))
	return true
}

func (b *Bot) handleListFilters(msg *tgbotapi.Message) bool {
	if !b.isPrivilegedSender(msg) {
		return false
	}
	snapshot := b.settings.Get()
	if snapshot == nil || snapshot.Filters.Len() == 0 {
		b.reply(msg.Chat.ID, "The filter list is empty.")
		return true
	}
	b.reply(msg.Chat.ID, "🚫 Filtered words:\n"+strings.Join(snapshot.Filters.Words(), ", "))
	return true
}

func (b *Bot) handleShowSettings(msg *tgbotapi.Message) bool {
	if !b.isPrivilegedSender(msg) {
		return false
	}
	snapshot := b.settings.Get()
	if snapshot == nil {
		b.reply(msg.Chat.ID, "Settings are not loaded yet.")
		return true
	}

	button := "none"
	if btn := snapshot.Config.Button(); btn != nil {
		button = fmt.Sprintf("[%s](%s)", btn.Label, btn.URL)
	}
	text := fmt.Sprintf(`📋 Current settings

Target group: %s
Welcome text: %s
Welcome button: %s
Filter words: %d
Log mappings: %d`,
		snapshot.Config.TargetGroupID,
		snapshot.Config.WelcomeText,
		button,
		snapshot.Filters.Len(),
		len(snapshot.GroupLogs))
	b.reply(msg.Chat.ID, text)
	return true
}

// handleUnwarn clears a user's violations, either by replying to one of
// their messages or by passing a user id.
func (b *Bot) handleUnwarn(msg *tgbotapi.Message) bool {
	if !b.isPrivilegedSender(msg) {
		return false
	}

	var userID int64
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		userID = msg.ReplyToMessage.From.ID
	} else if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			b.reply(msg.Chat.ID, "❌ Usage: /unwarn USER_ID (or reply to the user)")
			return true
		}
		userID = id
	} else {
		b.reply(msg.Chat.ID, "❌ Usage: /unwarn USER_ID (or reply to the user)")
		return true
	}

	b.pipeline.Violations().Clear(userID)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Violations cleared for %d.", userID))
	return true
}

// refreshSettings reloads the cache right after a write, so the next event
// already sees the new configuration.
func (b *Bot) refreshSettings(chatID int64) {
	if err := b.settings.Refresh(); err != nil {
		log.Printf("Error refreshing settings cache: %v", err)
		b.reply(chatID, "⚠️ Saved, but the settings cache failed to reload.")
	}
}

// isGroupAdmin checks the sender against the group's administrator list,
// letting the bot owner through without the lookup.
func (b *Bot) isGroupAdmin(msg *tgbotapi.Message) bool {
	if msg.From == nil {
		return false
	}
	if msg.From.ID == b.adminID {
		return true
	}

	admins, err := b.platform.GetAdministrators(chatIDString(msg.Chat.ID))
	if err != nil {
		log.Printf("Error getting chat administrators: %v", err)
		return false
	}
	for _, id := range admins {
		if id == msg.From.ID {
			return true
		}
	}
	return false
}

// isPrivilegedSender gates commands usable both in the group and in the
// owner's private chat.
func (b *Bot) isPrivilegedSender(msg *tgbotapi.Message) bool {
	if msg.Chat.IsPrivate() {
		return msg.From != nil && msg.From.ID == b.adminID
	}
	return b.isGroupAdmin(msg)
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.platform.Send(chatIDString(chatID), text, nil); err != nil {
		log.Printf("Error sending reply to %d: %v", chatID, err)
	}
}
