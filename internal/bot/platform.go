package bot

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	settingsdomain "group_guard_bot/internal/pkg/settings/domain"
)

// TelegramPlatform adapts the Bot API to the chat-platform interface the
// moderation and welcome packages consume. Chat ids cross the boundary as
// strings, matching how they are stored in settings.
type TelegramPlatform struct {
	api *tgbotapi.BotAPI
}

func NewTelegramPlatform(api *tgbotapi.BotAPI) *TelegramPlatform {
	return &TelegramPlatform{api: api}
}

func parseChatID(chatID string) (int64, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad chat id %q: %w", chatID, err)
	}
	return id, nil
}

func (p *TelegramPlatform) Send(chatID string, text string, button *settingsdomain.WelcomeButton) (int, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return 0, err
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if button != nil {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(button.Label, button.URL),
			),
		)
	}

	sent, err := p.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (p *TelegramPlatform) Delete(chatID string, messageID int) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	_, err = p.api.Request(tgbotapi.NewDeleteMessage(id, messageID))
	return err
}

func (p *TelegramPlatform) Restrict(chatID string, userID int64, until time.Time) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}
	_, err = p.api.Request(tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: id,
			UserID: userID,
		},
		UntilDate: until.Unix(),
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages: false,
		},
	})
	return err
}

func (p *TelegramPlatform) GetAdministrators(chatID string) ([]int64, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return nil, err
	}
	members, err := p.api.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: id},
	})
	if err != nil {
		return nil, err
	}
	admins := make([]int64, 0, len(members))
	for _, m := range members {
		if m.User != nil {
			admins = append(admins, m.User.ID)
		}
	}
	return admins, nil
}
