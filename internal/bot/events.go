package bot

import (
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	moddomain "group_guard_bot/internal/pkg/moderation/domain"
)

func chatIDString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func fullName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.UserName
	}
	return name
}

// toDomainMessage flattens a Telegram message into the pipeline's view of it.
func toDomainMessage(msg *tgbotapi.Message) *moddomain.Message {
	m := &moddomain.Message{
		ChatID:      chatIDString(msg.Chat.ID),
		MessageID:   msg.MessageID,
		Text:        msg.Text,
		ContentType: "text",
	}
	if msg.From != nil {
		m.UserID = msg.From.ID
		m.UserName = msg.From.UserName
		m.FullName = fullName(msg.From)
		m.IsBot = msg.From.IsBot
	}
	if m.Text == "" {
		m.Text = msg.Caption
	}
	if msg.Sticker != nil {
		m.IsSticker = true
		m.ContentType = "sticker"
	}
	if len(msg.Photo) > 0 {
		m.PhotoCount = len(msg.Photo)
		m.ContentType = "photo"
	}
	if msg.Video != nil {
		m.VideoDuration = time.Duration(msg.Video.Duration) * time.Second
		m.ContentType = "video"
	}
	if isServiceMessage(msg) {
		m.IsService = true
		m.ContentType = "service"
	}
	return m
}

func isServiceMessage(msg *tgbotapi.Message) bool {
	return msg.NewChatMembers != nil ||
		msg.LeftChatMember != nil ||
		msg.NewChatTitle != "" ||
		msg.NewChatPhoto != nil ||
		msg.DeleteChatPhoto ||
		msg.PinnedMessage != nil ||
		msg.GroupChatCreated ||
		msg.SuperGroupChatCreated
}

func toDomainJoin(upd *tgbotapi.ChatMemberUpdated) *moddomain.Join {
	j := &moddomain.Join{
		ChatID:    chatIDString(upd.Chat.ID),
		OldStatus: upd.OldChatMember.Status,
		NewStatus: upd.NewChatMember.Status,
	}
	if u := upd.NewChatMember.User; u != nil {
		j.UserID = u.ID
		j.UserName = u.UserName
		j.FullName = fullName(u)
	}
	return j
}
