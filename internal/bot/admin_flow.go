package bot

import (
	"fmt"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	settingsdomain "group_guard_bot/internal/pkg/settings/domain"
)

// Admin menu callbacks and the awaiting-input states they lead to.
const (
	callbackSetWelcome = "set_welcome"
	callbackSetButton  = "set_button"
	callbackAddFilter  = "add_filter"
	callbackBroadcast  = "broadcast"

	stateAwaitWelcomeText = "awaiting_welcome_text"
	stateAwaitWelcomeBtn  = "awaiting_welcome_btn"
	stateAwaitFilterWord  = "awaiting_filter_word"
	stateAwaitBroadcast   = "awaiting_broadcast"
)

// pendingInputs tracks which prompt each admin chat is currently answering.
type pendingInputs struct {
	states map[int64]string
	mu     sync.Mutex
}

func newPendingInputs() *pendingInputs {
	return &pendingInputs{states: make(map[int64]string)}
}

func (p *pendingInputs) set(chatID int64, state string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states[chatID] = state
}

func (p *pendingInputs) take(chatID int64) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.states[chatID]
	delete(p.states, chatID)
	return state
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.From.ID != b.adminID || cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID

	switch cq.Data {
	case callbackSetWelcome:
		b.pending.set(chatID, stateAwaitWelcomeText)
		b.reply(chatID, "Send the new welcome text. Use {mention} where the new member's name should go.")
	case callbackSetButton:
		b.pending.set(chatID, stateAwaitWelcomeBtn)
		b.reply(chatID, "Send the welcome button as: Label|https://example.com")
	case callbackAddFilter:
		b.pending.set(chatID, stateAwaitFilterWord)
		b.reply(chatID, "Send the word to ban.")
	case callbackBroadcast:
		b.pending.set(chatID, stateAwaitBroadcast)
		b.reply(chatID, "Send the text to broadcast to the target group.")
	}

	if _, err := b.Api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

// handlePendingInput consumes the next private message from the owner when a
// prompt is outstanding.
func (b *Bot) handlePendingInput(msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.ID != b.adminID {
		return
	}

	switch b.pending.take(msg.Chat.ID) {
	case stateAwaitWelcomeText:
		b.saveWelcomeText(msg)
	case stateAwaitWelcomeBtn:
		b.saveWelcomeButton(msg)
	case stateAwaitFilterWord:
		b.saveFilterWord(msg)
	case stateAwaitBroadcast:
		b.broadcast(msg)
	}
}

func (b *Bot) saveWelcomeText(msg *tgbotapi.Message) {
	if msg.Text == "" {
		b.reply(msg.Chat.ID, "❌ The welcome text must be plain text.")
		return
	}
	if err := b.store.SetSetting(settingsdomain.KeyWelcomeText, msg.Text); err != nil {
		log.Printf("Error saving welcome text: %v", err)
		b.reply(msg.Chat.ID, "❌ Failed to save the welcome text.")
		return
	}
	b.refreshSettings(msg.Chat.ID)
	b.reply(msg.Chat.ID, "✅ Welcome text saved! Now you can set a button via the admin panel.")
}

func (b *Bot) saveWelcomeButton(msg *tgbotapi.Message) {
	btn := settingsdomain.ParseWelcomeButton(msg.Text)
	if btn == nil {
		// Re-arm the prompt so the admin can just try again.
		b.pending.set(msg.Chat.ID, stateAwaitWelcomeBtn)
		b.reply(msg.Chat.ID, "❌ Wrong format. Use: Label|https://example.com (URL must start with http:// or https://)")
		return
	}
	if err := b.store.SetSetting(settingsdomain.KeyWelcomeBtn, btn.Label+"|"+btn.URL); err != nil {
		log.Printf("Error saving welcome button: %v", err)
		b.reply(msg.Chat.ID, "❌ Failed to save the button.")
		return
	}
	b.refreshSettings(msg.Chat.ID)
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Button saved!\n\nPreview: [%s](%s)", btn.Label, btn.URL))
}

func (b *Bot) saveFilterWord(msg *tgbotapi.Message) {
	if msg.Text == "" {
		b.reply(msg.Chat.ID, "❌ Send the word as plain text.")
		return
	}
	if err := b.store.AddFilter(msg.Text); err != nil {
		log.Printf("Error adding filter word: %v", err)
		b.reply(msg.Chat.ID, "❌ Failed to save the word.")
		return
	}
	b.refreshSettings(msg.Chat.ID)
	b.reply(msg.Chat.ID, "✅ Word added to the filter list.")
}

func (b *Bot) broadcast(msg *tgbotapi.Message) {
	snapshot := b.settings.Get()
	if snapshot == nil || snapshot.Config.TargetGroupID == "" ||
		snapshot.Config.TargetGroupID == settingsdomain.Unset {
		b.reply(msg.Chat.ID, "❌ No target group configured. Run /setgrup in the group first.")
		return
	}
	if _, err := b.platform.Send(snapshot.Config.TargetGroupID, msg.Text, nil); err != nil {
		log.Printf("Error broadcasting to %s: %v", snapshot.Config.TargetGroupID, err)
		b.reply(msg.Chat.ID, "❌ Broadcast failed.")
		return
	}
	b.reply(msg.Chat.ID, "✅ Broadcast sent.")
}
