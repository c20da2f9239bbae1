package bot

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	modusecase "group_guard_bot/internal/pkg/moderation/usecase"
	"group_guard_bot/internal/pkg/settings/repository"
	settingsusecase "group_guard_bot/internal/pkg/settings/usecase"
	welcomeusecase "group_guard_bot/internal/pkg/welcome/usecase"
)

const sweepInterval = 5 * time.Minute

type Bot struct {
	Api      *tgbotapi.BotAPI
	platform modusecase.Platform

	store    repository.Store
	settings *settingsusecase.Cache
	pipeline *modusecase.Pipeline
	welcome  *welcomeusecase.Flow
	pending  *pendingInputs

	adminID int64
}

type Config struct {
	Token        string
	AdminID      int64
	SpamWindow   time.Duration
	SpamMinGap   time.Duration
	SpamMaxCount int
	MuteDuration time.Duration
	WelcomeDelay time.Duration
}

func New(cfg Config, store repository.Store) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	settings := settingsusecase.NewCache(store)
	if err := settings.Refresh(); err != nil {
		return nil, err
	}

	platform := NewTelegramPlatform(api)
	spam := modusecase.NewSpamLimiter(cfg.SpamWindow, cfg.SpamMinGap, cfg.SpamMaxCount)
	violations := modusecase.NewViolationTracker()
	pipeline := modusecase.NewPipeline(platform, settings, spam, violations, cfg.AdminID, cfg.MuteDuration)
	audit := modusecase.NewAuditLog(platform, settings)
	welcome := welcomeusecase.NewFlow(platform, settings, audit, cfg.WelcomeDelay)

	return &Bot{
		Api:      api,
		platform: platform,
		store:    store,
		settings: settings,
		pipeline: pipeline,
		welcome:  welcome,
		pending:  newPendingInputs(),
		adminID:  cfg.AdminID,
	}, nil
}

func (b *Bot) Start() {
	log.Printf("Authorized on account %s", b.Api.Self.UserName)

	go b.sweepLoop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "chat_member", "callback_query"}

	updates := b.Api.GetUpdatesChan(u)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sig
		log.Printf("Caught %v, shutting down", s)
		b.Api.StopReceivingUpdates()
	}()

	for update := range updates {
		b.handleUpdate(update)
	}

	// Updates channel closed: drop pending welcome deletions and exit.
	b.welcome.Close()
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered in update handler: %v", r)
		}
	}()

	switch {
	case update.ChatMember != nil:
		b.welcome.OnJoin(toDomainJoin(update.ChatMember))
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	// A claimed command is done; anything else — including unknown or
	// unauthorized commands — is still a group message and gets moderated.
	if msg.IsCommand() && b.handleCommand(msg) {
		return
	}

	if msg.Chat.IsPrivate() {
		b.handlePendingInput(msg)
		return
	}

	if msg.Chat.IsGroup() || msg.Chat.IsSuperGroup() {
		b.pipeline.HandleMessage(toDomainMessage(msg))
	}
}

// sweepLoop clears expired mute deadlines in the background so lapsed mutes
// can be re-issued. The handler path never waits on it.
func (b *Bot) sweepLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered in sweep loop: %v", r)
		}
	}()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		if swept := b.pipeline.Violations().Sweep(time.Now()); swept > 0 {
			log.Printf("Swept %d expired mute records", swept)
		}
	}
}
