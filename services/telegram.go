package services

import (
	ctx "context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tb "gopkg.in/telebot.v3"

	"github.com/requiem-ai/repobot/bot"
	appctx "github.com/requiem-ai/repobot/context"
)

const TELEGRAM_SVC = "telegram_svc"

// telegramMessageLimit is Telegram's hard cap on message length.
const telegramMessageLimit = 4096

const telegramSystemPrompt = "You are a helpful assistant reachable over Telegram. " +
	"Keep answers concise."

// TelegramService is a second front end over the bridge contract: incoming
// text messages become bot calls, replies are sent back non-streamed.
type TelegramService struct {
	appctx.DefaultService

	Bot *tb.Bot

	bots          *BotService
	bridge        *bot.SimpleBot
	allowedUserID int64
}

func (svc TelegramService) Id() string {
	return TELEGRAM_SVC
}

func (svc *TelegramService) Configure(c *appctx.Context) (err error) {
	if err := svc.DefaultService.Configure(c); err != nil {
		return err
	}

	svc.allowedUserID, err = svc.parseAllowedUserID()
	if err != nil {
		return err
	}

	token := strings.TrimSpace(os.Getenv("TELEGRAM_SECRET"))
	if token == "" {
		return errors.New("TELEGRAM_SECRET is not set")
	}

	svc.Bot, err = tb.NewBot(tb.Settings{
		Token: token,
		Poller: &tb.LongPoller{
			Timeout: 30 * time.Second,
		},
		OnError: func(err error, c tb.Context) {
			svc.decorateTelegramEvent(log.Error().Err(err), c).Msg("telegram bot error")
		},
	})
	return err
}

func (svc *TelegramService) Start() error {
	svc.bots = svc.Service(BOT_SVC).(*BotService)

	// Telegram has no incremental message edit path worth the churn,
	// replies are sent whole.
	bridge, err := svc.bots.NewBot(telegramSystemPrompt, bot.WithStreaming(false))
	if err != nil {
		return err
	}
	svc.bridge = bridge

	svc.Bot.Handle(tb.OnText, svc.guardHandler(svc.onText))

	svc.Bot.Start()

	return nil
}

func (svc *TelegramService) Shutdown() {
	if svc.Bot == nil {
		return
	}
	svc.Bot.Stop()
}

func (svc *TelegramService) onText(c tb.Context) error {
	question := strings.TrimSpace(c.Text())
	if question == "" {
		return nil
	}

	reply, err := svc.bridge.Call(ctx.Background(), question)
	if err != nil {
		svc.decorateTelegramEvent(log.Error().Err(err), c).Msg("completion failed")
		return c.Reply("Something went wrong, try again.")
	}

	for _, part := range splitMessage(reply.Content, telegramMessageLimit) {
		if err := c.Reply(part); err != nil {
			return err
		}
	}

	return nil
}

// guardHandler drops updates from anyone but the allowed user, when one is
// configured.
func (svc *TelegramService) guardHandler(fn tb.HandlerFunc) tb.HandlerFunc {
	return func(c tb.Context) error {
		if svc.allowedUserID != 0 {
			sender := c.Sender()
			if sender == nil || sender.ID != svc.allowedUserID {
				svc.decorateTelegramEvent(log.Warn(), c).Msg("ignoring message from unknown user")
				return nil
			}
		}
		return fn(c)
	}
}

func (svc *TelegramService) decorateTelegramEvent(event *zerolog.Event, c tb.Context) *zerolog.Event {
	if c == nil {
		return event
	}
	if chat := c.Chat(); chat != nil {
		event = event.Int64("chat_id", chat.ID)
	}
	if sender := c.Sender(); sender != nil {
		event = event.Int64("user_id", sender.ID).Str("username", sender.Username)
	}
	return event
}

func (svc *TelegramService) parseAllowedUserID() (int64, error) {
	raw := strings.TrimSpace(os.Getenv("TELEGRAM_ALLOWED_USER_ID"))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("TELEGRAM_ALLOWED_USER_ID must be an integer")
	}
	return id, nil
}

// splitMessage cuts text into pieces no longer than limit, preferring line
// breaks, then spaces, over mid-word cuts.
func splitMessage(text string, limit int) []string {
	if text == "" {
		return []string{""}
	}

	var parts []string
	for len(text) > limit {
		cut := limit
		if i := strings.LastIndex(text[:limit], "\n"); i > 0 {
			cut = i
		} else if i := strings.LastIndex(text[:limit], " "); i > 0 {
			cut = i
		}
		parts = append(parts, strings.TrimRight(text[:cut], " \n"))
		text = strings.TrimLeft(text[cut:], " \n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
