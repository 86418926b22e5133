package services

import (
	"github.com/requiem-ai/repobot/bot"
	"github.com/requiem-ai/repobot/config"
	appctx "github.com/requiem-ai/repobot/context"
)

const BOT_SVC = "bot_svc"

// BotService constructs completion bridges carrying the process-wide
// defaults: model, temperature, streaming mode, provider credentials and
// the exchange recorder.
type BotService struct {
	appctx.DefaultService

	Config *config.Config

	recorder bot.Recorder
}

func (svc BotService) Id() string {
	return BOT_SVC
}

func (svc *BotService) Configure(ctx *appctx.Context) error {
	if err := svc.DefaultService.Configure(ctx); err != nil {
		return err
	}

	if svc.Config == nil {
		cfg, err := config.Load("")
		if err != nil {
			return err
		}
		svc.Config = cfg
	}

	if svc.Config.RecordPath != "" {
		svc.recorder = bot.NewFileRecorder(svc.Config.RecordPath)
	} else {
		svc.recorder = bot.LogRecorder{}
	}

	return nil
}

// NewBot builds a bridge primed with the given system prompt and the
// service defaults. Extra options are applied last and may override them.
func (svc *BotService) NewBot(systemPrompt string, opts ...bot.Option) (*bot.SimpleBot, error) {
	base := []bot.Option{
		bot.WithModel(svc.Config.DefaultModel),
		bot.WithTemperature(svc.Config.Temperature),
		bot.WithStreaming(svc.Config.Streaming),
		bot.WithProviders(svc.Config.Providers()),
		bot.WithRecorder(svc.recorder),
	}
	return bot.New(systemPrompt, append(base, opts...)...)
}
