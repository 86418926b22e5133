package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/requiem-ai/repobot/config"
	"github.com/requiem-ai/repobot/context"
	"github.com/requiem-ai/repobot/services"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal().Err(err).Msg("Error loading .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
	zerolog.TimeFieldFormat = time.RFC3339
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))
	switch logLevel {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	configPath := flag.String("config", "repobot.yaml", "Path to the YAML config file")
	model := flag.String("model", "", "Model name, e.g. mistral/mistral-medium")
	checkout := flag.String("checkout", "main", "Branch or tag to check out")
	exts := flag.String("ext", "", "Comma-separated source file extensions")
	noStream := flag.Bool("no-stream", false, "Disable streamed output")
	record := flag.String("record", "", "Append prompt/response exchanges to this JSONL file")
	telegram := flag.Bool("telegram", false, "Run the Telegram front end instead of the repo chat CLI")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *model != "" {
		cfg.DefaultModel = *model
	}
	if *noStream {
		cfg.Streaming = false
	}
	if *record != "" {
		cfg.RecordPath = *record
	}

	botSvc := &services.BotService{Config: cfg}

	var ctx *context.Context
	if *telegram {
		ctx, err = context.NewCtx(
			botSvc,
			&services.TelegramService{},
		)
	} else {
		repoURL := flag.Arg(0)
		if repoURL == "" {
			log.Fatal().Msg("usage: repobot [flags] <repository-url>")
		}
		ctx, err = context.NewCtx(
			&services.GitService{},
			botSvc,
			&services.RepoChatService{
				RepoURL:    repoURL,
				Checkout:   *checkout,
				Extensions: splitExts(*exts),
				Model:      *model,
			},
		)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to assemble services")
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("runtime error")
	}
}

func splitExts(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var exts []string
	for _, e := range strings.Split(raw, ",") {
		if e = strings.TrimSpace(e); e != "" {
			exts = append(exts, e)
		}
	}
	return exts
}
