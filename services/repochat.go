package services

import (
	"bufio"
	ctx "context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/requiem-ai/repobot/bot"
	appctx "github.com/requiem-ai/repobot/context"
	"github.com/requiem-ai/repobot/llm"
)

const REPOCHAT_SVC = "repochat_svc"

// repoSystemPrompt primes the bridge for answering questions about a
// cloned repository.
const repoSystemPrompt = "You are a knowledgeable git repository author. " +
	"Your answers come from the repository. " +
	"If the answer is not in the repository, say 'I don't know'."

// DefaultSourceExtensions are the file extensions scanned when the user
// does not narrow them down.
var DefaultSourceExtensions = []string{
	"py", "jl", "R", "ipynb", "md", "tex", "txt", "lr", "rst", "go",
}

// QueryBot answers free-form questions. Retrieval over the discovered
// documents is the collaborator's concern; the bridge satisfies the
// contract directly.
type QueryBot interface {
	Query(ctx ctx.Context, question string) (llm.Message, error)
}

type bridgeQueryBot struct {
	bot *bot.SimpleBot
}

func (q bridgeQueryBot) Query(c ctx.Context, question string) (llm.Message, error) {
	return q.bot.Call(c, question)
}

// RepoChatService is the CLI surface: it clones a repository, discovers its
// source files and runs a read-query-respond loop until the user quits.
type RepoChatService struct {
	appctx.DefaultService

	RepoURL    string
	Checkout   string
	Extensions []string
	Model      string

	In  io.Reader
	Out io.Writer

	git       *GitService
	bots      *BotService
	query     QueryBot
	clonePath string

	// echo makes the loop print the returned answer itself; set when the
	// bridge is not streaming and nothing reaches Out incrementally.
	echo bool
}

func (svc RepoChatService) Id() string {
	return REPOCHAT_SVC
}

func (svc *RepoChatService) Configure(c *appctx.Context) error {
	if err := svc.DefaultService.Configure(c); err != nil {
		return err
	}

	if strings.TrimSpace(svc.RepoURL) == "" {
		return errors.New("missing repository url")
	}
	if svc.Checkout == "" {
		svc.Checkout = "main"
	}
	if len(svc.Extensions) == 0 {
		svc.Extensions = DefaultSourceExtensions
	}
	if svc.In == nil {
		svc.In = os.Stdin
	}
	if svc.Out == nil {
		svc.Out = os.Stdout
	}

	return nil
}

func (svc *RepoChatService) Start() error {
	svc.git = svc.Service(GIT_SVC).(*GitService)
	svc.bots = svc.Service(BOT_SVC).(*BotService)

	c := ctx.Background()

	path, err := svc.git.Clone(c, svc.RepoURL, svc.Checkout)
	if err != nil {
		return err
	}
	svc.clonePath = path
	defer svc.git.Remove(path)

	files, err := svc.git.DiscoverFiles(path, svc.Extensions)
	if err != nil {
		return err
	}
	log.Info().Int("files", len(files)).Str("repo", svc.RepoURL).Msg("repository ready")

	if svc.query == nil {
		var opts []bot.Option
		if svc.Model != "" {
			opts = append(opts, bot.WithModel(svc.Model))
		}
		opts = append(opts, bot.WithOutput(svc.Out))
		b, err := svc.bots.NewBot(repoSystemPrompt, opts...)
		if err != nil {
			return err
		}
		svc.query = bridgeQueryBot{bot: b}
		svc.echo = !svc.bots.Config.Streaming
	}

	return svc.loop(c)
}

// Shutdown unblocks a loop waiting on input and removes the working tree,
// which the deferred cleanup in Start never reaches when the read is stuck.
func (svc *RepoChatService) Shutdown() {
	if closer, ok := svc.In.(io.Closer); ok {
		_ = closer.Close()
	}
	if svc.clonePath != "" && svc.git != nil {
		svc.git.Remove(svc.clonePath)
		svc.clonePath = ""
	}
}

// loop reads questions until EOF or a quit word. A failed exchange aborts
// only the current question; the loop offers a fresh one.
func (svc *RepoChatService) loop(c ctx.Context) error {
	scanner := bufio.NewScanner(svc.In)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(svc.Out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if isQuit(question) {
			return nil
		}

		reply, err := svc.query.Query(c, question)
		if err != nil {
			log.Error().Err(err).Msg("query failed")
			fmt.Fprintf(svc.Out, "error: %v\n", err)
			continue
		}
		if svc.echo {
			fmt.Fprint(svc.Out, reply.Content)
		}
		fmt.Fprint(svc.Out, "\n\n")
	}
}

func isQuit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit", "q":
		return true
	}
	return false
}
