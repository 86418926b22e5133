package services

import (
	"bytes"
	ctx "context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/requiem-ai/repobot/bot"
	"github.com/requiem-ai/repobot/llm"
)

// scriptedClient returns a fixed completion.
type scriptedClient struct {
	text string
}

func (s *scriptedClient) ID() string { return "scripted" }

func (s *scriptedClient) Complete(c ctx.Context, req llm.Request) (llm.Response, error) {
	return llm.Response{Text: s.text}, nil
}

func (s *scriptedClient) Stream(c ctx.Context, req llm.Request, fn func(llm.Chunk) error) error {
	return fn(llm.Chunk{Content: s.text})
}

type fakeQueryBot struct {
	questions []string
	err       error
}

func (f *fakeQueryBot) Query(c ctx.Context, question string) (llm.Message, error) {
	f.questions = append(f.questions, question)
	if f.err != nil {
		return llm.Message{}, f.err
	}
	return llm.AI("answer"), nil
}

func TestIsQuit(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"exit", true},
		{"quit", true},
		{"q", true},
		{"  EXIT  ", true},
		{"Quit", true},
		{"exit now", false},
		{"what does main do?", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := isQuit(tc.in); got != tc.want {
			t.Errorf("isQuit(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoopStopsOnQuit(t *testing.T) {
	qb := &fakeQueryBot{}
	svc := &RepoChatService{
		In:    strings.NewReader("what is this repo?\nhow do I build it?\nexit\nnever seen\n"),
		Out:   &bytes.Buffer{},
		query: qb,
	}

	if err := svc.loop(ctx.Background()); err != nil {
		t.Fatal(err)
	}

	if len(qb.questions) != 2 {
		t.Fatalf("bot saw %d questions, want 2: %v", len(qb.questions), qb.questions)
	}
	if qb.questions[0] != "what is this repo?" || qb.questions[1] != "how do I build it?" {
		t.Errorf("questions = %v", qb.questions)
	}
}

func TestLoopSkipsBlankLines(t *testing.T) {
	qb := &fakeQueryBot{}
	svc := &RepoChatService{
		In:    strings.NewReader("\n   \nreal question\nquit\n"),
		Out:   &bytes.Buffer{},
		query: qb,
	}
	if err := svc.loop(ctx.Background()); err != nil {
		t.Fatal(err)
	}
	if len(qb.questions) != 1 || qb.questions[0] != "real question" {
		t.Errorf("questions = %v", qb.questions)
	}
}

func TestLoopContinuesAfterQueryError(t *testing.T) {
	qb := &fakeQueryBot{err: errors.New("upstream down")}
	out := &bytes.Buffer{}
	svc := &RepoChatService{
		In:    strings.NewReader("first\nsecond\nexit\n"),
		Out:   out,
		query: qb,
	}
	if err := svc.loop(ctx.Background()); err != nil {
		t.Fatal(err)
	}
	if len(qb.questions) != 2 {
		t.Fatalf("bot saw %d questions, want 2", len(qb.questions))
	}
	if !strings.Contains(out.String(), "upstream down") {
		t.Errorf("output %q does not surface the failure", out.String())
	}
}

func TestLoopEchoesAnswerWhenNotStreaming(t *testing.T) {
	client := &scriptedClient{text: "the repo builds with make"}
	b, err := bot.New(repoSystemPrompt,
		bot.WithClient(client),
		bot.WithStreaming(false),
		bot.WithRecorder(bot.NopRecorder{}),
	)
	if err != nil {
		t.Fatal(err)
	}

	out := &bytes.Buffer{}
	svc := &RepoChatService{
		In:    strings.NewReader("how do I build it?\nexit\n"),
		Out:   out,
		query: bridgeQueryBot{bot: b},
		echo:  true,
	}
	if err := svc.loop(ctx.Background()); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "the repo builds with make") {
		t.Errorf("output %q does not contain the answer", out.String())
	}
}

func TestShutdownUnblocksLoop(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	svc := &RepoChatService{
		In:    pr,
		Out:   &bytes.Buffer{},
		query: &fakeQueryBot{},
	}

	done := make(chan error, 1)
	go func() {
		done <- svc.loop(ctx.Background())
	}()

	svc.Shutdown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop still blocked after Shutdown")
	}
}

func TestShutdownRemovesCloneTree(t *testing.T) {
	base := t.TempDir()
	clone := filepath.Join(base, "repo-123")
	if err := os.MkdirAll(clone, 0o755); err != nil {
		t.Fatal(err)
	}

	svc := &RepoChatService{
		In:        strings.NewReader(""),
		git:       &GitService{BaseDir: base},
		clonePath: clone,
	}
	svc.Shutdown()

	if _, err := os.Stat(clone); !os.IsNotExist(err) {
		t.Errorf("clone tree still present: %v", err)
	}
	if svc.clonePath != "" {
		t.Errorf("clonePath = %q, want cleared", svc.clonePath)
	}
}

func TestLoopEndsAtEOF(t *testing.T) {
	qb := &fakeQueryBot{}
	svc := &RepoChatService{
		In:    strings.NewReader("only question\n"),
		Out:   &bytes.Buffer{},
		query: qb,
	}
	if err := svc.loop(ctx.Background()); err != nil {
		t.Fatal(err)
	}
	if len(qb.questions) != 1 {
		t.Errorf("questions = %v", qb.questions)
	}
}
