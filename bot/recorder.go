package bot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Recorder persists or logs a prompt/response exchange. Implementations are
// best-effort: a failing recorder must never abort the bot call that
// invoked it.
type Recorder interface {
	Record(prompt, response string)
}

// NopRecorder discards exchanges.
type NopRecorder struct{}

func (NopRecorder) Record(prompt, response string) {}

// LogRecorder writes each exchange to the process log.
type LogRecorder struct{}

func (LogRecorder) Record(prompt, response string) {
	log.Debug().
		Str("prompt", prompt).
		Str("response", response).
		Msg("exchange recorded")
}

// FileRecorder appends one JSON line per exchange to a file.
type FileRecorder struct {
	path string

	mu sync.Mutex
}

type exchangeRecord struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Prompt   string    `json:"prompt"`
	Response string    `json:"response"`
}

func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

func (r *FileRecorder) Record(prompt, response string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.append(prompt, response); err != nil {
		log.Warn().Err(err).Str("path", r.path).Msg("failed to record exchange")
	}
}

func (r *FileRecorder) append(prompt, response string) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	line, err := json.Marshal(exchangeRecord{
		ID:       uuid.NewString(),
		Time:     time.Now().UTC(),
		Prompt:   prompt,
		Response: response,
	})
	if err != nil {
		return err
	}

	_, err = f.Write(append(line, '\n'))
	return err
}
