// Package journal keeps an append-only JSONL record of trades the agent attempted.
package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TradeRecord is one line of the journal.
type TradeRecord struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	Wallet      string    `json:"wallet"`
	Mint        string    `json:"mint"`
	Amount      float64   `json:"amount"`
	Lamports    uint64    `json:"lamports"`
	OutputMint  string    `json:"outputMint"`
	SlippageBps int       `json:"slippageBps"`
	Signature   string    `json:"signature,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Recorder accepts trade records.
type Recorder interface {
	Record(rec TradeRecord) error
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(TradeRecord) error { return nil }

// JSONLRecorder appends records as JSON lines for later analysis.
type JSONLRecorder struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	now  func() time.Time
}

// NewJSONLRecorder creates/opens the target file and returns a recorder.
func NewJSONLRecorder(path string) (*JSONLRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLRecorder{
		file: file,
		enc:  json.NewEncoder(file),
		now:  time.Now,
	}, nil
}

// Record stamps missing id/time fields and writes a single line.
func (r *JSONLRecorder) Record(rec TradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return os.ErrClosed
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.At.IsZero() {
		rec.At = r.now().UTC()
	}
	return r.enc.Encode(rec)
}

// Close flushes and closes the file handle.
func (r *JSONLRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
