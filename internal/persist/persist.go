// Package persist keeps the page sequence in a blob store, loading it once at
// start and writing it back on a trailing-edge debounce.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"inknote/internal/blobstore"
	"inknote/internal/debounce"
	"inknote/internal/note"
)

const (
	DefaultKey   = "inknote:document"
	DefaultDelay = time.Second

	writeTimeout = 10 * time.Second
)

// ErrEmptyDocument is returned by Decode for a blob holding no pages.
var ErrEmptyDocument = errors.New("persisted document has no pages")

// Adapter loads and saves one document blob. Writes scheduled within the
// delay of each other collapse into the last one; a write whose payload
// matches the last stored payload is skipped.
type Adapter struct {
	store blobstore.Store
	key   string
	log   zerolog.Logger
	timer *debounce.Timer

	mu      sync.Mutex
	pending []byte

	writeMu    sync.Mutex
	lastDigest [blake2b.Size256]byte
	hasDigest  bool
}

func New(store blobstore.Store, key string, delay time.Duration, logger zerolog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	a := &Adapter{
		store: store,
		key:   key,
		log:   logger.With().Str("component", "persist").Str("key", key).Logger(),
	}
	a.timer = debounce.NewTimer(delay, a.writeScheduled)
	return a
}

func (a *Adapter) Key() string { return a.key }

// Load reads the stored document. A missing, unreadable or empty blob yields
// the default document; the cause is logged and never returned.
func (a *Adapter) Load(ctx context.Context) note.Document {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, blobstore.ErrNotFound) {
		a.log.Debug().Msg("no stored document, starting blank")
		return note.NewDocument()
	}
	if err != nil {
		a.log.Warn().Err(err).Msg("load document failed, starting blank")
		return note.NewDocument()
	}
	doc, err := Decode(data)
	if err != nil {
		a.log.Warn().Err(err).Msg("stored document unreadable, starting blank")
		return note.NewDocument()
	}
	a.writeMu.Lock()
	a.lastDigest = blake2b.Sum256(data)
	a.hasDigest = true
	a.writeMu.Unlock()
	a.log.Info().Int("pages", doc.Len()).Msg("document loaded")
	return doc
}

// Schedule queues pages for writing once the delay passes without another
// Schedule. The pages are encoded immediately.
func (a *Adapter) Schedule(pages []note.Page) {
	data, err := Encode(pages)
	if err != nil {
		a.log.Warn().Err(err).Msg("encode document failed")
		return
	}
	a.mu.Lock()
	a.pending = data
	a.mu.Unlock()
	a.timer.Reset()
}

// Pending reports whether a write is waiting for its window to close.
func (a *Adapter) Pending() bool {
	return a.timer.Pending()
}

// Flush writes any pending payload now.
func (a *Adapter) Flush(ctx context.Context) error {
	a.timer.Stop()
	return a.write(ctx)
}

// Close flushes the pending payload and stops the timer.
func (a *Adapter) Close(ctx context.Context) error {
	err := a.Flush(ctx)
	a.timer.Close()
	return err
}

func (a *Adapter) writeScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := a.write(ctx); err != nil {
		a.log.Warn().Err(err).Msg("persist document failed")
	}
}

func (a *Adapter) write(ctx context.Context) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	data := a.pending
	a.pending = nil
	a.mu.Unlock()
	if data == nil {
		return nil
	}

	digest := blake2b.Sum256(data)
	if a.hasDigest && digest == a.lastDigest {
		a.log.Debug().Msg("document unchanged, skipping write")
		return nil
	}
	if err := a.store.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	a.lastDigest = digest
	a.hasDigest = true
	a.log.Debug().Int("bytes", len(data)).Msg("document saved")
	return nil
}

// Encode serialises the page sequence as a JSON array.
func Encode(pages []note.Page) ([]byte, error) {
	data, err := json.Marshal(pages)
	if err != nil {
		return nil, fmt.Errorf("marshal pages: %w", err)
	}
	return data, nil
}

// Decode parses a JSON page array into a document positioned on the first
// page.
func Decode(data []byte) (note.Document, error) {
	var pages []note.Page
	if err := json.Unmarshal(data, &pages); err != nil {
		return note.Document{}, fmt.Errorf("unmarshal pages: %w", err)
	}
	doc, ok := note.FromPages(pages)
	if !ok {
		return note.Document{}, ErrEmptyDocument
	}
	return doc, nil
}
