// Package diary implements the aggregation pipeline: fetch recent sandbox
// messages, keep those inside the trailing window, generate one entry per
// persona and persist each successful result.
package diary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/martijnpeper/dagboek-bot/backend/internal/model/diary"
	"github.com/martijnpeper/dagboek-bot/backend/internal/model/message"
	"github.com/martijnpeper/dagboek-bot/backend/internal/model/persona"
)

// ErrNoMessages signals that no qualifying messages were available. It is a
// normal-but-empty outcome, not a provider fault.
var ErrNoMessages = errors.New("no recent messages to summarize")

// GenerationError reports a failed model invocation for one persona. The
// pipeline never stores anything for that persona; other personas are
// unaffected.
type GenerationError struct {
	Persona string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate entry for %s: %v", e.Persona, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Source fetches a bounded window of recent messages from the provider.
type Source interface {
	FetchRecent(ctx context.Context, limit int) ([]message.Message, error)
}

// Generator produces one diary text from a persona and its message bodies.
type Generator interface {
	GenerateEntry(ctx context.Context, p persona.Persona, bodies []string) (string, error)
}

// Recorder persists a single entry and returns its assigned id.
type Recorder interface {
	AppendEntry(ctx context.Context, entry diary.Entry) (int64, error)
}

// Result is the per-persona outcome of one pipeline run. Exactly one of
// Entry and Err is meaningful.
type Result struct {
	Persona persona.Persona
	Entry   diary.Entry
	Err     error
}

// Service is the generation pipeline over injected collaborators.
type Service struct {
	source   Source
	gen      Generator
	recorder Recorder
	personas persona.Store
	window   time.Duration
	limit    int
	now      func() time.Time
}

// NewService wires the pipeline. Collaborators are constructed once at
// process start and shared across requests.
func NewService(source Source, gen Generator, recorder Recorder, personas persona.Store, window time.Duration, limit int) *Service {
	return &Service{
		source:   source,
		gen:      gen,
		recorder: recorder,
		personas: personas,
		window:   window,
		limit:    limit,
		now:      time.Now,
	}
}

// Generate produces and persists one entry for a single persona. Empty input
// returns ErrNoMessages without contacting the model. The entry is appended
// to the record store only after generation fully succeeded, so no partial
// entry is ever written.
func (s *Service) Generate(ctx context.Context, p persona.Persona, msgs []message.Message) (diary.Entry, error) {
	if len(msgs) == 0 {
		return diary.Entry{}, ErrNoMessages
	}

	text, err := s.gen.GenerateEntry(ctx, p, chronologicalBodies(msgs))
	if err != nil {
		return diary.Entry{}, &GenerationError{Persona: p.Name, Err: err}
	}

	entry := diary.Entry{
		Date:   s.now().Format("2006-01-02"),
		Author: p.Name,
		Body:   text,
	}

	id, err := s.recorder.AppendEntry(ctx, entry)
	if err != nil {
		return diary.Entry{}, fmt.Errorf("persist entry for %s: %w", p.Name, err)
	}
	entry.ID = id

	log.Printf("[diary] stored entry id=%d author=%s date=%s", entry.ID, entry.Author, entry.Date)
	return entry, nil
}

// GenerateFromMessages runs the per-persona generation over an explicit
// message list, skipping the fetch and window steps.
func (s *Service) GenerateFromMessages(ctx context.Context, msgs []message.Message) ([]Result, error) {
	if len(msgs) == 0 {
		return nil, ErrNoMessages
	}
	return s.generateAll(ctx, msgs), nil
}

// GenerateRecent fetches recent sandbox messages, selects those inside the
// configured window and generates an entry for every persona. Each persona
// is attempted independently: one failure never aborts the others.
func (s *Service) GenerateRecent(ctx context.Context) ([]Result, error) {
	fetched, err := s.source.FetchRecent(ctx, s.limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent messages: %w", err)
	}

	msgs := message.Within(fetched, s.now(), s.window)
	if len(msgs) == 0 {
		return nil, ErrNoMessages
	}

	return s.generateAll(ctx, msgs), nil
}

func (s *Service) generateAll(ctx context.Context, msgs []message.Message) []Result {
	personas := s.personas.List()
	results := make([]Result, 0, len(personas))
	for _, p := range personas {
		entry, err := s.Generate(ctx, p, msgs)
		if err != nil {
			log.Printf("[diary] generation failed for persona=%s: %v", p.ID, err)
		}
		results = append(results, Result{Persona: p, Entry: entry, Err: err})
	}
	return results
}

// chronologicalBodies orders the bodies oldest-first. Untimestamped messages
// keep their given position relative to each other.
func chronologicalBodies(msgs []message.Message) []string {
	ordered := make([]message.Message, len(msgs))
	copy(ordered, msgs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].SentAt.IsZero() || ordered[j].SentAt.IsZero() {
			return false
		}
		return ordered[i].SentAt.Before(ordered[j].SentAt)
	})

	bodies := make([]string, 0, len(ordered))
	for _, msg := range ordered {
		bodies = append(bodies, msg.Body)
	}
	return bodies
}
