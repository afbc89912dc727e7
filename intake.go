package opini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// DefaultCooldown is the minimum time between two opinions from the same
// submitter.
const DefaultCooldown = 10 * time.Second

var (
	// ErrEmptyOpinion is returned for blank opinions.
	ErrEmptyOpinion = errors.New("opini: empty opinion")
	// ErrCooldown is returned when a submitter sends again too soon.
	ErrCooldown = errors.New("opini: submitter is cooling down")
)

// Submission is an opinion as entered by a visitor.
type Submission struct {
	SchoolID  int64
	Submitter string // Any stable key for the visitor; empty shares one bucket
	Opinion   string
}

// Feedback is a scored opinion ready to be stored.
type Feedback struct {
	ID         uuid.UUID `json:"id"`
	SchoolID   int64     `json:"school_id"`
	Opinion    string    `json:"opinion"`
	Positivity float64   `json:"positivity"`
	Compound   float64   `json:"compound"`
	Flagged    bool      `json:"flagged"`              // A softer rewrite was offered
	Suggestion string    `json:"suggestion,omitempty"` // Set only when Flagged
	CreatedAt  time.Time `json:"created_at"`
}

// FeedbackSink persists feedback.
type FeedbackSink interface {
	SaveFeedback(ctx context.Context, fb Feedback) error
}

// FeedbackSinkFunc adapts a function to FeedbackSink.
type FeedbackSinkFunc func(ctx context.Context, fb Feedback) error

// SaveFeedback calls f.
func (f FeedbackSinkFunc) SaveFeedback(ctx context.Context, fb Feedback) error {
	return f(ctx, fb)
}

// IntakeOpt configures an Intake.
type IntakeOpt func(in *Intake)

// UsingClock sets the clock used for cooldowns and timestamps.
func UsingClock(clock clockwork.Clock) IntakeOpt {
	return func(in *Intake) {
		in.clock = clock
	}
}

// UsingCooldown sets the per-submitter cooldown. Zero disables it.
func UsingCooldown(d time.Duration) IntakeOpt {
	return func(in *Intake) {
		in.cooldown = d
	}
}

// Intake scores submissions and hands them to a FeedbackSink, enforcing a
// cooldown per submitter.
type Intake struct {
	analyzer *Analyzer
	sink     FeedbackSink
	clock    clockwork.Clock
	cooldown time.Duration

	mu        sync.Mutex
	limiters  map[string]*cooldownEntry
	cleanupAt time.Time
}

type cooldownEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIntake creates an Intake.
func NewIntake(analyzer *Analyzer, sink FeedbackSink, opts ...IntakeOpt) *Intake {
	in := &Intake{
		analyzer: analyzer,
		sink:     sink,
		clock:    clockwork.NewRealClock(),
		cooldown: DefaultCooldown,
		limiters: make(map[string]*cooldownEntry),
	}
	for _, applyOpt := range opts {
		applyOpt(in)
	}
	return in
}

// Submit scores sub and saves it. A rejected submission is never scored.
// The cooldown slot is consumed even when the sink fails.
func (in *Intake) Submit(ctx context.Context, sub Submission) (Feedback, error) {
	if strings.TrimSpace(sub.Opinion) == "" {
		return Feedback{}, ErrEmptyOpinion
	}
	if !in.allow(sub.Submitter) {
		return Feedback{}, ErrCooldown
	}

	result := in.analyzer.AnalyzeContext(ctx, sub.Opinion).Result()
	flagged, suggestion := in.analyzer.SuggestTextContext(ctx, sub.Opinion)

	fb := Feedback{
		ID:         uuid.New(),
		SchoolID:   sub.SchoolID,
		Opinion:    sub.Opinion,
		Positivity: result.Positivity,
		Compound:   result.Compound,
		Flagged:    flagged,
		CreatedAt:  in.clock.Now().UTC(),
	}
	if flagged {
		fb.Suggestion = suggestion
	}

	if err := in.sink.SaveFeedback(ctx, fb); err != nil {
		return Feedback{}, fmt.Errorf("opini: saving feedback for school %d: %w", sub.SchoolID, err)
	}
	return fb, nil
}

func (in *Intake) allow(submitter string) bool {
	if in.cooldown <= 0 {
		return true
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	now := in.clock.Now()

	// A limiter idle for a full cooldown is full again, so dropping it
	// changes nothing.
	if now.After(in.cleanupAt) {
		for key, entry := range in.limiters {
			if now.Sub(entry.lastSeen) >= in.cooldown {
				delete(in.limiters, key)
			}
		}
		in.cleanupAt = now.Add(in.cooldown)
	}

	entry, ok := in.limiters[submitter]
	if !ok {
		entry = &cooldownEntry{limiter: rate.NewLimiter(rate.Every(in.cooldown), 1)}
		in.limiters[submitter] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}
