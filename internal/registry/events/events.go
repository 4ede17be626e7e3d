// Package events defines the registry's observations and the emitter
// capability that delivers them. Delivery is best-effort: an emitter failure
// is logged by the service and never fails the originating call.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	id "tokenhome/pkg/domain"
)

// Kind names an observation.
type Kind string

const (
	// KindMinted fires once per successful mint.
	KindMinted Kind = "minted"
	// KindBaseURIChanged fires for base URI changes and for base extension
	// changes too. Both reconfigure the same resolution surface and
	// downstream indexers treat them identically.
	KindBaseURIChanged Kind = "base_uri_changed"
	// KindBatchMetadataUpdate hints indexers to refresh an id range.
	KindBatchMetadataUpdate Kind = "batch_metadata_update"
	// KindMetadataUpdate hints indexers to refresh one token.
	KindMetadataUpdate Kind = "metadata_update"
)

// Event is one observation. It is transport-agnostic so sinks can fan out.
// Only the fields relevant to the Kind are populated.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Kind      Kind       `json:"kind"`
	At        time.Time  `json:"at"`
	RequestID string     `json:"request_id,omitempty"`
	Token     id.TokenID `json:"token,omitempty"`
	FromToken id.TokenID `json:"from_token,omitempty"`
	ToToken   id.TokenID `json:"to_token,omitempty"`
	Data      string     `json:"data,omitempty"`
	OldValue  string     `json:"old_value,omitempty"`
	NewValue  string     `json:"new_value,omitempty"`
}

// Emitter delivers observations. Implementations must not block the caller
// beyond local buffering; returned errors are advisory.
type Emitter interface {
	Emit(ctx context.Context, ev Event) error
}

// Discard drops every observation. Used when no emitter is configured.
type Discard struct{}

func (Discard) Emit(ctx context.Context, ev Event) error { return nil }

// Recorder keeps observations in memory. Test double and local-dev sink.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything emitted so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind returns recorded observations of one kind, in emission order.
func (r *Recorder) OfKind(kind Kind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
