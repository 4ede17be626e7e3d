package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"tokenhome/internal/registry/events"
	"tokenhome/internal/registry/resolver"
	id "tokenhome/pkg/domain"
	dErrors "tokenhome/pkg/domain-errors"
	"tokenhome/pkg/platform/sentinel"
	"tokenhome/pkg/requestcontext"
)

// Mint issues the next identifier to the recipient. initialData rides along
// on the Minted observation only; auxData is handed to the receiver-safety
// check. The allocation, record insert, and counter advance commit together
// or not at all.
func (s *Service) Mint(ctx context.Context, to id.Address, initialData string, auxData []byte) (id.TokenID, error) {
	ctx, span := s.tracer.Start(ctx, "registry.Mint")
	defer span.End()
	start := time.Now()

	if to.IsZero() {
		return 0, dErrors.New(dErrors.CodeInvalidRecipient, "recipient must not be the null identity")
	}

	tokenID, err := s.ledger.MintNext(ctx, to, func(allocated id.TokenID) error {
		if err := s.receiver.CheckReceiver(ctx, to, allocated, auxData); err != nil {
			return dErrors.Wrap(err, dErrors.CodeReceiverRejected, "recipient rejected safe receipt")
		}
		return nil
	})
	if err != nil {
		return 0, translate(err, "mint failed")
	}

	span.SetAttributes(attribute.Int64("token.id", int64(tokenID)))
	s.logger.InfoContext(ctx, "token minted",
		"token_id", tokenID,
		"holder", to,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emit(ctx, events.Event{
		Kind:  events.KindMinted,
		Token: tokenID,
		Data:  initialData,
	})
	if s.metrics != nil {
		s.metrics.MintsTotal.Inc()
		s.metrics.ObserveMint(start)
	}
	return tokenID, nil
}

// Burn removes the caller's token permanently. The identifier is never
// reissued. Burn emits no dedicated observation; the base ledger primitive's
// own transfer-to-null event covers it downstream.
func (s *Service) Burn(ctx context.Context, tokenID id.TokenID, caller id.Address) error {
	ctx, span := s.tracer.Start(ctx, "registry.Burn")
	defer span.End()

	holds, err := s.gate.IsHolder(ctx, tokenID, caller)
	if err != nil {
		return translate(err, "burn failed")
	}
	if !holds {
		return dErrors.New(dErrors.CodeNotHolder, "caller does not hold this token")
	}

	// The gate answered outside the ledger's atomicity boundary; the allow
	// callback re-checks under it so a racing transfer cannot slip through.
	err = s.ledger.Burn(ctx, tokenID, func(holder id.Address) error {
		if holder != caller {
			return dErrors.New(dErrors.CodeNotHolder, "caller does not hold this token")
		}
		return nil
	})
	if err != nil {
		return translate(err, "burn failed")
	}

	s.logger.InfoContext(ctx, "token burned",
		"token_id", tokenID,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.uris != nil {
		if cerr := s.uris.Invalidate(ctx, tokenID); cerr != nil {
			s.logger.WarnContext(ctx, "uri cache invalidation failed", "token_id", tokenID, "error", cerr)
		}
	}
	if s.metrics != nil {
		s.metrics.BurnsTotal.Inc()
	}
	return nil
}

// ResolveDefault resolves a live token's metadata URI against the registry's
// configured base. This is the only resolution path that consults the cache.
func (s *Service) ResolveDefault(ctx context.Context, tokenID id.TokenID) (string, error) {
	ctx, span := s.tracer.Start(ctx, "registry.ResolveDefault")
	defer span.End()
	start := time.Now()
	defer s.observeResolve(start)

	if s.uris != nil {
		cached, err := s.uris.Get(ctx, tokenID)
		if err != nil {
			s.logger.WarnContext(ctx, "uri cache read failed", "token_id", tokenID, "error", err)
		}
		if cached != "" {
			// A cached entry implies the token existed when cached; burn
			// invalidates, so a hit is safe to serve without a ledger read.
			if s.metrics != nil {
				s.metrics.URICacheHits.Inc()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.URICacheMisses.Inc()
		}
	}

	st, err := s.ledger.State(ctx)
	if err != nil {
		return "", translate(err, "resolve failed")
	}
	uri, err := s.composeFor(ctx, tokenID, st.BaseURI, st.BaseExtension)
	if err != nil {
		return "", err
	}

	if s.uris != nil {
		if cerr := s.uris.Set(ctx, tokenID, uri); cerr != nil {
			s.logger.WarnContext(ctx, "uri cache write failed", "token_id", tokenID, "error", cerr)
		}
	}
	return uri, nil
}

// ResolveWithBase resolves a live token's metadata URI against a
// caller-supplied base, bypassing the configured base URI but keeping the
// configured extension.
func (s *Service) ResolveWithBase(ctx context.Context, tokenID id.TokenID, customBase string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "registry.ResolveWithBase")
	defer span.End()
	start := time.Now()
	defer s.observeResolve(start)

	st, err := s.ledger.State(ctx)
	if err != nil {
		return "", translate(err, "resolve failed")
	}
	return s.composeFor(ctx, tokenID, customBase, st.BaseExtension)
}

// ResolveWithExternal hands resolution to the supplied capability. The
// capability owns validation on this path; the registry does not check
// existence first.
func (s *Service) ResolveWithExternal(ctx context.Context, tokenID id.TokenID, ext resolver.TokenURIResolver) (string, error) {
	ctx, span := s.tracer.Start(ctx, "registry.ResolveWithExternal")
	defer span.End()
	start := time.Now()
	defer s.observeResolve(start)

	uri, err := ext.TokenURI(ctx, tokenID)
	if err != nil {
		return "", translate(err, "external resolution failed")
	}
	return uri, nil
}

// composeFor checks existence, reads the home chain id, and composes the URI.
func (s *Service) composeFor(ctx context.Context, tokenID id.TokenID, base, ext string) (string, error) {
	if _, err := s.ledger.Holder(ctx, tokenID); err != nil {
		return "", translate(err, "resolve failed")
	}
	chainID, err := s.chain.ChainID(ctx)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "home chain id unavailable")
	}
	return resolver.Compose(base, chainID, tokenID, ext), nil
}

// SetBaseURI replaces the configured base URI. Administrator only.
func (s *Service) SetBaseURI(ctx context.Context, newURI string, caller id.Address) error {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}
	old, err := s.ledger.SetBaseURI(ctx, newURI)
	if err != nil {
		return translate(err, "set base uri failed")
	}
	s.afterConfigChange(ctx, old, newURI)
	return nil
}

// SetBaseExtension replaces the configured extension. Administrator only.
// It reuses the BaseURIChanged observation kind: both setters reconfigure
// the same resolution surface.
func (s *Service) SetBaseExtension(ctx context.Context, newExt string, caller id.Address) error {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}
	old, err := s.ledger.SetBaseExtension(ctx, newExt)
	if err != nil {
		return translate(err, "set base extension failed")
	}
	s.afterConfigChange(ctx, old, newExt)
	return nil
}

// NotifyUpdated emits a refresh hint for one token. No state mutation, no
// authorization: any observer may ask indexers to re-read metadata.
func (s *Service) NotifyUpdated(ctx context.Context, tokenID id.TokenID) {
	s.emit(ctx, events.Event{
		Kind:  events.KindMetadataUpdate,
		Token: tokenID,
	})
	if s.uris != nil {
		if err := s.uris.Invalidate(ctx, tokenID); err != nil {
			s.logger.WarnContext(ctx, "uri cache invalidation failed", "token_id", tokenID, "error", err)
		}
	}
}

// NotifyBatchUpdated emits a refresh hint for an inclusive id range.
func (s *Service) NotifyBatchUpdated(ctx context.Context, fromID, toID id.TokenID) {
	s.emit(ctx, events.Event{
		Kind:      events.KindBatchMetadataUpdate,
		FromToken: fromID,
		ToToken:   toID,
	})
	if s.uris != nil && fromID <= toID {
		if err := s.uris.InvalidateRange(ctx, fromID, toID); err != nil {
			s.logger.WarnContext(ctx, "uri cache invalidation failed", "from", fromID, "to", toID, "error", err)
		}
	}
}

// Holder returns the current holder of a live token.
func (s *Service) Holder(ctx context.Context, tokenID id.TokenID) (id.Address, error) {
	holder, err := s.ledger.Holder(ctx, tokenID)
	if err != nil {
		return id.Address{}, translate(err, "holder lookup failed")
	}
	return holder, nil
}

// NextID returns the identifier the next successful mint will be assigned.
func (s *Service) NextID(ctx context.Context) (id.TokenID, error) {
	st, err := s.ledger.State(ctx)
	if err != nil {
		return 0, translate(err, "state read failed")
	}
	return st.NextID, nil
}

// TotalSupply returns the count of currently live tokens.
func (s *Service) TotalSupply(ctx context.Context) (uint64, error) {
	st, err := s.ledger.State(ctx)
	if err != nil {
		return 0, translate(err, "state read failed")
	}
	return st.LiveCount, nil
}

// BaseURI returns the configured base URI.
func (s *Service) BaseURI(ctx context.Context) (string, error) {
	st, err := s.ledger.State(ctx)
	if err != nil {
		return "", translate(err, "state read failed")
	}
	return st.BaseURI, nil
}

// BaseExtension returns the configured extension.
func (s *Service) BaseExtension(ctx context.Context) (string, error) {
	st, err := s.ledger.State(ctx)
	if err != nil {
		return "", translate(err, "state read failed")
	}
	return st.BaseExtension, nil
}

func (s *Service) requireAdministrator(ctx context.Context, caller id.Address) error {
	ok, err := s.gate.IsAdministrator(ctx, caller)
	if err != nil {
		return translate(err, "administrator check failed")
	}
	if !ok {
		return dErrors.New(dErrors.CodeNotAuthorized, "caller lacks the administrator capability")
	}
	return nil
}

func (s *Service) afterConfigChange(ctx context.Context, old, updated string) {
	s.emit(ctx, events.Event{
		Kind:     events.KindBaseURIChanged,
		OldValue: old,
		NewValue: updated,
	})
	if s.uris != nil {
		if err := s.uris.InvalidateAll(ctx); err != nil {
			s.logger.WarnContext(ctx, "uri cache flush failed", "error", err)
		}
	}
}

// emit delivers an observation best-effort. Failures are logged and never
// propagate to the mutation that produced the observation.
func (s *Service) emit(ctx context.Context, ev events.Event) {
	ev.ID = uuid.New()
	ev.At = requestcontext.Now(ctx)
	ev.RequestID = requestcontext.RequestID(ctx)
	if err := s.emitter.Emit(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "observation emit failed",
			"kind", ev.Kind,
			"event_id", ev.ID,
			"error", err,
		)
	}
	if s.metrics != nil {
		s.metrics.EventsEmitted.WithLabelValues(string(ev.Kind)).Inc()
	}
}

func (s *Service) observeResolve(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveResolve(start)
	}
}

// translate maps sentinel errors to coded domain errors and passes already
// coded errors through unchanged, so codes raised inside ledger callbacks
// survive the trip.
func translate(err error, msg string) error {
	if dErrors.IsCoded(err) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "no live record for this token")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
