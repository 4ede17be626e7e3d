// Package handler exposes the registry over HTTP. Handlers stay thin: parse,
// delegate to the service, map coded errors to status.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tokenhome/internal/registry/resolver"
	"tokenhome/internal/registry/service"
	id "tokenhome/pkg/domain"
	dErrors "tokenhome/pkg/domain-errors"
	"tokenhome/pkg/requestcontext"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the public registry surface.
func (h *Handler) Register(r chi.Router) {
	r.Route("/tokens", func(r chi.Router) {
		r.Post("/", h.mint)
		r.Post("/refresh", h.batchRefresh)
		r.Route("/{tokenID}", func(r chi.Router) {
			r.Delete("/", h.burn)
			r.Get("/uri", h.resolve)
			r.Get("/holder", h.holder)
			r.Post("/refresh", h.refresh)
		})
	})
	r.Get("/supply", h.supply)
	r.Get("/config", h.config)
}

// RegisterAdmin mounts the administrative surface. Callers wrap it with the
// admin-token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Put("/base-uri", h.setBaseURI)
	r.Put("/base-extension", h.setBaseExtension)
}

func (h *Handler) mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	holder, err := parseHolder(req.Holder)
	if err != nil {
		writeError(w, err)
		return
	}
	aux, err := decodeAux(req.AuxData)
	if err != nil {
		writeError(w, err)
		return
	}

	tokenID, err := h.svc.Mint(r.Context(), holder, req.Data, aux)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mintResponse{ID: tokenID.String()})
}

func (h *Handler) burn(w http.ResponseWriter, r *http.Request) {
	tokenID, err := id.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		writeError(w, err)
		return
	}
	caller := requestcontext.Caller(r.Context())
	if caller.IsZero() {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "caller address header is required"))
		return
	}

	if err := h.svc.Burn(r.Context(), tokenID, caller); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolve picks the resolution strategy from query parameters: ?base=
// overrides the configured base, ?resolver= delegates to an external
// resolver endpoint, otherwise the default path runs.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	tokenID, err := id.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	var uri string
	switch {
	case q.Has("resolver"):
		endpoint := q.Get("resolver")
		if endpoint == "" {
			writeError(w, dErrors.New(dErrors.CodeInvalidInput, "resolver endpoint must not be empty"))
			return
		}
		uri, err = h.svc.ResolveWithExternal(r.Context(), tokenID, resolver.NewHTTPResolver(endpoint))
	case q.Has("base"):
		uri, err = h.svc.ResolveWithBase(r.Context(), tokenID, q.Get("base"))
	default:
		uri, err = h.svc.ResolveDefault(r.Context(), tokenID)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uriResponse{URI: uri})
}

func (h *Handler) holder(w http.ResponseWriter, r *http.Request) {
	tokenID, err := id.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		writeError(w, err)
		return
	}
	holder, err := h.svc.Holder(r.Context(), tokenID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, holderResponse{Holder: holder.String()})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	tokenID, err := id.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.svc.NotifyUpdated(r.Context(), tokenID)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) batchRefresh(w http.ResponseWriter, r *http.Request) {
	var req batchRefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	from, err := id.ParseTokenID(req.From)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := id.ParseTokenID(req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	if from > to {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "from must not exceed to"))
		return
	}
	h.svc.NotifyBatchUpdated(r.Context(), from, to)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) supply(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.TotalSupply(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	next, err := h.svc.NextID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, supplyResponse{TotalSupply: total, NextID: next.String()})
}

func (h *Handler) config(w http.ResponseWriter, r *http.Request) {
	base, err := h.svc.BaseURI(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	ext, err := h.svc.BaseExtension(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, configResponse{BaseURI: base, BaseExtension: ext})
}

func (h *Handler) setBaseURI(w http.ResponseWriter, r *http.Request) {
	var req setBaseURIRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := requestcontext.Caller(r.Context())
	if err := h.svc.SetBaseURI(r.Context(), req.BaseURI, caller); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setBaseExtension(w http.ResponseWriter, r *http.Request) {
	var req setBaseExtensionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	caller := requestcontext.Caller(r.Context())
	if err := h.svc.SetBaseExtension(r.Context(), req.BaseExtension, caller); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
