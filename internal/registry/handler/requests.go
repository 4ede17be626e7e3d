package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	id "tokenhome/pkg/domain"
	dErrors "tokenhome/pkg/domain-errors"
)

type mintRequest struct {
	Holder string `json:"holder"`
	Data   string `json:"data,omitempty"`
	// AuxData is base64; it is passed opaquely to the receiver-safety check.
	AuxData string `json:"aux_data,omitempty"`
}

type mintResponse struct {
	ID string `json:"id"`
}

type uriResponse struct {
	URI string `json:"uri"`
}

type holderResponse struct {
	Holder string `json:"holder"`
}

type supplyResponse struct {
	TotalSupply uint64 `json:"total_supply"`
	NextID      string `json:"next_id"`
}

type configResponse struct {
	BaseURI       string `json:"base_uri"`
	BaseExtension string `json:"base_extension"`
}

type setBaseURIRequest struct {
	BaseURI string `json:"base_uri"`
}

type setBaseExtensionRequest struct {
	BaseExtension string `json:"base_extension"`
}

type batchRefreshRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "request body is not valid JSON")
	}
	return nil
}

func decodeAux(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	aux, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "aux_data must be base64")
	}
	return aux, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a coded domain error to an HTTP status. Unknown errors come
// out as 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := http.StatusInternalServerError
	description := ""

	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeInvalidRecipient:
		status = http.StatusBadRequest
	case dErrors.CodeReceiverRejected:
		status = http.StatusUnprocessableEntity
	case dErrors.CodeNotFound:
		status = http.StatusNotFound
	case dErrors.CodeNotHolder, dErrors.CodeNotAuthorized:
		status = http.StatusForbidden
	case dErrors.CodeConflict:
		status = http.StatusConflict
	}
	var derr *dErrors.Error
	if status != http.StatusInternalServerError && errors.As(err, &derr) {
		description = derr.Message
	}

	writeJSON(w, status, errorResponse{Error: string(code), Description: description})
}

func parseHolder(raw string) (id.Address, error) {
	if raw == "" {
		return id.Address{}, dErrors.New(dErrors.CodeInvalidInput, "holder is required")
	}
	return id.ParseAddress(raw)
}
