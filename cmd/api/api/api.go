// Package api implements the HTTP surface over the provider registry
// and the configured accounts.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vpsdeck/vpsdeck/cmd/api/config"
	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/logger"
	"github.com/vpsdeck/vpsdeck/lib/middleware"
	"github.com/vpsdeck/vpsdeck/lib/notify"
	"github.com/vpsdeck/vpsdeck/lib/provider"
)

// ApiService holds the handler dependencies.
type ApiService struct {
	Config   *config.Config
	Registry *provider.Registry
	Accounts *provider.AccountManager
	Notifier *notify.Center
}

// New creates a new ApiService
func New(
	config *config.Config,
	registry *provider.Registry,
	accounts *provider.AccountManager,
	notifier *notify.Center,
) *ApiService {
	return &ApiService{
		Config:   config,
		Registry: registry,
		Accounts: accounts,
		Notifier: notifier,
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

// respondError maps domain errors onto HTTP statuses. Vendor API
// errors come back as 502 so the caller can tell "we broke" from "the
// vendor broke".
func (s *ApiService) respondError(w http.ResponseWriter, r *http.Request, err error, what string) {
	log := logger.FromContext(r.Context())

	switch {
	case errors.Is(err, agent.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", what+" not found")
	case errors.Is(err, agent.ErrNotImplemented):
		writeError(w, http.StatusNotImplemented, "not_implemented", what+" is not supported by this provider")
	default:
		if apiErr, ok := agent.AsAPIError(err); ok {
			log.ErrorContext(r.Context(), "vendor API error",
				"provider", apiErr.Provider, "status", apiErr.StatusCode, "message", apiErr.Message)
			writeError(w, http.StatusBadGateway, "upstream_error", apiErr.Message)
			return
		}
		log.ErrorContext(r.Context(), "request failed", "error", err, "what", what)
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to "+what)
	}
}

// AccountErrorResponder adapts respondError-style output for the
// account resolver middleware.
func AccountErrorResponder(w http.ResponseWriter, err error, lookup string) {
	if errors.Is(err, agent.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "account "+lookup+" not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "failed to resolve account "+lookup)
}

// resolved pulls the account the middleware placed in context. A nil
// return means the route was mounted without the resolver, which is a
// programming error surfaced as a 500.
func (s *ApiService) resolved(w http.ResponseWriter, r *http.Request) *middleware.ResolvedAccount {
	acct := middleware.GetResolvedAccount(r.Context())
	if acct == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "no account resolved for this route")
		return nil
	}
	return acct
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return false
	}
	return true
}
