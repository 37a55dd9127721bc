package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/logger"
)

// ListAccounts returns the registered accounts. Credentials never
// leave the process; only derived ids and provider names go out.
func (s *ApiService) ListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Accounts.List())
}

type addAccountRequest struct {
	Provider string `json:"provider"`
	Key      string `json:"key"`
	Extra    string `json:"extra,omitempty"`
}

// AddAccount registers a credential and verifies it by fetching the
// account identity once.
func (s *ApiService) AddAccount(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req addAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Provider == "" || req.Key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "provider and key are required")
		return
	}

	acct, err := s.Accounts.Add(req.Provider, agent.Credential{Key: req.Key, Extra: req.Extra})
	if err != nil {
		log.ErrorContext(r.Context(), "failed to add account", "provider", req.Provider, "error", err)
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	_, ag, err := s.Accounts.Resolve(r.Context(), acct.Id)
	if err != nil {
		s.respondError(w, r, err, "resolve account")
		return
	}
	if _, err := ag.User(r.Context()); err != nil {
		// Credential does not work; roll the registration back.
		_ = s.Accounts.Remove(acct.Id)
		s.respondError(w, r, err, "verify credential")
		return
	}

	writeJSON(w, http.StatusCreated, acct)
}

// RemoveAccount forgets a credential.
func (s *ApiService) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.Remove(chi.URLParam(r, "accountId")); err != nil {
		s.respondError(w, r, err, "remove account")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAccountUser fetches the vendor-side identity for an account.
func (s *ApiService) GetAccountUser(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	user, err := acct.Agent.User(r.Context())
	if err != nil {
		s.respondError(w, r, err, "fetch user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetAccountBill fetches normalized billing figures.
func (s *ApiService) GetAccountBill(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	bill, err := acct.Agent.Bill(r.Context())
	if err != nil {
		s.respondError(w, r, err, "fetch bill")
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// ListSSHKeys lists the account's SSH keys.
func (s *ApiService) ListSSHKeys(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	keys, err := acct.Agent.SSHKeys(r.Context())
	if err != nil {
		s.respondError(w, r, err, "list ssh keys")
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

type sshKeyRequest struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key"`
}

// CreateSSHKey uploads a public key to the account.
func (s *ApiService) CreateSSHKey(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	var req sshKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	key, err := acct.Agent.CreateSSHKey(r.Context(), req.Name, req.PublicKey)
	if err != nil {
		s.respondError(w, r, err, "create ssh key")
		return
	}
	writeJSON(w, http.StatusCreated, key)
}

// UpdateSSHKey renames or replaces a key.
func (s *ApiService) UpdateSSHKey(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	var req sshKeyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	key := agent.SSHKey{
		Id:        chi.URLParam(r, "keyId"),
		Name:      req.Name,
		PublicKey: req.PublicKey,
	}
	if err := acct.Agent.UpdateSSHKey(r.Context(), key); err != nil {
		s.respondError(w, r, err, "update ssh key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSSHKey removes a key from the account.
func (s *ApiService) DeleteSSHKey(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	if err := acct.Agent.DestroySSHKey(r.Context(), chi.URLParam(r, "keyId")); err != nil {
		s.respondError(w, r, err, "delete ssh key")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
