package api

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/vpsdeck/vpsdeck/lib/agent"
	"github.com/vpsdeck/vpsdeck/lib/logger"
	"github.com/vpsdeck/vpsdeck/lib/provider"
	"golang.org/x/sync/errgroup"
)

// ListAllInstances fans out across every registered account in
// parallel and merges the results. One account failing does not sink
// the whole listing; its error is reported alongside the rows that did
// come back.
func (s *ApiService) ListAllInstances(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	type accountError struct {
		Account string `json:"account"`
		Message string `json:"message"`
	}

	var (
		mu       sync.Mutex
		all      []agent.Instance
		failures []accountError
	)

	grp, ctx := errgroup.WithContext(r.Context())
	grp.SetLimit(8)

	for id, ag := range s.Accounts.Agents() {
		grp.Go(func() error {
			insts, err := ag.Instances().List(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.ErrorContext(ctx, "account listing failed", "account", id, "error", err)
				failures = append(failures, accountError{Account: id, Message: err.Error()})
				return nil
			}
			all = append(all, insts...)
			return nil
		})
	}
	_ = grp.Wait()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Provider != all[j].Provider {
			return all[i].Provider < all[j].Provider
		}
		return all[i].Id < all[j].Id
	})
	sort.Slice(failures, func(i, j int) bool { return failures[i].Account < failures[j].Account })

	writeJSON(w, http.StatusOK, map[string]any{
		"instances": all,
		"errors":    failures,
	})
}

// ListInstances lists instances for one account.
func (s *ApiService) ListInstances(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	insts, err := acct.Agent.Instances().List(r.Context())
	if err != nil {
		s.respondError(w, r, err, "list instances")
		return
	}
	writeJSON(w, http.StatusOK, insts)
}

// GetInstance gets instance details.
func (s *ApiService) GetInstance(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	inst, err := acct.Agent.Instances().Get(r.Context(), chi.URLParam(r, "instanceId"))
	if err != nil {
		s.respondError(w, r, err, "get instance")
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

// actionDescriptor is the list-actions wire shape: the action name plus
// the dialog the caller must answer before invoking it, if any.
type actionDescriptor struct {
	Name   string           `json:"name"`
	Dialog *provider.Dialog `json:"dialog,omitempty"`
}

// ListInstanceActions returns the available lifecycle actions and
// their confirmation dialogs.
func (s *ApiService) ListInstanceActions(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	inst, err := acct.Agent.Instances().Get(r.Context(), chi.URLParam(r, "instanceId"))
	if err != nil {
		s.respondError(w, r, err, "get instance")
		return
	}

	p, err := s.Registry.Provider(acct.Account.Provider)
	if err != nil {
		s.respondError(w, r, err, "resolve provider")
		return
	}

	actions := p.Actions(inst, provider.ActionDeps{Agent: acct.Agent})
	descriptors := make([]actionDescriptor, 0, len(actions))
	for _, action := range actions {
		d := actionDescriptor{Name: action.Name}
		if action.Dialog != nil {
			d.Dialog = action.Dialog()
		}
		descriptors = append(descriptors, d)
	}
	writeJSON(w, http.StatusOK, descriptors)
}

// InvokeInstanceAction runs one named action. An action carrying a
// confirmation dialog is only executed when the caller passes
// ?confirm=true; otherwise the dialog payload comes back as a 409 and
// nothing runs.
func (s *ApiService) InvokeInstanceAction(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	instanceId := chi.URLParam(r, "instanceId")
	actionName := chi.URLParam(r, "action")

	inst, err := acct.Agent.Instances().Get(r.Context(), instanceId)
	if err != nil {
		s.respondError(w, r, err, "get instance")
		return
	}

	p, err := s.Registry.Provider(acct.Account.Provider)
	if err != nil {
		s.respondError(w, r, err, "resolve provider")
		return
	}

	deps := provider.ActionDeps{
		Agent: acct.Agent,
		Dispatch: func(e provider.Event) {
			s.Notifier.Publish(acct.Account.Provider, e.Type, fmt.Sprint(e.Payload))
		},
	}

	var action *provider.Action
	for _, candidate := range p.Actions(inst, deps) {
		if candidate.Name == actionName {
			action = &candidate
			break
		}
	}
	if action == nil {
		writeError(w, http.StatusNotFound, "not_found", "action "+actionName+" not available")
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if action.Dialog != nil && !confirmed {
		if d := action.Dialog(); d != nil {
			writeJSON(w, http.StatusConflict, map[string]any{
				"code":    "confirmation_required",
				"message": "action requires confirmation; retry with ?confirm=true",
				"dialog":  d,
			})
			return
		}
	}

	result := provider.Invoke(r.Context(), *action, provider.AutoConfirm)
	switch result.Outcome {
	case provider.OutcomeSucceeded:
		writeJSON(w, http.StatusOK, result)
	case provider.OutcomePending:
		writeJSON(w, http.StatusAccepted, result)
	case provider.OutcomeCancelled:
		writeJSON(w, http.StatusConflict, result)
	default:
		s.respondError(w, r, result.Err, "invoke "+actionName)
	}
}

type labelRequest struct {
	Label string `json:"label"`
}

// SetInstanceLabel renames the instance vendor-side.
func (s *ApiService) SetInstanceLabel(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	var req labelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := acct.Agent.Instances().SetLabel(r.Context(), chi.URLParam(r, "instanceId"), req.Label); err != nil {
		s.respondError(w, r, err, "set label")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tagRequest struct {
	Tag string `json:"tag"`
}

// SetInstanceTag tags the instance vendor-side.
func (s *ApiService) SetInstanceTag(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	var req tagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := acct.Agent.Instances().SetTag(r.Context(), chi.URLParam(r, "instanceId"), req.Tag); err != nil {
		s.respondError(w, r, err, "set tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type backupsRequest struct {
	Enabled bool `json:"enabled"`
}

// SetInstanceBackups toggles automatic backups.
func (s *ApiService) SetInstanceBackups(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	var req backupsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	instances := acct.Agent.Instances()
	instanceId := chi.URLParam(r, "instanceId")

	var err error
	if req.Enabled {
		err = instances.EnableBackups(r.Context(), instanceId)
	} else {
		err = instances.DisableBackups(r.Context(), instanceId)
	}
	if err != nil {
		s.respondError(w, r, err, "toggle backups")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBackupSchedule reads the automatic backup schedule.
func (s *ApiService) GetBackupSchedule(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	schedule, err := acct.Agent.Instances().BackupSchedule(r.Context(), chi.URLParam(r, "instanceId"))
	if err != nil {
		s.respondError(w, r, err, "get backup schedule")
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// SetBackupSchedule writes the automatic backup schedule.
func (s *ApiService) SetBackupSchedule(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	var schedule agent.BackupSchedule
	if !decodeBody(w, r, &schedule) {
		return
	}
	if err := acct.Agent.Instances().SetBackupSchedule(r.Context(), chi.URLParam(r, "instanceId"), schedule); err != nil {
		s.respondError(w, r, err, "set backup schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
