package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vpsdeck/vpsdeck/lib/agent"
)

// ListSnapshots lists snapshots, optionally filtered to one instance
// via the instance_id query parameter. Vendors that scope snapshots to
// the whole account ignore the filter the same way their consoles do.
func (s *ApiService) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	snaps, err := acct.Agent.Snapshots().List(r.Context(), r.URL.Query().Get("instance_id"))
	if err != nil {
		s.respondError(w, r, err, "list snapshots")
		return
	}
	writeJSON(w, http.StatusOK, snaps)
}

type createSnapshotRequest struct {
	Name string `json:"name"`
}

// CreateSnapshot starts a snapshot of one instance. Vendors complete
// snapshots asynchronously, so a pending answer is the normal case and
// comes back as 202 without an id.
func (s *ApiService) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	var req createSnapshotRequest
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := acct.Agent.Snapshots().Create(r.Context(), chi.URLParam(r, "instanceId"), req.Name)
	if err != nil {
		if errors.Is(err, agent.ErrPending) {
			writeJSON(w, http.StatusAccepted, map[string]string{"status": agent.StatusPending})
			return
		}
		s.respondError(w, r, err, "create snapshot")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": agent.StatusPending})
}

// DeleteSnapshot removes a snapshot.
func (s *ApiService) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	if err := acct.Agent.Snapshots().Delete(r.Context(), chi.URLParam(r, "snapshotId")); err != nil {
		s.respondError(w, r, err, "delete snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreSnapshot restores an instance from a snapshot.
func (s *ApiService) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	err := acct.Agent.Snapshots().Restore(r.Context(), chi.URLParam(r, "instanceId"), chi.URLParam(r, "snapshotId"))
	if err != nil {
		s.respondError(w, r, err, "restore snapshot")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ListBackups lists automatic backups for one instance.
func (s *ApiService) ListBackups(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	backups, err := acct.Agent.Backups().List(r.Context(), chi.URLParam(r, "instanceId"))
	if err != nil {
		s.respondError(w, r, err, "list backups")
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

// RestoreBackup restores an instance from an automatic backup. Some
// vendors queue the restore and finish it out of band; that surfaces
// as 202.
func (s *ApiService) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	acct := s.resolved(w, r)
	if acct == nil {
		return
	}
	err := acct.Agent.Instances().RestoreBackup(r.Context(), chi.URLParam(r, "instanceId"), chi.URLParam(r, "backupId"))
	if err != nil {
		if errors.Is(err, agent.ErrPending) {
			writeJSON(w, http.StatusAccepted, map[string]string{"status": agent.StatusPending})
			return
		}
		s.respondError(w, r, err, "restore backup")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
