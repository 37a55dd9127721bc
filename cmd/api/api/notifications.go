package api

import "net/http"

// ListNotifications returns recent vendor error notifications, newest
// last.
func (s *ApiService) ListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Notifier.Events())
}
