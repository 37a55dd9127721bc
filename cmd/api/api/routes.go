package api

import (
	"github.com/go-chi/chi/v5"
	mw "github.com/vpsdeck/vpsdeck/lib/middleware"
)

// Routes mounts every authenticated endpoint on the given router. The
// account subtree runs behind the resolver so handlers never look up
// accounts themselves.
func (s *ApiService) Routes(r chi.Router) {
	r.Get("/providers", s.ListProviders)
	r.Get("/providers/{providerId}", s.GetProvider)
	r.Get("/providers/{providerId}/components/{name}", s.GetProviderComponent)
	r.Get("/routes", s.ListRoutes)

	r.Get("/notifications", s.ListNotifications)

	r.Get("/instances", s.ListAllInstances)

	r.Get("/accounts", s.ListAccounts)
	r.Post("/accounts", s.AddAccount)

	r.Route("/accounts/{accountId}", func(r chi.Router) {
		r.Use(mw.ResolveAccount(s.Accounts, AccountErrorResponder))

		r.Delete("/", s.RemoveAccount)
		r.Get("/user", s.GetAccountUser)
		r.Get("/bill", s.GetAccountBill)

		r.Get("/sshkeys", s.ListSSHKeys)
		r.Post("/sshkeys", s.CreateSSHKey)
		r.Put("/sshkeys/{keyId}", s.UpdateSSHKey)
		r.Delete("/sshkeys/{keyId}", s.DeleteSSHKey)

		r.Get("/instances", s.ListInstances)
		r.Get("/instances/{instanceId}", s.GetInstance)
		r.Get("/instances/{instanceId}/actions", s.ListInstanceActions)
		r.Post("/instances/{instanceId}/actions/{action}", s.InvokeInstanceAction)
		r.Put("/instances/{instanceId}/label", s.SetInstanceLabel)
		r.Put("/instances/{instanceId}/tag", s.SetInstanceTag)
		r.Put("/instances/{instanceId}/backups", s.SetInstanceBackups)
		r.Get("/instances/{instanceId}/backup-schedule", s.GetBackupSchedule)
		r.Put("/instances/{instanceId}/backup-schedule", s.SetBackupSchedule)

		r.Get("/snapshots", s.ListSnapshots)
		r.Delete("/snapshots/{snapshotId}", s.DeleteSnapshot)
		r.Post("/instances/{instanceId}/snapshots", s.CreateSnapshot)
		r.Post("/instances/{instanceId}/snapshots/{snapshotId}/restore", s.RestoreSnapshot)

		r.Get("/instances/{instanceId}/backups", s.ListBackups)
		r.Post("/instances/{instanceId}/backups/{backupId}/restore", s.RestoreBackup)
	})
}
