package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/vpsdeck/vpsdeck/lib/provider"
)

type providerInfo struct {
	Id          string                    `json:"id"`
	Name        string                    `json:"name"`
	Logo        string                    `json:"logo"`
	Description string                    `json:"description"`
	Features    []provider.Feature        `json:"features"`
	Routes      map[string]provider.Route `json:"routes"`
}

func describe(p provider.Provider) providerInfo {
	return providerInfo{
		Id:          p.Id(),
		Name:        p.Name(),
		Logo:        p.Logo(),
		Description: p.Description(),
		Features:    p.Features(),
		Routes:      p.Routes(),
	}
}

// ListProviders returns every registered provider descriptor.
func (s *ApiService) ListProviders(w http.ResponseWriter, r *http.Request) {
	infos := lo.Map(s.Registry.Providers(), func(p provider.Provider, _ int) providerInfo {
		return describe(p)
	})
	writeJSON(w, http.StatusOK, infos)
}

// GetProvider returns one provider descriptor.
func (s *ApiService) GetProvider(w http.ResponseWriter, r *http.Request) {
	p, err := s.Registry.Provider(chi.URLParam(r, "providerId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "provider not registered")
		return
	}
	writeJSON(w, http.StatusOK, describe(p))
}

// GetProviderComponent resolves a named UI component for a provider.
func (s *ApiService) GetProviderComponent(w http.ResponseWriter, r *http.Request) {
	p, err := s.Registry.Provider(chi.URLParam(r, "providerId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "provider not registered")
		return
	}
	component, err := p.Component(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err, "resolve component")
		return
	}
	writeJSON(w, http.StatusOK, component)
}

// ListRoutes returns the merged route table across all providers.
func (s *ApiService) ListRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Registry.Routes())
}
