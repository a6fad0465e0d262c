package provider

import (
	"github.com/japaniel/wordlookup/pkg/domain"
)

type registered struct {
	desc   domain.ProviderDescriptor
	client Client
}

// Registry resolves provider names. Built-in names form a closed set; every
// other name resolves to the local store client.
type Registry struct {
	order    []string
	builtins map[string]registered
	local    Client
}

// NewRegistry creates a registry whose unknown names go to local.
func NewRegistry(local Client) *Registry {
	return &Registry{
		builtins: make(map[string]registered),
		local:    local,
	}
}

// Register adds a built-in provider. Registering a name twice replaces it.
func (r *Registry) Register(desc domain.ProviderDescriptor, c Client) {
	if _, ok := r.builtins[desc.Name]; !ok {
		r.order = append(r.order, desc.Name)
	}
	r.builtins[desc.Name] = registered{desc: desc, client: c}
}

// Resolve returns the descriptor and client for name.
func (r *Registry) Resolve(name string) (domain.ProviderDescriptor, Client) {
	if reg, ok := r.builtins[name]; ok {
		return reg.desc, reg.client
	}
	return domain.ProviderDescriptor{Name: name, Kind: domain.KindLocalStore}, r.local
}

// Builtins returns the built-in descriptors in registration order.
func (r *Registry) Builtins() []domain.ProviderDescriptor {
	out := make([]domain.ProviderDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.builtins[name].desc)
	}
	return out
}

// Available lists the provider names usable for lang: built-ins that support
// it, then local dictionary sources of that language.
func (r *Registry) Available(lang string, sources []domain.Source) []string {
	var names []string
	for _, d := range r.Builtins() {
		if d.Supports(lang) {
			names = append(names, d.Name)
		}
	}
	for _, s := range sources {
		if s.Lang == lang && s.Type != domain.SourceTypeFreq {
			names = append(names, s.Name)
		}
	}
	return names
}

// FrequencyLists returns the names of frequency sources for lang.
func FrequencyLists(lang string, sources []domain.Source) []string {
	var names []string
	for _, s := range sources {
		if s.Lang == lang && s.Type == domain.SourceTypeFreq {
			names = append(names, s.Name)
		}
	}
	return names
}
