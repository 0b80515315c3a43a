// Package jobs keeps the registry of named jobs. Job packages register a factory from init;
// import jobs/all to get every job.
package jobs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Vodeneev/collegetennis/internal/collector/transport"
	"github.com/Vodeneev/collegetennis/internal/collector/upsert"
	"github.com/Vodeneev/collegetennis/internal/pkg/config"
	"github.com/Vodeneev/collegetennis/internal/pkg/interfaces"
	"github.com/Vodeneev/collegetennis/internal/pkg/storage"
)

// Deps are the shared collaborators a job is built from.
type Deps struct {
	Config *config.Config
	Store  storage.Store
	Client *transport.Client
	Engine *upsert.Engine
}

type Factory func(deps Deps) interfaces.Job

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, f Factory) {
	n := normalize(name)
	if n == "" {
		panic("jobs: empty name in Register")
	}
	if f == nil {
		panic("jobs: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("jobs: duplicate registration for " + n)
	}
	registry[n] = f
}

func FactoryByName(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[normalize(name)]
	return f, ok
}

func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Build instantiates the named jobs. An empty list builds every registered job.
func Build(names []string, deps Deps) ([]interfaces.Job, error) {
	if len(names) == 0 {
		names = AvailableNames()
	}
	out := make([]interfaces.Job, 0, len(names))
	for _, name := range names {
		f, ok := FactoryByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown job %q (available: %v)", config.ErrInvalid, name, AvailableNames())
		}
		out = append(out, f(deps))
	}
	return out, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
