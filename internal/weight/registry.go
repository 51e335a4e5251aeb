package weight

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Func)
)

func init() {
	Register("uniform", func() Func { return Uniform{} })
	Register("gap", func() Func { return Gap{} })
}

// Register registers a weight policy factory under name.
func Register(name string, factory func() Func) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get returns a new instance of the policy with the given name.
func Get(name string) (Func, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("weight policy not found: %s", name)
	}
	return factory(), nil
}

// Names lists registered policies.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
