package browser

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Options configures how a backend connects to or launches a browser.
type Options struct {
	RemoteURL string        // WebDriver hub or DevTools endpoint; empty launches a local browser
	Browser   string        // Browser name, e.g. "chrome", "firefox" (backend specific)
	Headless  bool          // Launch without a visible window
	Timeout   time.Duration // Per-command timeout used by backends with their own waits (0 = backend default)
}

// OpenFunc creates a Driver for a backend.
type OpenFunc func(opts Options) (Driver, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]OpenFunc{}
)

// Register makes a backend available by name. Backend packages call it from
// init(); see internal/browser/selenium/init.go.
func Register(name string, open OpenFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[strings.ToLower(name)] = open
}

// Backends lists registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Open starts a Driver using the named backend.
func Open(name string, opts Options) (Driver, error) {
	backendsMu.RLock()
	open, ok := backends[strings.ToLower(name)]
	backendsMu.RUnlock()
	if !ok {
		known := Backends()
		if len(known) == 0 {
			return nil, fmt.Errorf("unknown browser backend %q: no backends compiled in", name)
		}
		return nil, fmt.Errorf("unknown browser backend %q (available: %s)", name, strings.Join(known, ", "))
	}
	d, err := open(opts)
	if err != nil {
		return nil, Wrap("open "+name, err)
	}
	return d, nil
}
