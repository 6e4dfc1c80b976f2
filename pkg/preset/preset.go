// Package preset is the registry of pretrained tokenizers. Entries are
// registered once at process start and looked up by name; loaders fetch
// any missing assets into the local cache and construct the tokenizer.
package preset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samcharles93/weft/pkg/tokenizer"
)

// ErrUnknown reports a preset name with no registered entry.
var ErrUnknown = errors.New("unknown preset")

// Loader builds a ready tokenizer, downloading assets if needed.
type Loader func(ctx context.Context) (*tokenizer.Tokenizer, error)

// Entry describes one registered preset.
type Entry struct {
	Description string
	Variant     string
	Load        Loader
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Entry)
)

// Register adds a preset under a unique name. Registration happens at
// init time, so an empty name, nil loader or duplicate is a programmer
// error and panics.
func Register(name string, e Entry) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" {
		panic("preset: empty name")
	}
	if e.Load == nil {
		panic("preset: nil loader for " + name)
	}
	if _, dup := registry[name]; dup {
		panic("preset: duplicate registration of " + name)
	}
	registry[name] = e
}

// Lookup returns the entry registered under name.
func Lookup(name string) (Entry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	return e, ok
}

// Names lists all registered presets, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves name and runs its loader.
func Load(ctx context.Context, name string) (*tokenizer.Tokenizer, error) {
	e, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q (known presets: %s)", ErrUnknown, name, strings.Join(Names(), ", "))
	}
	return e.Load(ctx)
}
