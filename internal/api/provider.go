package api

import (
	"context"
	"strings"
	"sync"

	"github.com/samcharles93/weft/pkg/preset"
	"github.com/samcharles93/weft/pkg/tokenizer"
)

// TokenizerProvider resolves a preset name to a loaded tokenizer. An
// empty name selects the provider's default preset.
type TokenizerProvider interface {
	Tokenizer(ctx context.Context, presetName string) (*tokenizer.Tokenizer, string, error)
}

// ProviderConfig configures a CachedTokenizerProvider.
type ProviderConfig struct {
	// DefaultPreset is used when a request names no preset.
	DefaultPreset string
	// Load replaces preset.Load when set. Tests use this to avoid
	// touching the asset cache.
	Load func(ctx context.Context, name string) (*tokenizer.Tokenizer, error)
}

// CachedTokenizerProvider loads each preset once and shares the
// instance across requests. Tokenizers are safe for concurrent use, so
// no per-entry locking is needed after the load.
type CachedTokenizerProvider struct {
	cfg   ProviderConfig
	mu    sync.Mutex
	cache map[string]*tokenizer.Tokenizer
}

func NewCachedTokenizerProvider(cfg ProviderConfig) *CachedTokenizerProvider {
	if cfg.Load == nil {
		cfg.Load = preset.Load
	}
	return &CachedTokenizerProvider{
		cfg:   cfg,
		cache: make(map[string]*tokenizer.Tokenizer),
	}
}

func (p *CachedTokenizerProvider) Tokenizer(ctx context.Context, presetName string) (*tokenizer.Tokenizer, string, error) {
	name, err := p.resolvePreset(presetName)
	if err != nil {
		return nil, "", err
	}

	p.mu.Lock()
	tok, ok := p.cache[name]
	p.mu.Unlock()
	if ok {
		return tok, name, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	loaded, err := p.cfg.Load(ctx, name)
	if err != nil {
		return nil, "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.cache[name]; ok {
		return existing, name, nil
	}
	p.cache[name] = loaded
	return loaded, name, nil
}

func (p *CachedTokenizerProvider) resolvePreset(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name != "" {
		return name, nil
	}
	if p.cfg.DefaultPreset != "" {
		return p.cfg.DefaultPreset, nil
	}
	return "", newInvalidRequest("preset is required")
}
