package preset

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Environment variables honored by preset loaders.
const (
	EnvCacheDir    = "WEFT_CACHE_DIR"
	EnvAssetBase   = "WEFT_ASSET_BASE"
	EnvOffline     = "WEFT_OFFLINE"
	EnvHTTPTimeout = "WEFT_HTTP_TIMEOUT"
)

const defaultHTTPTimeout = 2 * time.Minute

// Asset is one downloadable preset file, pinned to a digest. Nothing
// enters the cache without matching it.
type Asset struct {
	Name   string
	URL    string
	SHA256 string
}

func cacheDir() (string, error) {
	if d := os.Getenv(EnvCacheDir); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", err
		}
		return d, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	dir := filepath.Join(base, "weft", "presets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func assetURL(presetName string, a Asset) string {
	base := os.Getenv(EnvAssetBase)
	if base == "" {
		return a.URL
	}
	return strings.TrimSuffix(base, "/") + "/" + presetName + "/" + a.Name
}

func httpTimeout() time.Duration {
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return defaultHTTPTimeout
}

// fetch returns the local path of an asset, downloading it on a cache
// miss. Files already in the cache are trusted: the digest gate runs on
// the way in.
func fetch(ctx context.Context, presetName string, a Asset) (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, presetName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, a.Name)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if os.Getenv(EnvOffline) == "1" {
		return "", fmt.Errorf("preset %s: %s missing from cache and %s=1; prefetch it or point %s at a mirror",
			presetName, a.Name, EnvOffline, EnvAssetBase)
	}
	if err := download(ctx, assetURL(presetName, a), path, a.SHA256); err != nil {
		return "", fmt.Errorf("preset %s: %s: %w", presetName, a.Name, err)
	}
	return path, nil
}

// download writes to a temp file, verifies the digest and only then moves
// the file into place, so a mismatch never leaves a trusted-looking file
// behind.
func download(ctx context.Context, url, dest, wantSHA string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	client := &http.Client{Timeout: httpTimeout()}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), resp.Body); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	got := fmt.Sprintf("%x", h.Sum(nil))
	if wantSHA != "" && !strings.EqualFold(got, wantSHA) {
		return fmt.Errorf("digest mismatch: got %s want %s", got, wantSHA)
	}
	return os.Rename(tmp.Name(), dest)
}
