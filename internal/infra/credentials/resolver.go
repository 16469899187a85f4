package credentials

import (
	"context"
	"os"
	"strings"
)

// Source tells where a resolved key came from.
type Source string

const (
	SourceEnv    Source = "env"
	SourceStored Source = "stored"
	SourceNone   Source = "none"
)

// EnvKeys are checked in order; the first usable value wins.
var EnvKeys = []string{"GEMINI_API_KEY", "API_KEY"}

// Resolver decides which key the orchestrators receive. An environment key
// takes priority over the stored user key.
type Resolver struct {
	store  KeyStore
	lookup func(string) (string, bool)
}

func NewResolver(store KeyStore) *Resolver {
	return &Resolver{store: store, lookup: os.LookupEnv}
}

// Resolve returns the key and its source. An empty key with SourceNone is not
// an error; the orchestrators report the missing credential themselves.
func (r *Resolver) Resolve(ctx context.Context) (string, Source, error) {
	if key := r.EnvKey(); key != "" {
		return key, SourceEnv, nil
	}
	if r.store == nil {
		return "", SourceNone, nil
	}
	key, err := r.store.UserKey(ctx)
	if err != nil {
		return "", SourceNone, err
	}
	if key == "" {
		return "", SourceNone, nil
	}
	return key, SourceStored, nil
}

// EnvKey returns the first usable environment key. Template placeholders such
// as "YOUR_API_KEY" are ignored.
func (r *Resolver) EnvKey() string {
	lookup := r.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range EnvKeys {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if usable(v) {
			return v
		}
	}
	return ""
}

// Store returns the backing store.
func (r *Resolver) Store() KeyStore {
	return r.store
}

func usable(key string) bool {
	return key != "" && !strings.HasPrefix(key, "YOUR_")
}
