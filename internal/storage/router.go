package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// Router dispatches Put to the store registered for the locator's scheme.
type Router struct {
	mu     sync.RWMutex
	stores map[string]fxload.ObjectStore
}

func NewRouter() *Router {
	return &Router{stores: make(map[string]fxload.ObjectStore)}
}

// Register binds a store to a scheme, replacing any previous binding.
func (r *Router) Register(scheme string, store fxload.ObjectStore) {
	if store == nil {
		panic("store cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[scheme] = store
}

func (r *Router) Put(ctx context.Context, locator string, body []byte) error {
	scheme := Scheme(locator)
	r.mu.RLock()
	store, ok := r.stores[scheme]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no object store registered for scheme %q (locator %s)", scheme, locator)
	}
	return store.Put(ctx, locator, body)
}

// New builds a Router for the scheme of baseURI. The S3 client is only
// created when the URI needs it, so file-based runs carry no AWS setup.
func New(ctx context.Context, baseURI string, s3cfg S3Config) (*Router, error) {
	router := NewRouter()
	router.Register(SchemeFile, NewFileStore())

	switch Scheme(baseURI) {
	case SchemeS3:
		s3store, err := NewS3Store(ctx, s3cfg)
		if err != nil {
			return nil, err
		}
		router.Register(SchemeS3, s3store)
	case SchemeFile:
	default:
		return nil, fmt.Errorf("unsupported storage URI %q: want s3:// or file://", baseURI)
	}
	return router, nil
}
