package stage

import (
	"context"
	"strings"
	"time"

	"github.com/vvka-141/fxload/pkg/fxload"
)

// Stager writes row-sets as artifacts. Writes are not retried: a failed
// write surfaces as StageWriteError and the run aborts.
type Stager struct {
	store  fxload.ObjectStore
	logger fxload.Logger
}

// New creates a Stager. Panics if store or logger is nil.
func New(store fxload.ObjectStore, logger fxload.Logger) *Stager {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Stager{store: store, logger: logger}
}

// Stage encodes rows and writes them at locator, replacing whatever was there.
func (s *Stager) Stage(ctx context.Context, rows fxload.RowSet, locator string) (fxload.ArtifactHandle, error) {
	start := time.Now()

	body, err := Encode(rows)
	if err != nil {
		return fxload.ArtifactHandle{}, &fxload.StageWriteError{Locator: locator, Err: err}
	}

	if err := s.store.Put(ctx, locator, body); err != nil {
		return fxload.ArtifactHandle{}, &fxload.StageWriteError{Locator: locator, Err: err}
	}

	handle := fxload.ArtifactHandle{
		Locator: locator,
		Rows:    len(rows),
		Bytes:   len(body),
		SHA256:  Digest(body),
	}
	s.logger.Debug("Staged %d row(s), %d bytes, sha256 %s at %s in %s",
		handle.Rows, handle.Bytes, handle.SHA256[:12], locator, time.Since(start).Round(time.Millisecond))
	return handle, nil
}

// PairLocator derives the artifact locator of one currency pair:
// "<base>/<FROM>_<TO>.csv". A trailing slash on base is ignored.
func PairLocator(base string, pair fxload.PairLabel) string {
	return strings.TrimRight(base, "/") + "/" + pair.From + "_" + pair.To + ".csv"
}
