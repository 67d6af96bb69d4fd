// Package portability moves the whole site's content in and out as a single
// JSON bundle.
package portability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/folio/folio/backend/api/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const BundleVersion = "1.0"

type Bundle struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Data       map[string][]any `json:"data"`
}

// IncomingBundle is a bundle as read back. Each collection stays raw until
// Import decodes it, so one malformed collection cannot reject the others.
type IncomingBundle struct {
	Version    string                     `json:"version"`
	ExportedAt string                     `json:"exportedAt"`
	Data       map[string]json.RawMessage `json:"data"`
}

func (b *IncomingBundle) items(key string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(b.Data[key], &items); err != nil {
		return nil, errors.New("expected an array of documents")
	}
	return items, nil
}

// Result is the import ledger: human-readable notes, never an HTTP error.
type Result struct {
	Success []string `json:"success"`
	Failed  []string `json:"failed"`
}

type Service struct {
	collections []Collection
	byKey       map[string]Collection
}

func NewService(collections ...Collection) *Service {
	s := &Service{collections: collections, byKey: map[string]Collection{}}
	for _, c := range collections {
		s.byKey[c.Key()] = c
	}
	return s
}

// Keys lists the known collection keys in bundle order.
func (s *Service) Keys() []string {
	keys := make([]string, 0, len(s.collections))
	for _, c := range s.collections {
		keys = append(keys, c.Key())
	}
	return keys
}

// Export reads every collection concurrently. The result is not a
// point-in-time snapshot.
func (s *Service) Export(ctx context.Context) (*Bundle, error) {
	return s.collect(ctx, func(ctx context.Context, c Collection) ([]any, error) { return c.Export(ctx) })
}

// ExportFrontend is the public subset of Export with identities removed.
func (s *Service) ExportFrontend(ctx context.Context) (*Bundle, error) {
	return s.collect(ctx, func(ctx context.Context, c Collection) ([]any, error) { return c.Frontend(ctx) })
}

func (s *Service) collect(ctx context.Context, read func(context.Context, Collection) ([]any, error)) (*Bundle, error) {
	var mu sync.Mutex
	data := make(map[string][]any, len(s.collections))
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range s.collections {
		c := c
		g.Go(func() error {
			items, err := read(gctx, c)
			if err != nil {
				return fmt.Errorf("export %s: %w", c.Key(), err)
			}
			mu.Lock()
			data[c.Key()] = items
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Bundle{Version: BundleVersion, ExportedAt: time.Now().UTC(), Data: data}, nil
}

// Import optionally clears every known collection, then imports each
// collection present in b on its own. Failures are collected, not returned.
func (s *Service) Import(ctx context.Context, b *IncomingBundle, clearExisting bool) Result {
	res := Result{Success: []string{}, Failed: []string{}}
	if clearExisting {
		for _, c := range s.collections {
			n, err := c.Clear(ctx)
			if err != nil {
				logger.Errorf("import: clear %s: %v", c.Key(), err)
				res.Failed = append(res.Failed, fmt.Sprintf("%s: clear failed: %v", c.Key(), err))
				continue
			}
			logger.Debugf("import: cleared %d documents from %s", n, c.Key())
		}
	}

	for _, key := range s.importOrder(b) {
		c, ok := s.byKey[key]
		if !ok {
			res.Failed = append(res.Failed, fmt.Sprintf("%s: unknown collection", key))
			metrics.ImportItems.WithLabelValues("unknown", "rejected").Inc()
			continue
		}
		items, err := b.items(key)
		if err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", key, err))
			metrics.ImportItems.WithLabelValues(key, "failed").Inc()
			continue
		}
		n, itemFailures, err := c.Import(ctx, items)
		if err != nil {
			logger.Warnf("import: %s: %v", key, err)
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", key, err))
			metrics.ImportItems.WithLabelValues(key, "failed").Inc()
			continue
		}
		for _, f := range itemFailures {
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %s", key, f))
		}
		if n > 0 || len(itemFailures) == 0 {
			res.Success = append(res.Success, fmt.Sprintf("%s: imported %d of %d", key, n, len(items)))
			metrics.ImportItems.WithLabelValues(key, "success").Inc()
		} else {
			metrics.ImportItems.WithLabelValues(key, "failed").Inc()
		}
	}
	return res
}

// importOrder is the known keys present in b, then unknown keys sorted.
func (s *Service) importOrder(b *IncomingBundle) []string {
	var keys, unknown []string
	for _, c := range s.collections {
		if _, ok := b.Data[c.Key()]; ok {
			keys = append(keys, c.Key())
		}
	}
	for k := range b.Data {
		if _, ok := s.byKey[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return append(keys, unknown...)
}

// Summary counts the documents of every collection.
func (s *Service) Summary(ctx context.Context) (map[string]int64, error) {
	var mu sync.Mutex
	out := make(map[string]int64, len(s.collections))
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range s.collections {
		c := c
		g.Go(func() error {
			n, err := c.Count(gctx)
			if err != nil {
				return fmt.Errorf("count %s: %w", c.Key(), err)
			}
			mu.Lock()
			out[c.Key()] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
