/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package pagination

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

// Store fetches and counts records matching a predicate. A nil predicate
// matches every record.
type Store[T any] interface {
	Fetch(ctx context.Context, p *predicate.Predicate, orders []types.Order, offset, limit int) ([]T, error)
	Count(ctx context.Context, p *predicate.Predicate) (int64, error)
}

// Executor runs paged queries against a Store. It holds no per-call state
// and is safe for concurrent use.
type Executor[T any] struct {
	store           Store[T]
	concurrentCount bool
}

// Option configures an Executor.
type Option func(*options)

type options struct {
	concurrentCount bool
}

// WithConcurrentCount makes AlwaysCount issue the content and count queries
// in parallel instead of one after the other.
func WithConcurrentCount(enabled bool) Option {
	return func(o *options) { o.concurrentCount = enabled }
}

// NewExecutor returns an executor bound to store.
func NewExecutor[T any](store Store[T], opts ...Option) *Executor[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return &Executor[T]{store: store, concurrentCount: o.concurrentCount}
}

// ExecutePage fetches the window described by req and derives total and
// hasNext according to strategy. Invalid requests fail before the store is
// touched; store errors are returned unchanged apart from context wrapping.
func (e *Executor[T]) ExecutePage(ctx context.Context, p *predicate.Predicate, req *types.PageRequest, strategy types.CountStrategy) (*types.Page[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	switch strategy {
	case types.AlwaysCount:
		return e.alwaysCount(ctx, p, req)
	case types.DeferredCount:
		return e.deferredCount(ctx, p, req)
	case types.NoCount:
		return e.noCount(ctx, p, req)
	}
	return nil, fmt.Errorf("%w: unknown count strategy %d", types.ErrInvalidPageRequest, int(strategy))
}

func (e *Executor[T]) alwaysCount(ctx context.Context, p *predicate.Predicate, req *types.PageRequest) (*types.Page[T], error) {
	var (
		content []T
		total   int64
	)
	if e.concurrentCount {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			content, err = e.fetch(gctx, p, req, req.GetSize())
			return err
		})
		g.Go(func() (err error) {
			total, err = e.count(gctx, p)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if content, err = e.fetch(ctx, p, req, req.GetSize()); err != nil {
			return nil, err
		}
		if total, err = e.count(ctx, p); err != nil {
			return nil, err
		}
	}
	return counted(content, req, total), nil
}

func (e *Executor[T]) deferredCount(ctx context.Context, p *predicate.Predicate, req *types.PageRequest) (*types.Page[T], error) {
	content, err := e.fetch(ctx, p, req, req.GetSize())
	if err != nil {
		return nil, err
	}
	if total, ok := InferTotal(req.GetOffset(), req.GetSize(), len(content)); ok {
		return counted(content, req, total), nil
	}
	total, err := e.count(ctx, p)
	if err != nil {
		return nil, err
	}
	return counted(content, req, total), nil
}

func (e *Executor[T]) noCount(ctx context.Context, p *predicate.Predicate, req *types.PageRequest) (*types.Page[T], error) {
	size := req.GetSize()
	limit := size
	if size < math.MaxInt {
		// one extra row reveals a following page
		limit = size + 1
	}
	content, err := e.fetch(ctx, p, req, limit)
	if err != nil {
		return nil, err
	}
	hasNext := len(content) > size
	if hasNext {
		content = content[:size]
	}
	return types.NewPage(content, req, nil, hasNext), nil
}

func (e *Executor[T]) fetch(ctx context.Context, p *predicate.Predicate, req *types.PageRequest, limit int) ([]T, error) {
	content, err := e.store.Fetch(ctx, p, req.GetOrders(), req.GetOffset(), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch page content: %w", err)
	}
	return content, nil
}

func (e *Executor[T]) count(ctx context.Context, p *predicate.Predicate) (int64, error) {
	total, err := e.store.Count(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("count matching records: %w", err)
	}
	return total, nil
}

func counted[T any](content []T, req *types.PageRequest, total int64) *types.Page[T] {
	hasNext := int64(req.GetOffset()+len(content)) < total
	return types.NewPage(content, req, &total, hasNext)
}

// InferTotal reports the exact total when a page of n rows fetched at offset
// with the given size already proves it: a short first page holds everything,
// and a short non-empty later page is the last one. An empty page past the
// first cannot tell whether the offset overshot the data, so it is not inferred.
func InferTotal(offset, size, n int) (int64, bool) {
	if n >= size {
		return 0, false
	}
	if offset == 0 {
		return int64(n), true
	}
	if n > 0 {
		return int64(offset + n), true
	}
	return 0, false
}
