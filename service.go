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
package sieve

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/pagination"
	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/repository"
	"github.com/tomoncle/sieve/types"
	"github.com/tomoncle/sieve/utils"
)

type Service[T any] interface {
	// Find returns records matching p, at most Options.UnpagedLimit of them.
	Find(ctx context.Context, p *predicate.Predicate, orders ...types.Order) ([]T, error)

	// Page returns one page of records matching p. A nil request asks for the
	// first page of the default size; a zero strategy uses the default one.
	Page(ctx context.Context, p *predicate.Predicate, req *types.PageRequest, strategy types.CountStrategy) (*types.Page[T], error)

	// Count returns the number of records matching p.
	Count(ctx context.Context, p *predicate.Predicate) (int64, error)
}

// Options bounds what callers may ask of a Service.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	UnpagedLimit    int
	DefaultStrategy types.CountStrategy
	ConcurrentCount bool
}

// DefaultOptions returns 20 rows per page, at most 1000 rows per request and
// deferred counting.
func DefaultOptions() Options {
	return Options{
		DefaultPageSize: 20,
		MaxPageSize:     1000,
		UnpagedLimit:    1000,
		DefaultStrategy: types.DeferredCount,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DefaultPageSize <= 0 {
		o.DefaultPageSize = def.DefaultPageSize
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = def.MaxPageSize
	}
	if o.UnpagedLimit <= 0 {
		o.UnpagedLimit = def.UnpagedLimit
	}
	if !o.DefaultStrategy.IsValid() {
		o.DefaultStrategy = def.DefaultStrategy
	}
	return o
}

type baseServiceImpl[T any] struct {
	opts   Options
	logger *logrus.Logger

	once    sync.Once
	storeFn func() pagination.Store[T]
	store   pagination.Store[T]
	exec    *pagination.Executor[T]
}

// NewService returns a Service over the bun model T, backed by the global
// database connection, which is resolved on first use.
func NewService[T any](opts Options) Service[T] {
	return newBaseServiceImpl[T](opts, func() pagination.Store[T] {
		return repository.NewRepository[T](database.GetDB()).Store()
	})
}

// NewStoreService returns a Service over an explicit store.
func NewStoreService[T any](store pagination.Store[T], opts Options) Service[T] {
	return newBaseServiceImpl[T](opts, func() pagination.Store[T] { return store })
}

func newBaseServiceImpl[T any](opts Options, storeFn func() pagination.Store[T]) *baseServiceImpl[T] {
	return &baseServiceImpl[T]{
		opts:    opts.withDefaults(),
		logger:  utils.NewLogger("SIEVE"),
		storeFn: storeFn,
	}
}

func (s *baseServiceImpl[T]) init() {
	s.once.Do(func() {
		s.store = s.storeFn()
		s.exec = pagination.NewExecutor[T](s.store, pagination.WithConcurrentCount(s.opts.ConcurrentCount))
	})
}

func (s *baseServiceImpl[T]) Find(ctx context.Context, p *predicate.Predicate, orders ...types.Order) ([]T, error) {
	s.init()
	start := time.Now()
	limit := s.opts.UnpagedLimit
	rows, err := s.store.Fetch(ctx, p, orders, 0, limit)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	entry := s.logger.WithFields(logrus.Fields{
		"predicate": p.String(),
		"rows":      len(rows),
		"elapsed":   utils.Elapsed(start),
	})
	if len(rows) == limit {
		entry.WithField("limit", limit).Warn("unpaged search truncated")
	} else {
		entry.Debug("search served")
	}
	return rows, nil
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, p *predicate.Predicate, req *types.PageRequest, strategy types.CountStrategy) (*types.Page[T], error) {
	s.init()
	start := time.Now()
	if req == nil {
		req = types.NewPageRequest(0, s.opts.DefaultPageSize)
	}
	if req.GetSize() > s.opts.MaxPageSize {
		req = req.WithSize(s.opts.MaxPageSize)
	}
	if strategy == 0 {
		strategy = s.opts.DefaultStrategy
	}

	page, err := s.exec.ExecutePage(ctx, p, req, strategy)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"predicate": p.String(),
		"strategy":  strategy.String(),
		"offset":    page.Offset,
		"size":      page.Size,
		"rows":      len(page.Content),
		"total":     page.TotalOr(-1),
		"has_next":  page.HasNext,
		"elapsed":   utils.Elapsed(start),
	}).Debug("page served")
	return page, nil
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, p *predicate.Predicate) (int64, error) {
	s.init()
	return s.store.Count(ctx, p)
}
