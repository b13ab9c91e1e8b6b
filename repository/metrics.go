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

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomoncle/sieve/pagination"
	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

const (
	opFetch = "fetch"
	opCount = "count"
)

var (
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sieve_store_operations_total",
			Help: "Total number of store fetch and count operations",
		},
		[]string{"store", "operation"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sieve_store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"store", "operation"},
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sieve_store_errors_total",
			Help: "Total number of failed store operations",
		},
		[]string{"store", "operation", "kind"},
	)

	StoreRowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sieve_store_rows_fetched_total",
			Help: "Total number of rows returned by fetch operations",
		},
		[]string{"store"},
	)
)

// InstrumentedStore records prometheus metrics around another store.
type InstrumentedStore[T any] struct {
	name string
	next pagination.Store[T]
}

// Instrument wraps next, labelling its metrics with name.
func Instrument[T any](name string, next pagination.Store[T]) *InstrumentedStore[T] {
	return &InstrumentedStore[T]{name: name, next: next}
}

func (s *InstrumentedStore[T]) Fetch(ctx context.Context, p *predicate.Predicate, orders []types.Order, offset, limit int) ([]T, error) {
	start := time.Now()
	rows, err := s.next.Fetch(ctx, p, orders, offset, limit)
	s.observe(opFetch, start, err)
	if err == nil {
		StoreRowsFetched.WithLabelValues(s.name).Add(float64(len(rows)))
	}
	return rows, err
}

func (s *InstrumentedStore[T]) Count(ctx context.Context, p *predicate.Predicate) (int64, error) {
	start := time.Now()
	total, err := s.next.Count(ctx, p)
	s.observe(opCount, start, err)
	return total, err
}

func (s *InstrumentedStore[T]) observe(operation string, start time.Time, err error) {
	StoreOperationsTotal.WithLabelValues(s.name, operation).Inc()
	StoreOperationDuration.WithLabelValues(s.name, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreErrorsTotal.WithLabelValues(s.name, operation, errorKind(err)).Inc()
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, types.ErrUnsupportedOperator):
		return "unsupported"
	case errors.Is(err, types.ErrInvalidPageRequest):
		return "invalid"
	case errors.Is(err, types.ErrStoreUnavailable):
		return "unavailable"
	}
	return "other"
}
