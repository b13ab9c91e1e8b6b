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

	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

// SelectFunc builds the base query a BunStore filters, orders and pages.
type SelectFunc func(db bun.IDB) *bun.SelectQuery

// BunStore is a pagination.Store that translates predicates into SQL.
type BunStore[T any] struct {
	db           bun.IDB
	fields       FieldMapping
	selectFn     SelectFunc
	countFn      SelectFunc
	defaultOrder []types.Order
}

// StoreOption configures a BunStore.
type StoreOption func(*storeOptions)

type storeOptions struct {
	selectFn     SelectFunc
	countFn      SelectFunc
	defaultOrder []types.Order
}

// WithSelect replaces the base query, e.g. to project columns or add joins.
// The query must select columns that scan into T.
func WithSelect(fn SelectFunc) StoreOption {
	return func(o *storeOptions) { o.selectFn = fn }
}

// WithCountSelect sets the base query Count filters. It must expose every
// mapped field, but may drop projected columns and joins that only feed
// the content. Defaults to the select query.
func WithCountSelect(fn SelectFunc) StoreOption {
	return func(o *storeOptions) { o.countFn = fn }
}

// WithDefaultOrder is applied when a request carries no orders, which keeps
// offset paging deterministic.
func WithDefaultOrder(orders ...types.Order) StoreOption {
	return func(o *storeOptions) { o.defaultOrder = orders }
}

// NewBunStore returns a store over the bun model T. fields lists the
// predicate fields the store accepts and the columns they resolve to.
func NewBunStore[T any](db bun.IDB, fields FieldMapping, opts ...StoreOption) *BunStore[T] {
	o := storeOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.selectFn == nil {
		o.selectFn = func(db bun.IDB) *bun.SelectQuery {
			return db.NewSelect().Model((*T)(nil))
		}
	}
	if o.countFn == nil {
		o.countFn = o.selectFn
	}
	return &BunStore[T]{
		db:           db,
		fields:       fields,
		selectFn:     o.selectFn,
		countFn:      o.countFn,
		defaultOrder: o.defaultOrder,
	}
}

// Fields returns the accepted predicate fields.
func (s *BunStore[T]) Fields() FieldMapping { return s.fields }

// Fetch returns at most limit rows matching p starting at offset.
func (s *BunStore[T]) Fetch(ctx context.Context, p *predicate.Predicate, orders []types.Order, offset, limit int) ([]T, error) {
	q, err := applyPredicate(s.selectFn(s.db), p, s.fields)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		orders = s.defaultOrder
	}
	if q, err = applyOrders(q, orders, s.fields); err != nil {
		return nil, err
	}
	var rows []T
	if err = q.Offset(offset).Limit(limit).Scan(ctx, &rows); err != nil {
		return nil, database.ClassifyStoreError(err)
	}
	return rows, nil
}

// Count returns the number of rows matching p.
func (s *BunStore[T]) Count(ctx context.Context, p *predicate.Predicate) (int64, error) {
	q, err := applyPredicate(s.countFn(s.db), p, s.fields)
	if err != nil {
		return 0, err
	}
	total, err := q.Count(ctx)
	if err != nil {
		return 0, database.ClassifyStoreError(err)
	}
	return int64(total), nil
}
