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
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/pagination"
	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

type baseRepositoryImpl[T any] struct {
	db    *bun.DB
	store *BunStore[T]
	exec  *pagination.Executor[T]
}

// NewRepository returns a generic repository backed by the provided Bun DB.
// Predicates address the model's own columns by name.
func NewRepository[T any](db *bun.DB, opts ...StoreOption) Repository[T] {
	store := NewBunStore[T](db, InferFieldMapping[T](db), opts...)
	return &baseRepositoryImpl[T]{
		db:    db,
		store: store,
		exec:  pagination.NewExecutor[T](store),
	}
}

func (r *baseRepositoryImpl[T]) Store() pagination.Store[T] { return r.store }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, p *predicate.Predicate, orders ...types.Order) ([]*T, error) {
	var entities []*T
	query, err := applyPredicate(r.db.NewSelect().Model(&entities), p, r.store.Fields())
	if err != nil {
		return nil, err
	}
	if query, err = applyOrders(query, orders, r.store.Fields()); err != nil {
		return nil, err
	}
	if err = query.Scan(ctx); err != nil {
		return nil, database.ClassifyStoreError(err)
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Where(query, args...).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, p *predicate.Predicate) (int64, error) {
	return r.store.Count(ctx, p)
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, p *predicate.Predicate, page *types.PageRequest, strategy types.CountStrategy) (*types.Page[T], error) {
	return r.exec.ExecutePage(ctx, p, page, strategy)
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	return r.CreateWithTx(ctx, nil, entity...)
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, conflictKeys []string, entity ...*T) error {
	return r.UpsertWithTx(ctx, nil, fields, conflictKeys, entity...)
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	return r.UpdateWithTx(ctx, nil, entity)
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	return r.DeleteWithTx(ctx, nil, id)
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := append([]*T(nil), entity...)
	_, err := r.idb(tx).NewInsert().Model(&entities).Exec(ctx)
	return err
}

// UpsertWithTx inserts entities, overwriting fields of rows that collide on
// conflictKeys (default "id"). MySQL ignores conflictKeys and relies on its
// unique indexes.
func (r *baseRepositoryImpl[T]) UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, conflictKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entity) == 0 {
		return nil
	}
	entities := append([]*T(nil), entity...)
	query := r.idb(tx).NewInsert().Model(&entities)

	var set []string
	switch {
	case r.db.HasFeature(feature.InsertOnConflict):
		if len(conflictKeys) == 0 {
			conflictKeys = []string{"id"}
		}
		for _, field := range fields {
			set = append(set, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
		}
		query = query.On("CONFLICT (" + strings.Join(conflictKeys, ",") + ") DO UPDATE").Set(strings.Join(set, ", "))
	case r.db.HasFeature(feature.InsertOnDuplicateKey):
		for _, field := range fields {
			set = append(set, fmt.Sprintf("%s = VALUES(%s)", field, field))
		}
		query = query.On("DUPLICATE KEY UPDATE " + strings.Join(set, ", "))
	default:
		return fmt.Errorf("dialect %s does not support upsert", r.db.Dialect().Name())
	}
	_, err := query.Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	_, err := r.idb(tx).NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	var entity T
	_, err := r.idb(tx).NewDelete().Model(&entity).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) idb(tx *bun.Tx) bun.IDB {
	if tx != nil {
		return tx
	}
	return r.db
}
