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
	"sort"
	"sync"

	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

// MemoryStore keeps records in memory and evaluates predicates in process.
// Rows keep insertion order unless orders are given.
type MemoryStore struct {
	mu      sync.RWMutex
	records []types.Record
}

// NewMemoryStore returns a store holding records.
func NewMemoryStore(records ...types.Record) *MemoryStore {
	s := &MemoryStore{}
	s.Add(records...)
	return s
}

// Add appends records.
func (s *MemoryStore) Add(records ...types.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, records...)
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Fetch(ctx context.Context, p *predicate.Predicate, orders []types.Order, offset, limit int) ([]types.Record, error) {
	matched, err := s.match(ctx, p)
	if err != nil {
		return nil, err
	}
	if err = sortRecords(matched, orders); err != nil {
		return nil, err
	}
	if offset >= len(matched) {
		return []types.Record{}, nil
	}
	end := len(matched)
	if limit < end-offset {
		end = offset + limit
	}
	return matched[offset:end], nil
}

func (s *MemoryStore) Count(ctx context.Context, p *predicate.Predicate) (int64, error) {
	matched, err := s.match(ctx, p)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

func (s *MemoryStore) match(ctx context.Context, p *predicate.Predicate) ([]types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	matched := make([]types.Record, 0, len(s.records))
	for _, r := range s.records {
		ok, err := p.Eval(r)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// sortRecords orders rows in place. Missing values sort first ascending.
func sortRecords(rows []types.Record, orders []types.Order) error {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	var sortErr error
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a, aok := rows[i].Lookup(o.Field)
			b, bok := rows[j].Lookup(o.Field)
			var c int
			switch {
			case a == nil || !aok:
				if b != nil && bok {
					c = -1
				}
			case b == nil || !bok:
				c = 1
			default:
				var err error
				if c, err = predicate.Compare(a, b); err != nil {
					if sortErr == nil {
						sortErr = fmt.Errorf("%w: sort by %s: %w", types.ErrInvalidPageRequest, o.Field, err)
					}
					return false
				}
			}
			if c == 0 {
				continue
			}
			if o.Direction == types.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return sortErr
}
