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
package member

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve"
	"github.com/tomoncle/sieve/pagination"
	"github.com/tomoncle/sieve/repository"
	"github.com/tomoncle/sieve/types"
)

// Service searches members by SearchCondition.
type Service struct {
	search sieve.Service[MemberTeam]
}

// NewService returns a Service over store.
func NewService(store pagination.Store[MemberTeam], opts sieve.Options) *Service {
	return &Service{search: sieve.NewStoreService[MemberTeam](store, opts)}
}

// NewDefaultService returns a Service over the instrumented member/team
// projection of db.
func NewDefaultService(db bun.IDB, opts sieve.Options) *Service {
	return NewService(repository.Instrument[MemberTeam]("members", NewStore(db)), opts)
}

// Search returns the members matching cond, bounded by the unpaged limit.
func (s *Service) Search(ctx context.Context, cond SearchCondition, orders ...types.Order) ([]MemberTeam, error) {
	return s.search.Find(ctx, ComposePredicate(cond), orders...)
}

// SearchPage returns one page of the members matching cond.
func (s *Service) SearchPage(ctx context.Context, cond SearchCondition, req *types.PageRequest, strategy types.CountStrategy) (*types.Page[MemberTeam], error) {
	return s.search.Page(ctx, ComposePredicate(cond), req, strategy)
}

// Count returns the number of members matching cond.
func (s *Service) Count(ctx context.Context, cond SearchCondition) (int64, error) {
	return s.search.Count(ctx, ComposePredicate(cond))
}
