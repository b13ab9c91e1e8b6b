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
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

// spyStore serves a fixed slice and records how it was called.
type spyStore struct {
	rows       []types.Record
	fetchCalls atomic.Int32
	countCalls atomic.Int32
	lastLimit  atomic.Int64
	fetchErr   error
	countErr   error
}

func (s *spyStore) Fetch(ctx context.Context, p *predicate.Predicate, _ []types.Order, offset, limit int) ([]string, error) {
	s.fetchCalls.Add(1)
	s.lastLimit.Store(int64(limit))
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matched, err := s.match(p)
	if err != nil {
		return nil, err
	}
	if offset >= len(matched) {
		return nil, nil
	}
	if limit < len(matched)-offset {
		return matched[offset : offset+limit], nil
	}
	return matched[offset:], nil
}

func (s *spyStore) Count(ctx context.Context, p *predicate.Predicate) (int64, error) {
	s.countCalls.Add(1)
	if s.countErr != nil {
		return 0, s.countErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	matched, err := s.match(p)
	return int64(len(matched)), err
}

func (s *spyStore) match(p *predicate.Predicate) ([]string, error) {
	var out []string
	for _, r := range s.rows {
		ok, err := p.Eval(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r["username"].(string))
		}
	}
	return out, nil
}

func newSpy(n int) *spyStore {
	s := &spyStore{}
	for i := 1; i <= n; i++ {
		s.rows = append(s.rows, types.Record{"username": fmt.Sprintf("member%d", i), "age": i * 10})
	}
	return s
}

func TestAlwaysCount(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("concurrent=%v", concurrent), func(t *testing.T) {
			store := newSpy(8)
			exec := NewExecutor[string](store, WithConcurrentCount(concurrent))

			page, err := exec.ExecutePage(context.Background(), nil, types.NewPageRequest(0, 3), types.AlwaysCount)
			require.NoError(t, err)
			assert.Equal(t, []string{"member1", "member2", "member3"}, page.Content)
			require.NotNil(t, page.Total)
			assert.Equal(t, int64(8), *page.Total)
			assert.True(t, page.HasNext)
			assert.Equal(t, int32(1), store.countCalls.Load())

			page, err = exec.ExecutePage(context.Background(), nil, types.NewPageRequest(6, 3), types.AlwaysCount)
			require.NoError(t, err)
			assert.Equal(t, []string{"member7", "member8"}, page.Content)
			assert.False(t, page.HasNext)
			assert.Equal(t, int32(2), store.countCalls.Load())
		})
	}
}

func TestDeferredCountSkipsCountOnShortPages(t *testing.T) {
	store := newSpy(8)
	exec := NewExecutor[string](store)

	page, err := exec.ExecutePage(context.Background(), nil, types.NewPageRequest(0, 10), types.DeferredCount)
	require.NoError(t, err)
	assert.Len(t, page.Content, 8)
	assert.Equal(t, int64(8), *page.Total)
	assert.False(t, page.HasNext)
	assert.Equal(t, int32(0), store.countCalls.Load())

	page, err = exec.ExecutePage(context.Background(), nil, types.NewPageRequest(6, 3), types.DeferredCount)
	require.NoError(t, err)
	assert.Equal(t, int64(8), *page.Total)
	assert.False(t, page.HasNext)
	assert.Equal(t, int32(0), store.countCalls.Load())
}

func TestDeferredCountFallsBackToCount(t *testing.T) {
	store := newSpy(8)
	exec := NewExecutor[string](store)

	page, err := exec.ExecutePage(context.Background(), nil, types.NewPageRequest(0, 4), types.DeferredCount)
	require.NoError(t, err)
	assert.Equal(t, int64(8), *page.Total)
	assert.True(t, page.HasNext)
	assert.Equal(t, int32(1), store.countCalls.Load())

	// an empty page past the end must not report its offset as the total
	page, err = exec.ExecutePage(context.Background(), nil, types.NewPageRequest(20, 4), types.DeferredCount)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(8), *page.Total)
	assert.False(t, page.HasNext)
	assert.Equal(t, int32(2), store.countCalls.Load())
}

// Whenever the deferred strategy infers a total it must agree with an explicit count.
func TestDeferredTotalMatchesAlwaysCount(t *testing.T) {
	filters := []*predicate.Predicate{
		nil,
		predicate.Goe("age", 40),
		predicate.Loe("age", 20),
		predicate.Eq("username", "member5"),
		predicate.And(predicate.Goe("age", 80), predicate.Loe("age", 10)),
	}
	for _, p := range filters {
		for offset := 0; offset <= 9; offset++ {
			for size := 1; size <= 9; size++ {
				deferredStore, countStore := newSpy(8), newSpy(8)
				req := types.NewPageRequest(offset, size)

				deferred, err := NewExecutor[string](deferredStore).ExecutePage(context.Background(), p, req, types.DeferredCount)
				require.NoError(t, err)
				always, err := NewExecutor[string](countStore).ExecutePage(context.Background(), p, req, types.AlwaysCount)
				require.NoError(t, err)

				assert.Equal(t, *always.Total, *deferred.Total, "p=%s offset=%d size=%d", p, offset, size)
				assert.Equal(t, always.HasNext, deferred.HasNext)
				assert.Equal(t, always.Content, deferred.Content)
				if len(deferred.Content) < size && (offset == 0 || len(deferred.Content) > 0) {
					assert.Equal(t, int64(offset+len(deferred.Content)), *deferred.Total)
					assert.Equal(t, int32(0), deferredStore.countCalls.Load())
				}
			}
		}
	}
}

func TestNoCountNeverCounts(t *testing.T) {
	cases := []struct {
		rows    int
		hasNext bool
	}{
		{rows: 4, hasNext: true},
		{rows: 3, hasNext: false},
		{rows: 1, hasNext: false},
		{rows: 0, hasNext: false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("rows=%d", tc.rows), func(t *testing.T) {
			store := newSpy(tc.rows)
			page, err := NewExecutor[string](store).ExecutePage(context.Background(), nil, types.NewPageRequest(0, 3), types.NoCount)
			require.NoError(t, err)

			assert.Equal(t, tc.hasNext, page.HasNext)
			assert.LessOrEqual(t, len(page.Content), 3)
			assert.Nil(t, page.Total)
			assert.NotNil(t, page.Content)
			assert.Equal(t, int64(4), store.lastLimit.Load())
			assert.Equal(t, int32(0), store.countCalls.Load())
		})
	}
}

func TestInvalidRequestsNeverReachStore(t *testing.T) {
	store := newSpy(8)
	exec := NewExecutor[string](store)

	for _, req := range []*types.PageRequest{nil, types.NewPageRequest(-1, 3), types.NewPageRequest(0, 0)} {
		_, err := exec.ExecutePage(context.Background(), nil, req, types.AlwaysCount)
		assert.ErrorIs(t, err, types.ErrInvalidPageRequest)
	}
	_, err := exec.ExecutePage(context.Background(), nil, types.NewPageRequest(0, 3), types.CountStrategy(99))
	assert.ErrorIs(t, err, types.ErrInvalidPageRequest)

	assert.Equal(t, int32(0), store.fetchCalls.Load())
	assert.Equal(t, int32(0), store.countCalls.Load())
}

func TestStoreErrorsPropagate(t *testing.T) {
	unavailable := fmt.Errorf("%w: connection reset", types.ErrStoreUnavailable)

	store := newSpy(8)
	store.fetchErr = unavailable
	_, err := NewExecutor[string](store).ExecutePage(context.Background(), nil, types.NewPageRequest(0, 3), types.DeferredCount)
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	assert.Equal(t, int32(1), store.fetchCalls.Load(), "no retries")

	store = newSpy(8)
	store.countErr = unavailable
	_, err = NewExecutor[string](store, WithConcurrentCount(true)).ExecutePage(context.Background(), nil, types.NewPageRequest(0, 3), types.AlwaysCount)
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)
	assert.Equal(t, int32(1), store.countCalls.Load())

	store = newSpy(8)
	_, err = NewExecutor[string](store).ExecutePage(context.Background(), predicate.Gt("username", 3), types.NewPageRequest(0, 3), types.NoCount)
	assert.ErrorIs(t, err, types.ErrUnsupportedOperator)
}

func TestCancellationReachesStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecutor[string](newSpy(8)).ExecutePage(ctx, nil, types.NewPageRequest(0, 3), types.AlwaysCount)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInferTotal(t *testing.T) {
	cases := []struct {
		offset, size, n int
		total           int64
		ok              bool
	}{
		{0, 10, 8, 8, true},
		{0, 10, 0, 0, true},
		{0, 3, 3, 0, false},
		{6, 3, 2, 8, true},
		{9, 3, 0, 0, false},
		{3, 3, 3, 0, false},
	}
	for _, tc := range cases {
		total, ok := InferTotal(tc.offset, tc.size, tc.n)
		assert.Equal(t, tc.ok, ok, "%+v", tc)
		assert.Equal(t, tc.total, total, "%+v", tc)
	}
}

func TestNoCountLookAheadAtMaxSize(t *testing.T) {
	store := newSpy(3)
	exec := NewExecutor[string](store)

	page, err := exec.ExecutePage(context.Background(), nil, types.NewPageRequest(1, math.MaxInt), types.NoCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"member2", "member3"}, page.Content)
	assert.False(t, page.HasNext)
	assert.Equal(t, int64(math.MaxInt), store.lastLimit.Load())
	assert.Zero(t, store.countCalls.Load())
}
