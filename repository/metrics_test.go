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
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/sieve/pagination"
	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

func TestInstrumentedStoreCountsOperations(t *testing.T) {
	const name = "metrics-test"
	store := Instrument[types.Record](name, NewMemoryStore(memberRecords()...))
	exec := pagination.NewExecutor[types.Record](store)
	ctx := context.Background()

	_, err := exec.ExecutePage(ctx, nil, types.NewPageRequest(0, 2), types.AlwaysCount)
	require.NoError(t, err)
	_, err = exec.ExecutePage(ctx, nil, types.NewPageRequest(0, 10), types.DeferredCount)
	require.NoError(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(StoreOperationsTotal.WithLabelValues(name, opFetch)))
	assert.Equal(t, float64(1), testutil.ToFloat64(StoreOperationsTotal.WithLabelValues(name, opCount)))
	assert.Equal(t, float64(7), testutil.ToFloat64(StoreRowsFetched.WithLabelValues(name)))

	_, err = store.Fetch(ctx, predicate.Like("age", "1%"), nil, 0, 10)
	require.ErrorIs(t, err, types.ErrUnsupportedOperator)
	assert.Equal(t, float64(1), testutil.ToFloat64(StoreErrorsTotal.WithLabelValues(name, opFetch, "unsupported")))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "canceled", errorKind(context.Canceled))
	assert.Equal(t, "unsupported", errorKind(types.ErrUnsupportedOperator))
	assert.Equal(t, "invalid", errorKind(types.ErrInvalidPageRequest))
	assert.Equal(t, "unavailable", errorKind(types.ErrStoreUnavailable))
	assert.Equal(t, "other", errorKind(errors.New("boom")))
}
