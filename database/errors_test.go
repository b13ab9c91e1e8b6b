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

package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/tomoncle/sieve/types"
)

func TestIsSqlError(t *testing.T) {
	cases := []struct {
		err  error
		kind SQLError
	}{
		{&mysql.MySQLError{Number: 1054, Message: "Unknown column 'x'"}, NoColumnErr},
		{&mysql.MySQLError{Number: 1146, Message: "Table 'members' doesn't exist"}, NoTableErr},
		{&pq.Error{Code: "42703"}, NoColumnErr},
		{&pq.Error{Code: "23505"}, DuplicateKeyErr},
		{errors.New("SQL logic error: no such column: member.email (1)"), NoColumnErr},
		{errors.New("SQL logic error: no such table: members (1)"), NoTableErr},
		{errors.New("UNIQUE constraint failed: teams.name"), DuplicateKeyErr},
	}
	for _, tc := range cases {
		is, kind := IsSqlError(tc.err)
		assert.True(t, is, tc.err.Error())
		assert.Equal(t, tc.kind, kind, tc.err.Error())
	}

	is, _ := IsSqlError(errors.New("connection refused"))
	assert.False(t, is)
}

func TestClassifyStoreError(t *testing.T) {
	assert.NoError(t, ClassifyStoreError(nil))

	err := ClassifyStoreError(errors.New("no such column: member.email"))
	assert.ErrorIs(t, err, types.ErrUnsupportedOperator)
	assert.NotErrorIs(t, err, types.ErrStoreUnavailable)

	err = ClassifyStoreError(errors.New("dial tcp 127.0.0.1:5432: connection refused"))
	assert.ErrorIs(t, err, types.ErrStoreUnavailable)

	wrapped := fmt.Errorf("scan: %w", context.DeadlineExceeded)
	assert.Same(t, wrapped, ClassifyStoreError(wrapped))

	unsupported := fmt.Errorf("%w: unknown field", types.ErrUnsupportedOperator)
	assert.Same(t, unsupported, ClassifyStoreError(unsupported))
}
