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
package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/sieve/member"
	"github.com/tomoncle/sieve/types"
)

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.Bytes()
}

func TestSeedAndSearch(t *testing.T) {
	t.Setenv("SIEVE_CONNECTION_DBNAME", filepath.Join(t.TempDir(), "cli.db"))
	t.Setenv("SIEVE_LOG_LEVEL", "warn")

	var seeded map[string]int
	require.NoError(t, json.Unmarshal(run(t, "seed"), &seeded))
	assert.Equal(t, map[string]int{"teams": 2, "members": 8}, seeded)

	var page types.Page[member.MemberTeam]
	out := run(t, "search",
		"--filter", "teamNameEquals=teamB",
		"--filter", "ageGreaterOrEqual=40",
		"--size", "3", "--strategy", "none", "--order", "age desc")
	require.NoError(t, json.Unmarshal(out, &page))
	require.Len(t, page.Content, 3)
	assert.Equal(t, "member8", page.Content[0].Username)
	assert.Nil(t, page.Total)
	assert.True(t, page.HasNext)

	page = types.Page[member.MemberTeam]{}
	require.NoError(t, json.Unmarshal(run(t, "search", "--page", "2", "--size", "3"), &page))
	assert.Equal(t, 6, page.Offset)
	assert.Len(t, page.Content, 2)
	require.NotNil(t, page.Total)
	assert.Equal(t, int64(8), *page.Total)

	var rows []member.MemberTeam
	require.NoError(t, json.Unmarshal(run(t, "search", "--all", "--filter", "usernameEquals=member5"), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 50, rows[0].Age)
}

func TestSearchRejectsBadInput(t *testing.T) {
	t.Setenv("SIEVE_CONNECTION_DBNAME", filepath.Join(t.TempDir(), "cli.db"))

	for _, args := range [][]string{
		{"search", "--filter", "email=x"},
		{"search", "--strategy", "sometimes"},
		{"search", "--order", "age sideways"},
		{"seed", "--bulk", "-1"},
	} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), args)
	}
}
