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

package predicate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/sieve/types"
)

func TestNilIsIdentity(t *testing.T) {
	p := Eq("username", "member1")

	assert.Nil(t, And())
	assert.Nil(t, And(nil, nil))
	assert.Nil(t, Or(nil))
	assert.Nil(t, Not(nil))
	assert.Same(t, p, And(nil, p, nil))
	assert.Same(t, p, Or(p, nil))

	var absent *Predicate
	assert.Same(t, p, absent.And(p))
	assert.Same(t, p, p.And(nil))
	assert.Nil(t, absent.Or())
}

func TestAndFlattensInOrder(t *testing.T) {
	a, b, c := Eq("username", "m"), Eq("team.name", "teamA"), Goe("age", 10)

	p := And(And(a, b), nil, c)
	require.Equal(t, OpAnd, p.Op())
	assert.Equal(t, []*Predicate{a, b, c}, p.Operands())
	assert.Equal(t, `username = "m" AND team.name = "teamA" AND age >= 10`, p.String())

	mixed := Or(a, And(b, c))
	assert.Equal(t, `username = "m" OR (team.name = "teamA" AND age >= 10)`, mixed.String())
}

func TestPredicateIsImmutable(t *testing.T) {
	a, b := Eq("username", "m"), Goe("age", 10)
	p := And(a, b)

	ops := p.Operands()
	ops[0] = Eq("username", "other")
	assert.Same(t, a, p.Operands()[0])

	in := In("age", 10, 20)
	values := in.Value().([]interface{})
	values[0] = 99
	assert.Equal(t, []interface{}{10, 20}, in.Value())
}

func TestStringAndFields(t *testing.T) {
	p := And(
		Between("age", 10, 40),
		Like("username", "member%"),
		Not(In("team.name", "teamA", "teamB")),
		Ne("age", 20),
	)
	assert.Equal(t,
		`age >= 10 AND age <= 40 AND username LIKE "member%" AND NOT team.name IN ("teamA", "teamB") AND age <> 20`,
		p.String())
	assert.Equal(t, []string{"age", "username", "team.name"}, p.Fields())
	assert.Equal(t, "<all>", (*Predicate)(nil).String())
}

func TestWalkStopsEarly(t *testing.T) {
	p := Or(And(Eq("a", 1), Eq("b", 2)), Eq("c", 3))
	var visited []Op
	p.Walk(func(n *Predicate) bool {
		visited = append(visited, n.Op())
		return n.Op() != OpAnd
	})
	assert.Equal(t, []Op{OpOr, OpAnd, OpEq}, visited)
}

func TestEval(t *testing.T) {
	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := types.Record{
		"username": "member5",
		"age":      50,
		"score":    int64(7),
		"ratio":    0.5,
		"active":   true,
		"joined":   joined,
		"nickname": nil,
		"team":     types.Record{"name": "teamB"},
	}

	cases := []struct {
		name string
		p    *Predicate
		want bool
	}{
		{"absent", nil, true},
		{"eq string", Eq("username", "member5"), true},
		{"eq nested", Eq("team.name", "teamB"), true},
		{"ne", Ne("team.name", "teamA"), true},
		{"goe", Goe("age", 50), true},
		{"gt", Gt("age", 50), false},
		{"loe", Loe("age", 49), false},
		{"lt mixed int widths", Lt("score", 8), true},
		{"float vs int", Goe("ratio", 0), true},
		{"bool", Eq("active", true), true},
		{"time", Lt("joined", joined.Add(time.Hour)), true},
		{"like", Like("username", "member_"), true},
		{"like no match", Like("username", "team%"), false},
		{"in", In("age", 10, 50), true},
		{"not in", Not(In("age", 10, 60)), true},
		{"missing field is null", Eq("email", "x"), false},
		{"nil field is null", Eq("nickname", "x"), false},
		{"not keeps missing field null", Not(Eq("email", "x")), false},
		{"not keeps nil field null", Not(Eq("nickname", "x")), false},
		{"or null with true", Or(Eq("email", "x"), Eq("age", 50)), true},
		{"not of or null with false", Not(Or(Eq("email", "x"), Eq("age", 10))), false},
		{"not of and null with false", Not(And(Eq("email", "x"), Eq("age", 10))), true},
		{"like quotes regexp", Like("username", "member.%"), false},
		{"and", And(Goe("age", 40), Loe("age", 80), Eq("team.name", "teamB")), true},
		{"and short", And(Goe("age", 60), Eq("team.name", "teamB")), false},
		{"or", Or(Eq("age", 10), Eq("username", "member5")), true},
		{"inverted range", And(Goe("age", 80), Loe("age", 40)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.p.Eval(rec)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLikeReusedAcrossRecords(t *testing.T) {
	p := Like("username", "member_")
	for name, want := range map[string]bool{"member1": true, "member12": false, "team1": false, "member\n": true} {
		got, err := p.Eval(types.Record{"username": name})
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestEvalUnsupported(t *testing.T) {
	rec := types.Record{"age": 10, "username": "member1"}

	_, err := Eq("age", "ten").Eval(rec)
	assert.ErrorIs(t, err, types.ErrUnsupportedOperator)

	_, err = Like("age", "1%").Eval(rec)
	assert.ErrorIs(t, err, types.ErrUnsupportedOperator)

	_, err = Or(Eq("username", "x"), Gt("username", 3)).Eval(rec)
	assert.ErrorIs(t, err, types.ErrUnsupportedOperator)
}
