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
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tomoncle/sieve/predicate"
)

// Searchable fields of the member/team projection.
const (
	FieldID       = "id"
	FieldUsername = "username"
	FieldAge      = "age"
	FieldTeamID   = "team.id"
	FieldTeamName = "team.name"
)

// Condition keys accepted by ParseSearchCondition.
const (
	KeyUsernameEquals    = "usernameEquals"
	KeyTeamNameEquals    = "teamNameEquals"
	KeyAgeGreaterOrEqual = "ageGreaterOrEqual"
	KeyAgeLessOrEqual    = "ageLessOrEqual"
)

var ErrInvalidCondition = errors.New("invalid search condition")

// SearchCondition holds optional member filters. A nil field, or a blank
// string, does not constrain the search.
type SearchCondition struct {
	Username *string `json:"usernameEquals,omitempty"`
	TeamName *string `json:"teamNameEquals,omitempty"`
	AgeGoe   *int    `json:"ageGreaterOrEqual,omitempty"`
	AgeLoe   *int    `json:"ageLessOrEqual,omitempty"`
}

// ComposePredicate conjoins the active filters in the order username,
// team name, minimum age, maximum age. It returns nil when none is active.
// Contradictory age bounds are kept and simply match nothing.
func ComposePredicate(cond SearchCondition) *predicate.Predicate {
	return predicate.And(
		usernameEq(cond.Username),
		teamNameEq(cond.TeamName),
		ageGoe(cond.AgeGoe),
		ageLoe(cond.AgeLoe),
	)
}

func usernameEq(username *string) *predicate.Predicate {
	if !hasText(username) {
		return nil
	}
	return predicate.Eq(FieldUsername, *username)
}

func teamNameEq(teamName *string) *predicate.Predicate {
	if !hasText(teamName) {
		return nil
	}
	return predicate.Eq(FieldTeamName, *teamName)
}

func ageGoe(age *int) *predicate.Predicate {
	if age == nil {
		return nil
	}
	return predicate.Goe(FieldAge, *age)
}

func ageLoe(age *int) *predicate.Predicate {
	if age == nil {
		return nil
	}
	return predicate.Loe(FieldAge, *age)
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// IsEmpty reports whether no filter is active.
func (c SearchCondition) IsEmpty() bool {
	return ComposePredicate(c) == nil
}

// ParseSearchCondition builds a condition from string parameters, e.g. HTTP
// query values or CLI flags. The short names username, teamName, ageGoe and
// ageLoe are accepted as well. Empty values are ignored.
func ParseSearchCondition(params map[string]string) (SearchCondition, error) {
	var cond SearchCondition
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := params[key]
		switch key {
		case KeyUsernameEquals, "username":
			cond.Username = String(value)
		case KeyTeamNameEquals, "teamName":
			cond.TeamName = String(value)
		case KeyAgeGreaterOrEqual, "ageGoe", KeyAgeLessOrEqual, "ageLoe":
			if strings.TrimSpace(value) == "" {
				continue
			}
			age, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return SearchCondition{}, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidCondition, key, value)
			}
			if key == KeyAgeGreaterOrEqual || key == "ageGoe" {
				cond.AgeGoe = Int(age)
			} else {
				cond.AgeLoe = Int(age)
			}
		default:
			return SearchCondition{}, fmt.Errorf("%w: unknown filter %q", ErrInvalidCondition, key)
		}
	}
	return cond, nil
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to i.
func Int(i int) *int { return &i }
