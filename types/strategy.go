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

package types

import (
	"fmt"
	"strings"
)

// CountStrategy selects how a page computes its total and hasNext flag.
type CountStrategy int

const (
	// AlwaysCount issues a count query for every page.
	AlwaysCount CountStrategy = iota + 1
	// DeferredCount infers the total from a short page and counts only when it cannot.
	DeferredCount
	// NoCount fetches one extra row to decide hasNext and never reports a total.
	NoCount
)

var _ BaseEnum = AlwaysCount

var countStrategyNames = map[CountStrategy]string{
	AlwaysCount:   "always",
	DeferredCount: "deferred",
	NoCount:       "none",
}

var countStrategyDescs = map[CountStrategy]string{
	AlwaysCount:   "exact total from a separate count query",
	DeferredCount: "total inferred from short pages, counted otherwise",
	NoCount:       "look-ahead row for hasNext, total omitted",
}

func (s CountStrategy) IsValid() bool {
	_, ok := countStrategyNames[s]
	return ok
}

func (s CountStrategy) Number() int {
	if !s.IsValid() {
		return IllegalValue
	}
	return int(s)
}

func (s CountStrategy) Name() string {
	if name, ok := countStrategyNames[s]; ok {
		return name
	}
	return IllegalName
}

func (s CountStrategy) Desc() string {
	if desc, ok := countStrategyDescs[s]; ok {
		return desc
	}
	return IllegalDesc
}

func (s CountStrategy) String() string {
	return s.Name()
}

// CountStrategies returns every valid strategy in declaration order.
func CountStrategies() []CountStrategy {
	return []CountStrategy{AlwaysCount, DeferredCount, NoCount}
}

// ParseCountStrategy resolves a strategy by its name ("always", "deferred", "none").
// The aliases "count", "lazy" and "nocount" are accepted as well.
func ParseCountStrategy(name string) (CountStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "always", "count":
		return AlwaysCount, nil
	case "deferred", "lazy":
		return DeferredCount, nil
	case "none", "nocount":
		return NoCount, nil
	}
	return CountStrategy(IllegalValue), fmt.Errorf("%w: unknown count strategy %q (valid: %s)", ErrInvalidPageRequest, name, strings.Join(EnumNames(CountStrategies()...), ", "))
}
