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

import "strings"

// Record is a schemaless row whose nested objects are addressed with dotted
// paths, so {"team": {"name": "teamA"}} answers Lookup("team.name").
type Record map[string]interface{}

// Lookup resolves a field path. A flat key containing dots wins over nesting.
func (r Record) Lookup(field string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}
	if v, ok := r[field]; ok {
		return v, true
	}
	head, rest, found := strings.Cut(field, ".")
	if !found {
		return nil, false
	}
	switch child := r[head].(type) {
	case Record:
		return child.Lookup(rest)
	case map[string]interface{}:
		return Record(child).Lookup(rest)
	}
	return nil, false
}
