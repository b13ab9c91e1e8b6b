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
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/tomoncle/sieve/types"
)

// Getter resolves a field of a record. types.Record satisfies it.
type Getter interface {
	Lookup(field string) (interface{}, bool)
}

// truth is a three-valued SQL truth value.
type truth int8

const (
	unknown truth = iota
	falsy
	truthy
)

func truthOf(b bool) truth {
	if b {
		return truthy
	}
	return falsy
}

// Eval evaluates p against a record. A nil predicate matches everything.
// A comparison on a missing or nil field is unknown, like SQL NULL: the
// record does not match, and Not keeps it unknown rather than flipping it.
func (p *Predicate) Eval(record Getter) (bool, error) {
	t, err := p.eval(record)
	return t == truthy && err == nil, err
}

func (p *Predicate) eval(record Getter) (truth, error) {
	if p == nil {
		return truthy, nil
	}
	switch p.op {
	case OpAnd:
		result := truthy
		for _, child := range p.operands {
			t, err := child.eval(record)
			if err != nil || t == falsy {
				return falsy, err
			}
			if t == unknown {
				result = unknown
			}
		}
		return result, nil
	case OpOr:
		result := falsy
		for _, child := range p.operands {
			t, err := child.eval(record)
			if err != nil {
				return falsy, err
			}
			if t == truthy {
				return truthy, nil
			}
			if t == unknown {
				result = unknown
			}
		}
		return result, nil
	case OpNot:
		t, err := p.operands[0].eval(record)
		switch {
		case err != nil:
			return falsy, err
		case t == unknown:
			return unknown, nil
		}
		return truthOf(t == falsy), nil
	}

	actual, ok := record.Lookup(p.field)
	if !ok || actual == nil {
		return unknown, nil
	}

	switch p.op {
	case OpEq, OpNe, OpGt, OpGoe, OpLt, OpLoe:
		c, err := compareValues(actual, p.value)
		if err != nil {
			return falsy, fmt.Errorf("%s: %w", p.field, err)
		}
		switch p.op {
		case OpEq:
			return truthOf(c == 0), nil
		case OpNe:
			return truthOf(c != 0), nil
		case OpGt:
			return truthOf(c > 0), nil
		case OpGoe:
			return truthOf(c >= 0), nil
		case OpLt:
			return truthOf(c < 0), nil
		default:
			return truthOf(c <= 0), nil
		}
	case OpLike:
		s, ok := actual.(string)
		if !ok || p.like == nil {
			return falsy, fmt.Errorf("%w: LIKE on non-string field %s", types.ErrUnsupportedOperator, p.field)
		}
		return truthOf(p.like.MatchString(s)), nil
	case OpIn:
		values, _ := p.value.([]interface{})
		for _, v := range values {
			c, err := compareValues(actual, v)
			if err != nil {
				return falsy, fmt.Errorf("%s: %w", p.field, err)
			}
			if c == 0 {
				return truthy, nil
			}
		}
		return falsy, nil
	}
	return falsy, fmt.Errorf("%w: %s", types.ErrUnsupportedOperator, p.op)
}

// Compare orders a against b with the same rules Eval applies to
// comparisons. It returns -1, 0 or 1.
func Compare(a, b interface{}) (int, error) {
	return compareValues(a, b)
}

// compareValues orders a against b. Integers, floats, strings, bools and
// times are supported; mixing kinds is an unsupported comparison.
func compareValues(a, b interface{}) (int, error) {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		if !ok {
			return 0, incomparable(a, b)
		}
		return ta.Compare(tb), nil
	}

	va, vb := indirect(reflect.ValueOf(a)), indirect(reflect.ValueOf(b))
	if !va.IsValid() || !vb.IsValid() {
		return 0, incomparable(a, b)
	}
	switch {
	case isInt(va) && isInt(vb):
		return compareOrdered(va.Int(), vb.Int()), nil
	case isUint(va) && isUint(vb):
		return compareOrdered(va.Uint(), vb.Uint()), nil
	case isNumber(va) && isNumber(vb):
		return compareOrdered(toFloat(va), toFloat(vb)), nil
	case va.Kind() == reflect.String && vb.Kind() == reflect.String:
		return strings.Compare(va.String(), vb.String()), nil
	case va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool:
		if va.Bool() == vb.Bool() {
			return 0, nil
		}
		if !va.Bool() {
			return -1, nil
		}
		return 1, nil
	}
	return 0, incomparable(a, b)
}

func incomparable(a, b interface{}) error {
	return fmt.Errorf("%w: cannot compare %T with %T", types.ErrUnsupportedOperator, a, b)
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	}
	return v.Float()
}

func compareOrdered[N int64 | uint64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// likePattern compiles a SQL LIKE pattern: '%' is any run, '_' one rune.
func likePattern(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString("(?s)^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.MustCompile(sb.String())
}
