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
	"regexp"
	"strings"
)

// Op identifies the operator of a predicate node.
type Op int

const (
	OpEq Op = iota + 1
	OpNe
	OpGt
	OpGoe
	OpLt
	OpLoe
	OpLike
	OpIn
	OpAnd
	OpOr
	OpNot
)

var opSymbols = map[Op]string{
	OpEq:   "=",
	OpNe:   "<>",
	OpGt:   ">",
	OpGoe:  ">=",
	OpLt:   "<",
	OpLoe:  "<=",
	OpLike: "LIKE",
	OpIn:   "IN",
	OpAnd:  "AND",
	OpOr:   "OR",
	OpNot:  "NOT",
}

func (o Op) String() string {
	if s, ok := opSymbols[o]; ok {
		return s
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// IsComparison reports whether o compares a field with a value.
func (o Op) IsComparison() bool {
	return o >= OpEq && o <= OpIn
}

// Predicate is an immutable boolean expression over record fields.
//
// A nil *Predicate is the absent predicate: it matches every record and is
// the identity of And and Or, so optional filters compose without branching.
type Predicate struct {
	op       Op
	field    string
	value    interface{}
	operands []*Predicate
	like     *regexp.Regexp
}

func compare(op Op, field string, value interface{}) *Predicate {
	return &Predicate{op: op, field: field, value: value}
}

// Eq matches records whose field equals value.
func Eq(field string, value interface{}) *Predicate { return compare(OpEq, field, value) }

// Ne matches records whose field differs from value.
func Ne(field string, value interface{}) *Predicate { return compare(OpNe, field, value) }

// Gt matches records whose field is greater than value.
func Gt(field string, value interface{}) *Predicate { return compare(OpGt, field, value) }

// Goe matches records whose field is greater than or equal to value.
func Goe(field string, value interface{}) *Predicate { return compare(OpGoe, field, value) }

// Lt matches records whose field is less than value.
func Lt(field string, value interface{}) *Predicate { return compare(OpLt, field, value) }

// Loe matches records whose field is less than or equal to value.
func Loe(field string, value interface{}) *Predicate { return compare(OpLoe, field, value) }

// Like matches string fields against an SQL LIKE pattern (% and _ wildcards).
func Like(field string, pattern string) *Predicate {
	p := compare(OpLike, field, pattern)
	p.like = likePattern(pattern)
	return p
}

// In matches records whose field equals one of values.
func In(field string, values ...interface{}) *Predicate {
	copied := make([]interface{}, len(values))
	copy(copied, values)
	return compare(OpIn, field, copied)
}

// Between matches lo <= field <= hi.
func Between(field string, lo, hi interface{}) *Predicate {
	return And(Goe(field, lo), Loe(field, hi))
}

// And conjoins the non-nil predicates. Nested conjunctions are flattened.
// It returns nil when every argument is nil and the sole predicate when only one is set.
func And(predicates ...*Predicate) *Predicate {
	return join(OpAnd, predicates)
}

// Or disjoins the non-nil predicates with the same nil rules as And.
func Or(predicates ...*Predicate) *Predicate {
	return join(OpOr, predicates)
}

// Not negates p. Not(nil) is nil.
func Not(p *Predicate) *Predicate {
	if p == nil {
		return nil
	}
	if p.op == OpNot {
		return p.operands[0]
	}
	return &Predicate{op: OpNot, operands: []*Predicate{p}}
}

func join(op Op, predicates []*Predicate) *Predicate {
	var operands []*Predicate
	for _, p := range predicates {
		if p == nil {
			continue
		}
		if p.op == op {
			operands = append(operands, p.operands...)
			continue
		}
		operands = append(operands, p)
	}
	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	}
	return &Predicate{op: op, operands: operands}
}

// And returns p AND others. It is safe on a nil receiver.
func (p *Predicate) And(others ...*Predicate) *Predicate {
	return And(append([]*Predicate{p}, others...)...)
}

// Or returns p OR others. It is safe on a nil receiver.
func (p *Predicate) Or(others ...*Predicate) *Predicate {
	return Or(append([]*Predicate{p}, others...)...)
}

func (p *Predicate) Op() Op {
	if p == nil {
		return 0
	}
	return p.op
}

func (p *Predicate) Field() string {
	if p == nil {
		return ""
	}
	return p.field
}

func (p *Predicate) Value() interface{} {
	if p == nil {
		return nil
	}
	if values, ok := p.value.([]interface{}); ok {
		copied := make([]interface{}, len(values))
		copy(copied, values)
		return copied
	}
	return p.value
}

// Operands returns a copy of the children of a composite predicate.
func (p *Predicate) Operands() []*Predicate {
	if p == nil {
		return nil
	}
	operands := make([]*Predicate, len(p.operands))
	copy(operands, p.operands)
	return operands
}

// Walk visits p and its descendants depth-first, stopping early when fn returns false.
func (p *Predicate) Walk(fn func(*Predicate) bool) {
	if p == nil {
		return
	}
	if !fn(p) {
		return
	}
	for _, child := range p.operands {
		child.Walk(fn)
	}
}

// Fields returns the distinct fields referenced by p in first-seen order.
func (p *Predicate) Fields() []string {
	var fields []string
	seen := make(map[string]struct{})
	p.Walk(func(n *Predicate) bool {
		if n.op.IsComparison() {
			if _, ok := seen[n.field]; !ok {
				seen[n.field] = struct{}{}
				fields = append(fields, n.field)
			}
		}
		return true
	})
	return fields
}

// String renders a deterministic textual plan, e.g. `username = "member5" AND age >= 40`.
func (p *Predicate) String() string {
	if p == nil {
		return "<all>"
	}
	var sb strings.Builder
	p.write(&sb, false)
	return sb.String()
}

func (p *Predicate) write(sb *strings.Builder, nested bool) {
	switch p.op {
	case OpAnd, OpOr:
		if nested {
			sb.WriteString("(")
		}
		for i, child := range p.operands {
			if i > 0 {
				sb.WriteString(" " + p.op.String() + " ")
			}
			child.write(sb, true)
		}
		if nested {
			sb.WriteString(")")
		}
	case OpNot:
		sb.WriteString("NOT ")
		p.operands[0].write(sb, true)
	default:
		fmt.Fprintf(sb, "%s %s %s", p.field, p.op, formatValue(p.value))
	}
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprintf("%v", val)
	}
}
