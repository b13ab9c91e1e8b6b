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
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve/predicate"
	"github.com/tomoncle/sieve/types"
)

// FieldMapping maps logical predicate fields ("team.name") to qualified
// column references ("team.name", "member.age").
type FieldMapping map[string]string

// Column resolves field, failing with ErrUnsupportedOperator for unknown fields.
func (m FieldMapping) Column(field string) (bun.Ident, error) {
	col, ok := m[field]
	if !ok {
		return "", fmt.Errorf("%w: unknown field %q (known: %s)", types.ErrUnsupportedOperator, field, strings.Join(m.Fields(), ", "))
	}
	return bun.Ident(col), nil
}

// Fields returns the mapped field names sorted alphabetically.
func (m FieldMapping) Fields() []string {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// InferFieldMapping maps every column of the bun model T to "<alias>.<column>".
func InferFieldMapping[T any](db bun.IDB) FieldMapping {
	table := db.Dialect().Tables().Get(reflect.TypeFor[T]())
	m := make(FieldMapping, len(table.Fields))
	for _, f := range table.Fields {
		m[f.Name] = table.Alias + "." + f.Name
	}
	return m
}

// whereClause renders p as a parameterised bun WHERE expression.
func whereClause(p *predicate.Predicate, fields FieldMapping) (string, []interface{}, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	if err := appendWhere(&sb, &args, p, fields); err != nil {
		return "", nil, err
	}
	return sb.String(), args, nil
}

func appendWhere(sb *strings.Builder, args *[]interface{}, p *predicate.Predicate, fields FieldMapping) error {
	switch p.Op() {
	case predicate.OpAnd, predicate.OpOr:
		sb.WriteString("(")
		for i, child := range p.Operands() {
			if i > 0 {
				sb.WriteString(" " + p.Op().String() + " ")
			}
			if err := appendWhere(sb, args, child, fields); err != nil {
				return err
			}
		}
		sb.WriteString(")")
		return nil
	case predicate.OpNot:
		sb.WriteString("NOT ")
		return appendWhere(sb, args, p.Operands()[0], fields)
	}

	col, err := fields.Column(p.Field())
	if err != nil {
		return err
	}
	switch p.Op() {
	case predicate.OpEq, predicate.OpNe, predicate.OpGt, predicate.OpGoe, predicate.OpLt, predicate.OpLoe, predicate.OpLike:
		sb.WriteString("(? " + p.Op().String() + " ?)")
		*args = append(*args, col, p.Value())
	case predicate.OpIn:
		sb.WriteString("(? IN (?))")
		*args = append(*args, col, bun.In(p.Value()))
	default:
		return fmt.Errorf("%w: %s", types.ErrUnsupportedOperator, p.Op())
	}
	return nil
}

func applyPredicate(q *bun.SelectQuery, p *predicate.Predicate, fields FieldMapping) (*bun.SelectQuery, error) {
	if p == nil {
		return q, nil
	}
	expr, args, err := whereClause(p, fields)
	if err != nil {
		return nil, err
	}
	return q.Where(expr, args...), nil
}

func applyOrders(q *bun.SelectQuery, orders []types.Order, fields FieldMapping) (*bun.SelectQuery, error) {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		col, ok := fields[o.Field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown sort field %q", types.ErrInvalidPageRequest, o.Field)
		}
		q = q.OrderExpr("? "+string(o.Direction), bun.Ident(col))
	}
	return q, nil
}
