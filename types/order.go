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

// Direction is the sort direction of an Order.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order sorts by a logical field name such as "age" or "team.name".
type Order struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// OrderAsc returns an ascending order on field.
func OrderAsc(field string) Order {
	return Order{Field: field, Direction: Asc}
}

// OrderDesc returns a descending order on field.
func OrderDesc(field string) Order {
	return Order{Field: field, Direction: Desc}
}

func (o Order) Validate() error {
	if strings.TrimSpace(o.Field) == "" {
		return fmt.Errorf("%w: empty sort field", ErrInvalidPageRequest)
	}
	if o.Direction != Asc && o.Direction != Desc {
		return fmt.Errorf("%w: invalid sort direction %q for %s", ErrInvalidPageRequest, o.Direction, o.Field)
	}
	return nil
}

func (o Order) String() string {
	return o.Field + " " + string(o.Direction)
}

// ParseOrders parses a comma separated list like "id ASC, age desc".
// A missing direction means ascending.
func ParseOrders(s string) ([]Order, error) {
	var orders []Order
	for _, part := range strings.Split(s, ",") {
		fields := strings.Fields(part)
		switch len(fields) {
		case 0:
			continue
		case 1:
			orders = append(orders, OrderAsc(fields[0]))
		case 2:
			o := Order{Field: fields[0], Direction: Direction(strings.ToUpper(fields[1]))}
			if err := o.Validate(); err != nil {
				return nil, err
			}
			orders = append(orders, o)
		default:
			return nil, fmt.Errorf("%w: malformed order %q", ErrInvalidPageRequest, strings.TrimSpace(part))
		}
	}
	return orders, nil
}
