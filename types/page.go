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

import "fmt"

// PageRequest describes one window over an ordered result set.
type PageRequest struct {
	offset int
	size   int
	orders []Order // "id ASC", "age DESC"
}

// NewPageRequest constructs a PageRequest from an offset, a size and optional orders.
func NewPageRequest(offset int, size int, orders ...Order) *PageRequest {
	copied := make([]Order, len(orders))
	copy(copied, orders)
	return &PageRequest{offset: offset, size: size, orders: copied}
}

// OfPage constructs a PageRequest for a zero-based page number.
func OfPage(page int, size int, orders ...Order) *PageRequest {
	return NewPageRequest(page*size, size, orders...)
}

func (p *PageRequest) GetOffset() int {
	return p.offset
}

func (p *PageRequest) GetSize() int {
	return p.size
}

func (p *PageRequest) GetOrders() []Order {
	orders := make([]Order, len(p.orders))
	copy(orders, p.orders)
	return orders
}

// Validate reports ErrInvalidPageRequest for a negative offset or a non-positive size.
func (p *PageRequest) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: missing page request", ErrInvalidPageRequest)
	}
	if p.offset < 0 {
		return fmt.Errorf("%w: offset %d is negative", ErrInvalidPageRequest, p.offset)
	}
	if p.size <= 0 {
		return fmt.Errorf("%w: size %d must be positive", ErrInvalidPageRequest, p.size)
	}
	for _, o := range p.orders {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Next returns the request for the following window with the same size and orders.
func (p *PageRequest) Next() *PageRequest {
	return NewPageRequest(p.offset+p.size, p.size, p.orders...)
}

// WithSize returns a copy of the request with a different page size.
func (p *PageRequest) WithSize(size int) *PageRequest {
	return NewPageRequest(p.offset, size, p.orders...)
}

// WithOrders returns a copy of the request with the given orders.
func (p *PageRequest) WithOrders(orders ...Order) *PageRequest {
	return NewPageRequest(p.offset, p.size, orders...)
}

func (p *PageRequest) String() string {
	return fmt.Sprintf("offset=%d size=%d orders=%v", p.offset, p.size, p.orders)
}

// Page holds one window of results along with pagination metadata.
// Total is nil when the strategy did not determine it.
type Page[T any] struct {
	Content []T    `json:"content"`
	Offset  int    `json:"offset"`
	Size    int    `json:"size"`
	Total   *int64 `json:"total,omitempty"`
	HasNext bool   `json:"hasNext"`
}

// NewPage assembles a page; total may be nil.
func NewPage[T any](content []T, req *PageRequest, total *int64, hasNext bool) *Page[T] {
	if content == nil {
		content = make([]T, 0)
	}
	return &Page[T]{
		Content: content,
		Offset:  req.GetOffset(),
		Size:    req.GetSize(),
		Total:   total,
		HasNext: hasNext,
	}
}

// Number returns the zero-based page number for size-aligned offsets.
func (p *Page[T]) Number() int {
	if p.Size <= 0 {
		return 0
	}
	return p.Offset / p.Size
}

// TotalPages returns the number of pages, or false when the total is unknown.
func (p *Page[T]) TotalPages() (int64, bool) {
	if p.Total == nil {
		return 0, false
	}
	if p.Size <= 0 || *p.Total <= 0 {
		return 0, true
	}
	return (*p.Total-1)/int64(p.Size) + 1, true
}

// IsFirst reports whether the page starts at offset zero.
func (p *Page[T]) IsFirst() bool {
	return p.Offset == 0
}

// IsLast reports whether no page follows this one.
func (p *Page[T]) IsLast() bool {
	return !p.HasNext
}

// TotalOr returns the total, or def when it is unknown.
func (p *Page[T]) TotalOr(def int64) int64 {
	if p.Total == nil {
		return def
	}
	return *p.Total
}
