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

import "errors"

var (
	// ErrInvalidPageRequest is returned before any store call when the page
	// window, strategy or sort order cannot be honoured.
	ErrInvalidPageRequest = errors.New("invalid page request")

	// ErrUnsupportedOperator is returned when a store cannot evaluate a
	// predicate operator or field. It is a configuration error and never retried.
	ErrUnsupportedOperator = errors.New("unsupported predicate operator")

	// ErrStoreUnavailable wraps transient fetch or count failures.
	ErrStoreUnavailable = errors.New("store unavailable")
)
