// Package pagination executes predicate queries page by page against a Store,
// computing totals with one of the count strategies declared in package types.
package pagination
