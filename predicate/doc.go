// Package predicate provides immutable, composable filter expressions where a
// nil predicate means "no constraint".
package predicate
