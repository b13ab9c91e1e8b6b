// Package repository provides a generic repository abstraction built on Bun
// together with pagination stores: BunStore translates predicates into SQL,
// MemoryStore evaluates them in process, and InstrumentedStore records
// prometheus metrics around either.
package repository
