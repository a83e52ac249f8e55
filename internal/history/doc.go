// Package history provides SQLite-backed append-only storage for
// recognition results. Every successful capture produces exactly one
// record; records are never updated or deleted through this package.
package history
