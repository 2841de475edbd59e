// Package durable adapts the append-only transaction log spec.md §6
// describes as an external collaborator: every committed transaction's
// assertions and retractions are appended as one opaque, offset-addressed
// record, so a connection's in-memory history can be rebuilt after a
// process restart by replaying records in order.
//
// The core (package conn) never depends on this package directly — a
// durable-kind connection's caller is responsible for appending each
// Transact result and, at startup, replaying the log through Transact's
// own update-function protocol. This keeps the boundary spec.md §1 draws
// ("the durable on-disk store... [is] treated as an external
// collaborator whose interface is specified only where the core consumes
// it") intact: conn knows nothing about SQLite or file offsets.
package durable

import "time"

// Store is the append-only transaction log interface a durable-kind
// connection is backed by. Writes are append-only. Reads are not held
// back until Force: with SQLiteStore a record is visible to ReadAt and Len
// as soon as its Append returns.
type Store interface {
	// Append writes record and returns the offset it was written at,
	// stable for later ReadAt calls.
	Append(record []byte) (offset int64, err error)

	// ReadAt returns the record written at offset. Returns
	// *BeyondEndOfFileError if offset is past the last written record.
	ReadAt(offset int64) ([]byte, error)

	// Len reports the number of records currently appended.
	Len() (int64, error)

	// Force ensures every prior Append is durable and visible to
	// subsequent ReadAt calls from any handle on the same store.
	Force() error

	// Close releases the store's underlying resources.
	Close() error
}

// Record pairs a transaction's encoded payload with the wall-clock
// instant it was appended, mirroring spec.md §6's "each record holds a
// 64-bit timestamp followed by the transaction payload".
type Record struct {
	Timestamp time.Time
	Payload   []byte
}
