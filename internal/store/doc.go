// Package store provides SQLite-backed storage for patient clinical histories.
//
// The store owns a single table, historias, with a surrogate INTEGER primary
// key and one TEXT column per record field. It performs no validation: the
// caller runs package validate before every insert or update.
//
// # Ordering
//
// Every read orders by id ASC, which is insertion order.
//
// # Failure semantics
//
// Every database failure is returned as an apperr storage error. There are no
// retries; the caller reports the failure to the user.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - a single connection shared for the process lifetime
package store
