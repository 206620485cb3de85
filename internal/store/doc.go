// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Writes that touch both a place and its owner's place set must run inside
// a single transaction; see RunInTransaction and RunInTransactionWithRetry.
package store
