// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles the details of database connections, query execution, and data
// mapping between domain entities and database records.
//
// A user's place set lives in the user_places table. The stores never keep it
// in sync on their own; the place service pairs PlaceStore and UserStore writes
// in one transaction.
package postgres
