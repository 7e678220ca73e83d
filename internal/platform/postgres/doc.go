// Package postgres implements the store interfaces on PostgreSQL using
// database/sql with the pgx driver. All implementations accept a store.DBTX,
// so they run identically against a connection pool or an open transaction.
package postgres
