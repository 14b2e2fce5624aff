// Package postgres implements the internal/store interfaces on PostgreSQL,
// used as a document store: each entity lives in a JSONB column next to the
// few extracted columns that queries filter on. Schema migrations are
// embedded and applied with goose.
package postgres
