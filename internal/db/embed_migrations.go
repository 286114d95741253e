package db

import "embed"

// MigrationFS holds the schema for users, donors, blood requests, events, donations,
// contact messages and audit logs. Applied by cmd/migrate.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
