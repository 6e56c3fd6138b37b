// Package models contains the GORM persistence models for the ledger tables.
//
// Domain types in internal/domain/ledger carry no ORM tags; each model has
// ToDomain and FromDomain mappers and the repositories only ever hand domain
// values to callers.
//
// The models double as the SQLite schema (AutoMigrate). PostgreSQL uses the
// SQL files under migrations/, which must stay in sync with these tags.
package models
