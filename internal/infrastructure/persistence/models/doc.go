// Package models contains the GORM persistence models and their
// conversions to and from domain entities. Nested value objects
// (location sets, recipes, price tables) are stored as jsonb columns;
// everything queried or indexed on gets its own column.
package models
