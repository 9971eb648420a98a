// Enums shared by configuration and by components reading it. Kept in own
// package so settings bundles and config could use them without importing
// each other.
package common

//go:generate go tool go-enum --marshal --names --mustparse --values

// What to do with <script> blocks found in custom CSS.
// ENUM(deny, inject)
type ScriptPolicy int

// Where font definition comes from.
// ENUM(import, inline)
type FontSource int
