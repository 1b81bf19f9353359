// Package queue persists the photo pipeline in SQLite and hands out
// work to workflow workers through an atomic claim.
package queue
