// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). Implementations live in internal/adapters/driven
// and internal/normalisers.
package driven
