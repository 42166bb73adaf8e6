// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Every relay call is bounded by a per-class timeout layered on the
// caller's context. Services never return partial statistics: a query
// either completes or fails with a wrapped domain error.
package services
