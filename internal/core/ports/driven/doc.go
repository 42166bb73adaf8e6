// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RelayClient: Queries and publishes protocol events across relays
//   - PaperNormaliser: Classifies long-form events as papers
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Signer: Signs events. Without it, publishing returns ErrSignerUnavailable.
//   - PaperStore: Offline paper cache. Without it, relay failures are not masked.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
