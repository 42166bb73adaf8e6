// Package domain defines the core business entities for scholarstr.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Event: A protocol event as returned by a relay, with an indexed tag set
//   - Paper: A validated long-form research submission
//   - ZapReceipt / ZapStats: Payment receipts and their derived statistics
//   - Comment / AnchoredComment: Thread comments and selection-bound annotations
//   - AnonymityWindow: The post-publication period during which authors are hidden
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
