// Package nostr implements driven.RelayClient and driven.Signer on top of
// github.com/nbd-wtf/go-nostr.
//
// A Pool keeps one lazily dialled connection per relay URL. Every relay is
// throttled by its own token bucket and guarded by its own circuit breaker,
// so one slow or failing relay cannot stall the others. Queries fan out to
// all relays concurrently and the results are merged by event id.
package nostr
