// Package normalisers provides implementations of the Normaliser interface
// for protocol event kinds. Each normaliser knows how to turn a raw relay
// event of one kind into a validated domain entity, or reject it.
//
// Rejection is silent: foreign and malformed events are expected noise on an
// open relay network.
package normalisers
