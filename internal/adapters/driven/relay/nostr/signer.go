package nostr

import (
	"encoding/hex"
	"fmt"
	"strings"

	gonostr "github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
)

// Ensure KeySigner implements the interface.
var _ driven.Signer = (*KeySigner)(nil)

// KeySigner signs events with a local secret key.
type KeySigner struct {
	secret string
	pubkey string
}

// NewKeySigner parses key as an nsec bech32 string or 64-char hex.
func NewKeySigner(key string) (*KeySigner, error) {
	secret, err := ParseSecretKey(key)
	if err != nil {
		return nil, err
	}
	pub, err := gonostr.GetPublicKey(secret)
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	return &KeySigner{secret: secret, pubkey: pub}, nil
}

// ParseSecretKey returns the hex form of an nsec or hex secret key.
func ParseSecretKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "nsec1") {
		prefix, value, err := nip19.Decode(key)
		if err != nil {
			return "", fmt.Errorf("decode nsec: %v: %w", err, domain.ErrInvalidInput)
		}
		sk, ok := value.(string)
		if prefix != "nsec" || !ok {
			return "", fmt.Errorf("not an nsec key: %w", domain.ErrInvalidInput)
		}
		return sk, nil
	}
	raw, err := hex.DecodeString(key)
	if err != nil || len(raw) != 32 {
		return "", fmt.Errorf("secret key must be nsec or 64 hex characters: %w", domain.ErrInvalidInput)
	}
	return strings.ToLower(key), nil
}

// PublicKey returns the hex public key.
func (s *KeySigner) PublicKey() string {
	return s.pubkey
}

// Sign sets PubKey, ID and Sig on ev. CreatedAt is set to now when zero.
func (s *KeySigner) Sign(ev *domain.Event) error {
	if ev.CreatedAt == 0 {
		ev.CreatedAt = int64(gonostr.Now())
	}
	wire := toEvent(ev)
	if err := wire.Sign(s.secret); err != nil {
		return fmt.Errorf("sign event: %w", err)
	}
	ev.PubKey = wire.PubKey
	ev.ID = wire.ID
	ev.Sig = wire.Sig
	return nil
}
