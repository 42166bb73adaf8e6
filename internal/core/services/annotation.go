package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/scholarstr/internal/anchoring"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driven"
	"github.com/custodia-labs/scholarstr/internal/core/ports/driving"
)

// Ensure AnnotationService implements the interfaces.
var (
	_ driving.AnnotationService = (*AnnotationService)(nil)
	_ anchoring.Publisher       = (*AnnotationService)(nil)
)

// AnnotationService opens anchored-comment sessions whose comments are
// signed with the user's key and published to the relays.
type AnnotationService struct {
	relay   driven.RelayClient
	timeout time.Duration

	mu     sync.RWMutex
	signer driven.Signer
}

// NewAnnotationService creates an annotation service.
func NewAnnotationService(relay driven.RelayClient, signer driven.Signer, timeout time.Duration) *AnnotationService {
	if timeout <= 0 {
		timeout = domain.DefaultQueryTimeout
	}
	return &AnnotationService{relay: relay, signer: signer, timeout: timeout}
}

// SetSigner replaces the signer, e.g. after the key changes.
func (s *AnnotationService) SetSigner(signer driven.Signer) {
	s.mu.Lock()
	s.signer = signer
	s.mu.Unlock()
}

// NewSession returns a detached session for paper shown in region.
func (s *AnnotationService) NewSession(paper *domain.Paper, region anchoring.Region) *anchoring.Session {
	return anchoring.NewSession(paper, region, s)
}

// Publish signs ev and sends it to the relays.
func (s *AnnotationService) Publish(ctx context.Context, ev *domain.Event) (*domain.Event, error) {
	s.mu.RLock()
	signer := s.signer
	s.mu.RUnlock()
	if signer == nil {
		return nil, domain.ErrSignerUnavailable
	}
	if s.relay == nil {
		return nil, domain.ErrNoRelays
	}
	if err := signer.Sign(ev); err != nil {
		return nil, fmt.Errorf("sign comment: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.relay.Publish(pctx, ev); err != nil {
		if errors.Is(err, domain.ErrPublishFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrPublishFailed, err)
	}
	return ev, nil
}
