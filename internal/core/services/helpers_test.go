package services

import (
	"fmt"

	relaymem "github.com/custodia-labs/scholarstr/internal/adapters/driven/relay/memory"
	"github.com/custodia-labs/scholarstr/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/normalisers/paper"
)

func paperEvent(id, author, slug string, created int64, topics ...string) *domain.Event {
	ev := &domain.Event{
		ID:        id,
		PubKey:    author,
		CreatedAt: created,
		Kind:      domain.KindLongForm,
		Content:   "content of " + id,
	}
	ev.AddTag("d", slug)
	ev.AddTag("title", fmt.Sprintf("Paper %s", id))
	ev.AddTag("summary", "Abstract about "+id)
	for _, t := range topics {
		ev.AddTag("t", t)
	}
	return ev
}

func zapEvent(id, target, bolt11, zapper string, created int64) *domain.Event {
	ev := &domain.Event{ID: id, PubKey: "lnurl-service", CreatedAt: created, Kind: domain.KindZapReceipt}
	ev.AddTag("e", target)
	ev.AddTag("bolt11", bolt11)
	if zapper != "" {
		ev.AddTag("P", zapper)
	}
	return ev
}

func newPaperFixture(events ...*domain.Event) (*PaperService, *relaymem.Relay, *memory.PaperStore) {
	relay := relaymem.NewRelay(events...)
	store := memory.NewPaperStore()
	signer := &relaymem.Signer{PubKey: "me"}
	svc := NewPaperService(relay, paper.New(), store, signer, 0)
	return svc, relay, store
}
