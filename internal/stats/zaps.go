package stats

import (
	"regexp"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

// Query caps for receipt lookups.
const (
	ZapQueryLimit     = 500
	UserZapQueryLimit = 1000
)

// invoiceAmount captures the amount digits and the optional multiplier
// letter following the mainnet invoice prefix.
var invoiceAmount = regexp.MustCompile(`lnbc(\d+)([munp]?)`)

// Sats per unit of each invoice multiplier. The empty multiplier is whole bitcoin.
var unitFactors = map[string]decimal.Decimal{
	"m": decimal.NewFromInt(100000),
	"u": decimal.NewFromInt(100),
	"n": decimal.RequireFromString("0.1"),
	"p": decimal.RequireFromString("0.0001"),
	"":  decimal.NewFromInt(100000000),
}

// ParseInvoiceAmount extracts the sat amount embedded in a bolt11 string.
// ok is false when the string carries no recognisable amount.
func ParseInvoiceAmount(bolt11 string) (sats decimal.Decimal, ok bool) {
	m := invoiceAmount.FindStringSubmatch(bolt11)
	if m == nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero, false
	}
	return ConvertToSats(amount, m[2]), true
}

// ConvertToSats applies the multiplier for unit to amount.
// Unknown units are treated as whole bitcoin.
func ConvertToSats(amount decimal.Decimal, unit string) decimal.Decimal {
	factor, ok := unitFactors[unit]
	if !ok {
		factor = unitFactors[""]
	}
	return amount.Mul(factor)
}

// ParseZapReceipt converts a receipt event. ok is false when the receipt has
// no bolt11 tag or no parseable amount.
func ParseZapReceipt(targetID string, ev *domain.Event) (receipt domain.ZapReceipt, sats decimal.Decimal, ok bool) {
	if ev == nil {
		return domain.ZapReceipt{}, decimal.Zero, false
	}
	idx := ev.Index()
	bolt11 := idx.Value("bolt11")
	if bolt11 == "" {
		return domain.ZapReceipt{}, decimal.Zero, false
	}
	sats, ok = ParseInvoiceAmount(bolt11)
	if !ok {
		return domain.ZapReceipt{}, decimal.Zero, false
	}
	return domain.ZapReceipt{
		ID:        ev.ID,
		TargetID:  targetID,
		Amount:    sats.InexactFloat64(),
		Zapper:    idx.ValueOr("P", ev.PubKey),
		CreatedAt: ev.CreatedAt,
	}, sats, true
}

// AggregateZaps summarises the receipts in events for targetID.
// Receipts without a parseable amount are excluded from every figure.
func AggregateZaps(targetID string, events []*domain.Event) domain.ZapStats {
	total := decimal.Zero
	zappers := make(map[string]struct{})
	receipts := make([]domain.ZapReceipt, 0, len(events))

	for _, ev := range events {
		receipt, sats, ok := ParseZapReceipt(targetID, ev)
		if !ok {
			continue
		}
		total = total.Add(sats)
		zappers[receipt.Zapper] = struct{}{}
		receipts = append(receipts, receipt)
	}

	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].CreatedAt > receipts[j].CreatedAt
	})

	stats := domain.ZapStats{
		TotalZaps:     len(receipts),
		TotalSats:     total.InexactFloat64(),
		UniqueZappers: len(zappers),
		Receipts:      receipts,
	}
	if stats.TotalZaps > 0 {
		stats.AverageSats = total.Div(decimal.NewFromInt(int64(stats.TotalZaps))).Round(0).IntPart()
	}
	return stats
}
