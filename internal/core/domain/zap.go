package domain

// ZapReceipt is a parsed payment receipt referencing a target event.
type ZapReceipt struct {
	// ID is the receipt event id.
	ID string `json:"id"`

	// TargetID is the zapped event id.
	TargetID string `json:"target_id"`

	// Amount is the converted amount in sats. Sub-sat amounts are fractional.
	Amount float64 `json:"amount"`

	// Zapper is the payer pubkey: the P tag, or the receipt author.
	Zapper string `json:"zapper"`

	// CreatedAt is the receipt creation time in unix seconds.
	CreatedAt int64 `json:"timestamp"`
}

// ZapStats aggregates the receipts of one target.
type ZapStats struct {
	TotalZaps     int          `json:"total_zaps"`
	TotalSats     float64      `json:"total_sats"`
	AverageSats   int64        `json:"average_sats"`
	UniqueZappers int          `json:"unique_zappers"`
	Receipts      []ZapReceipt `json:"zap_receipts"`
}

// UserZapStats counts receipts sent and received by a pubkey.
type UserZapStats struct {
	PubKey        string `json:"pubkey"`
	SentCount     int    `json:"sent_count"`
	ReceivedCount int    `json:"received_count"`
}
