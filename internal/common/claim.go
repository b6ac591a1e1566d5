package common

import (
	"fmt"
	"math/big"
	"strings"
)

type ClaimKind string

const (
	ClaimKindPaid     ClaimKind = "paid"
	ClaimKindRejected ClaimKind = "rejected"
)

// AmountDecimals is the number of implied decimal places in paid amounts.
const AmountDecimals = 6

// SourceRef is the on-chain provenance of a claim event.
type SourceRef struct {
	BlockNumber     uint64 `json:"block_number"`
	TransactionHash string `json:"transaction_hash"`
}

// ClaimEvent is one adjudicated claim outcome reconstructed from the
// contract's event logs. Exactly one of (Amount, VisitIndex) or Reason is
// populated, determined by Kind.
type ClaimEvent struct {
	Kind       ClaimKind `json:"kind"`
	ClaimKey   string    `json:"claim_key"`
	Provider   string    `json:"provider"`
	Code       uint16    `json:"code"`
	Year       uint16    `json:"year"`
	Amount     *big.Int  `json:"amount,omitempty"`
	VisitIndex *uint32   `json:"visit_index,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	SourceRef  SourceRef `json:"source_ref"`
}

// Validate checks the kind/field exclusivity invariant.
func (e *ClaimEvent) Validate() error {
	switch e.Kind {
	case ClaimKindPaid:
		if e.Amount == nil || e.VisitIndex == nil {
			return fmt.Errorf("paid claim %s is missing amount or visit index", e.ClaimKey)
		}
		if e.Reason != "" {
			return fmt.Errorf("paid claim %s carries a rejection reason", e.ClaimKey)
		}
	case ClaimKindRejected:
		if e.Amount != nil || e.VisitIndex != nil {
			return fmt.Errorf("rejected claim %s carries payment fields", e.ClaimKey)
		}
	default:
		return fmt.Errorf("unknown claim kind %q", e.Kind)
	}
	return nil
}

// FormattedAmount renders the paid amount with its implied decimal places.
// Returns "" for rejected claims.
func (e *ClaimEvent) FormattedAmount() string {
	if e.Amount == nil {
		return ""
	}
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(AmountDecimals), nil)
	whole, frac := new(big.Int).QuoRem(e.Amount, divisor, new(big.Int))
	return fmt.Sprintf("%s.%06d", whole.String(), frac.Uint64())
}

// ExplorerURL builds an external explorer link for the event's transaction
// from a template like "https://explorer.example.com/tx/%s".
func (e *ClaimEvent) ExplorerURL(template string) string {
	if template == "" || e.SourceRef.TransactionHash == "" {
		return ""
	}
	if strings.Contains(template, "%s") {
		return fmt.Sprintf(template, e.SourceRef.TransactionHash)
	}
	return strings.TrimRight(template, "/") + "/" + e.SourceRef.TransactionHash
}
