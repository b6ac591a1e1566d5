package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitIndex(v uint32) *uint32 {
	return &v
}

func TestClaimEventValidateExclusivity(t *testing.T) {
	paid := ClaimEvent{
		Kind:       ClaimKindPaid,
		ClaimKey:   "0x01",
		Provider:   "0xff0cb0351a356ad16987e5809a8daaaf34f5adbe",
		Amount:     big.NewInt(1500000),
		VisitIndex: visitIndex(3),
	}
	assert.NoError(t, paid.Validate())

	rejected := ClaimEvent{
		Kind:     ClaimKindRejected,
		ClaimKey: "0x02",
		Provider: "0xff0cb0351a356ad16987e5809a8daaaf34f5adbe",
		Reason:   "not covered",
	}
	assert.NoError(t, rejected.Validate())

	paidMissingAmount := paid
	paidMissingAmount.Amount = nil
	assert.Error(t, paidMissingAmount.Validate())

	paidWithReason := paid
	paidWithReason.Reason = "oops"
	assert.Error(t, paidWithReason.Validate())

	rejectedWithAmount := rejected
	rejectedWithAmount.Amount = big.NewInt(1)
	assert.Error(t, rejectedWithAmount.Validate())

	unknownKind := ClaimEvent{Kind: "refunded"}
	assert.Error(t, unknownKind.Validate())
}

func TestFormattedAmount(t *testing.T) {
	cases := []struct {
		amount   int64
		expected string
	}{
		{1500000, "1.500000"},
		{123, "0.000123"},
		{0, "0.000000"},
		{1000000, "1.000000"},
		{987654321, "987.654321"},
	}
	for _, tc := range cases {
		event := ClaimEvent{Kind: ClaimKindPaid, Amount: big.NewInt(tc.amount)}
		assert.Equal(t, tc.expected, event.FormattedAmount())
	}

	rejected := ClaimEvent{Kind: ClaimKindRejected}
	assert.Equal(t, "", rejected.FormattedAmount())
}

func TestExplorerURL(t *testing.T) {
	event := ClaimEvent{
		SourceRef: SourceRef{
			BlockNumber:     123,
			TransactionHash: "0xabc123",
		},
	}
	assert.Equal(t, "https://explorer.example.com/tx/0xabc123", event.ExplorerURL("https://explorer.example.com/tx/%s"))
	assert.Equal(t, "https://explorer.example.com/tx/0xabc123", event.ExplorerURL("https://explorer.example.com/tx/"))
	assert.Equal(t, "", event.ExplorerURL(""))

	noTx := ClaimEvent{}
	assert.Equal(t, "", noTx.ExplorerURL("https://explorer.example.com/tx/%s"))
}

func TestNormalizeAddress(t *testing.T) {
	normalized, err := NormalizeAddress("0xFF0CB0351a356ad16987E5809a8dAaaF34F5adbe")
	require.NoError(t, err)
	assert.Equal(t, "0xff0cb0351a356ad16987e5809a8daaaf34f5adbe", normalized)

	normalized, err = NormalizeAddress("  0xff0cb0351a356ad16987e5809a8daaaf34f5adbe ")
	require.NoError(t, err)
	assert.Equal(t, "0xff0cb0351a356ad16987e5809a8daaaf34f5adbe", normalized)

	for _, invalid := range []string{"", "0x123", "ff0cb0351a356ad16987e5809a8daaaf34f5adbe", "0xzz0cb0351a356ad16987e5809a8daaaf34f5adbe"} {
		_, err := NormalizeAddress(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xFF0CB0351A356AD16987E5809A8DAAAF34F5ADBE", "0xff0cb0351a356ad16987e5809a8daaaf34f5adbe"))
	assert.True(t, SameAddress(" 0xff0cb0351a356ad16987e5809a8daaaf34f5adbe", "0xff0cb0351a356ad16987e5809a8daaaf34f5adbe "))
	assert.False(t, SameAddress("0xff0cb0351a356ad16987e5809a8daaaf34f5adbe", "0xaa0cb0351a356ad16987e5809a8daaaf34f5adbe"))
}
