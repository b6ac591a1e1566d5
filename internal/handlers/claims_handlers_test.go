package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curachain/claimscan/api"
	config "github.com/curachain/claimscan/configs"
	"github.com/curachain/claimscan/internal/common"
	"github.com/curachain/claimscan/internal/scanner"
	"github.com/curachain/claimscan/internal/source"
	"github.com/curachain/claimscan/internal/storage"
)

var testProvider = "0x" + strings.Repeat("ab", 20)

// staticSource serves a fixed set of claim events.
type staticSource struct {
	head   uint64
	events []common.ClaimEvent
}

func (s *staticSource) HeadBlock(ctx context.Context) (uint64, error) {
	return s.head, nil
}

func (s *staticSource) Capabilities() source.Capabilities {
	return source.Capabilities{ProviderFilter: true}
}

func (s *staticSource) FilterClaims(ctx context.Context, kind common.ClaimKind, provider string, fromBlock, toBlock uint64) ([]types.Log, error) {
	var logs []types.Log
	for i, event := range s.events {
		if event.Kind != kind || event.SourceRef.BlockNumber < fromBlock || event.SourceRef.BlockNumber > toBlock {
			continue
		}
		logs = append(logs, types.Log{
			BlockNumber: event.SourceRef.BlockNumber,
			TxHash:      gethCommon.BigToHash(big.NewInt(int64(i))),
		})
	}
	return logs, nil
}

func (s *staticSource) DecodeClaim(kind common.ClaimKind, lg types.Log) (common.ClaimEvent, error) {
	index := new(big.Int).SetBytes(lg.TxHash.Bytes()).Int64()
	return s.events[index], nil
}

func setupRouter(t *testing.T, events []common.ClaimEvent) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cursors, err := storage.NewMemoryCursorStore(&config.MemoryConfig{MaxItems: 10})
	require.NoError(t, err)

	src := &staticSource{head: 1000, events: events}
	Init(scanner.NewScanner(src, cursors, scanner.WithLookback(500)))

	r := gin.New()
	r.GET("/providers/:provider/claims", GetProviderClaims)
	r.POST("/providers/:provider/claims/older", GetProviderOlderClaims)
	return r
}

func TestGetProviderClaims(t *testing.T) {
	visit := uint32(2)
	events := []common.ClaimEvent{
		{
			Kind:       common.ClaimKindPaid,
			ClaimKey:   fmt.Sprintf("0x%064x", 1),
			Provider:   testProvider,
			Code:       42,
			Year:       2025,
			Amount:     big.NewInt(2500000),
			VisitIndex: &visit,
			SourceRef:  common.SourceRef{BlockNumber: 900, TransactionHash: "0xdead"},
		},
		{
			Kind:      common.ClaimKindRejected,
			ClaimKey:  fmt.Sprintf("0x%064x", 2),
			Provider:  testProvider,
			Code:      42,
			Year:      2025,
			Reason:    "duplicate claim",
			SourceRef: common.SourceRef{BlockNumber: 950, TransactionHash: "0xbeef"},
		},
	}
	r := setupRouter(t, events)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/providers/"+testProvider+"/claims", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meta api.Meta     `json:"meta"`
		Data []ClaimModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Meta.TotalItems)
	require.Len(t, resp.Data, 2)

	// newest first
	assert.Equal(t, uint64(950), resp.Data[0].BlockNumber)
	assert.Equal(t, "rejected", resp.Data[0].Kind)
	assert.Equal(t, "duplicate claim", resp.Data[0].Reason)
	assert.Empty(t, resp.Data[0].Amount)

	assert.Equal(t, uint64(900), resp.Data[1].BlockNumber)
	assert.Equal(t, "paid", resp.Data[1].Kind)
	assert.Equal(t, "2500000", resp.Data[1].Amount)
	assert.Equal(t, "2.500000", resp.Data[1].AmountFormatted)
	require.NotNil(t, resp.Data[1].VisitIndex)
	assert.Equal(t, uint32(2), *resp.Data[1].VisitIndex)
}

func TestGetProviderClaimsLimit(t *testing.T) {
	visit := uint32(1)
	var events []common.ClaimEvent
	for i := 0; i < 5; i++ {
		events = append(events, common.ClaimEvent{
			Kind:       common.ClaimKindPaid,
			ClaimKey:   fmt.Sprintf("0x%064x", i),
			Provider:   testProvider,
			Amount:     big.NewInt(1000000),
			VisitIndex: &visit,
			SourceRef:  common.SourceRef{BlockNumber: 900 + uint64(i)},
		})
	}
	r := setupRouter(t, events)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/providers/"+testProvider+"/claims?limit=2", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []ClaimModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

func TestGetProviderClaimsBadAddress(t *testing.T) {
	r := setupRouter(t, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/providers/not-an-address/claims", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProviderOlderClaims(t *testing.T) {
	visit := uint32(1)
	events := []common.ClaimEvent{{
		Kind:       common.ClaimKindPaid,
		ClaimKey:   fmt.Sprintf("0x%064x", 9),
		Provider:   testProvider,
		Amount:     big.NewInt(1000000),
		VisitIndex: &visit,
		SourceRef:  common.SourceRef{BlockNumber: 600},
	}}
	r := setupRouter(t, events)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/providers/"+testProvider+"/claims/older", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []ClaimModel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
}
