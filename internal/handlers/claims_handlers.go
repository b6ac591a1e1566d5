package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/curachain/claimscan/api"
	config "github.com/curachain/claimscan/configs"
	"github.com/curachain/claimscan/internal/common"
	"github.com/curachain/claimscan/internal/scanner"
	"github.com/curachain/claimscan/internal/source"
)

// package-level scanner shared by the handlers, set once at startup
var claimScanner *scanner.Scanner

func Init(s *scanner.Scanner) {
	claimScanner = s
}

// ClaimModel is the API representation of one claim event.
type ClaimModel struct {
	Kind            string  `json:"kind"`
	ClaimKey        string  `json:"claim_key"`
	Provider        string  `json:"provider"`
	Code            uint16  `json:"code"`
	Year            uint16  `json:"year"`
	Amount          string  `json:"amount,omitempty"`
	AmountFormatted string  `json:"amount_formatted,omitempty"`
	VisitIndex      *uint32 `json:"visit_index,omitempty"`
	Reason          string  `json:"reason,omitempty"`
	BlockNumber     uint64  `json:"block_number"`
	TransactionHash string  `json:"transaction_hash"`
	ExplorerURL     string  `json:"explorer_url,omitempty"`
}

// GetProviderClaims scans for new claim events attributed to the provider and
// returns the reconstructed history, most recent first. An optional
// from_block query parameter overrides the resume cursor for this request.
func GetProviderClaims(c *gin.Context) {
	provider := c.Param("provider")
	queryParams, err := api.ParseClaimsQueryParams(c.Request)
	if err != nil {
		api.BadRequestErrorHandler(c, err)
		return
	}

	events, err := claimScanner.Scan(c.Request.Context(), provider, queryParams.FromBlock)
	if err != nil {
		handleScanError(c, err)
		return
	}
	respondWithClaims(c, provider, events, queryParams.Limit)
}

// GetProviderOlderClaims walks the scan window backward one lookback and
// returns the events found there, for callers that need history older than
// the default window.
func GetProviderOlderClaims(c *gin.Context) {
	provider := c.Param("provider")
	queryParams, err := api.ParseClaimsQueryParams(c.Request)
	if err != nil {
		api.BadRequestErrorHandler(c, err)
		return
	}

	events, err := claimScanner.LoadOlder(c.Request.Context(), provider)
	if err != nil {
		handleScanError(c, err)
		return
	}
	respondWithClaims(c, provider, events, queryParams.Limit)
}

func handleScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, source.ErrUnavailable), errors.Is(err, scanner.ErrRangeFloorExceeded):
		log.Error().Err(err).Msg("Scan failed against the event source")
		api.BadGatewayErrorHandler(c, err)
	default:
		api.BadRequestErrorHandler(c, err)
	}
}

func respondWithClaims(c *gin.Context, provider string, events []common.ClaimEvent, limit int) {
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}

	data := make([]ClaimModel, 0, len(events))
	for _, event := range events {
		model := ClaimModel{
			Kind:            string(event.Kind),
			ClaimKey:        event.ClaimKey,
			Provider:        event.Provider,
			Code:            event.Code,
			Year:            event.Year,
			VisitIndex:      event.VisitIndex,
			Reason:          event.Reason,
			BlockNumber:     event.SourceRef.BlockNumber,
			TransactionHash: event.SourceRef.TransactionHash,
			ExplorerURL:     event.ExplorerURL(config.Cfg.RPC.ExplorerTxURL),
		}
		if event.Amount != nil {
			model.Amount = event.Amount.String()
			model.AmountFormatted = event.FormattedAmount()
		}
		data = append(data, model)
	}

	c.JSON(http.StatusOK, api.QueryResponse{
		Meta: api.Meta{
			Provider:   provider,
			TotalItems: len(data),
		},
		Data: data,
	})
}
