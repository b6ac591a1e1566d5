package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"
)

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ClaimsQueryParams are the query parameters accepted by the claims
// endpoints. FromBlock overrides the persisted cursor and the default
// lookback window for a single request.
type ClaimsQueryParams struct {
	FromBlock *uint64 `schema:"from_block"`
	Limit     int     `schema:"limit"`
}

type Meta struct {
	Provider   string `json:"provider"`
	TotalItems int    `json:"total_items"`
}

type QueryResponse struct {
	Meta Meta        `json:"meta"`
	Data interface{} `json:"data,omitempty"`
}

func ParseClaimsQueryParams(r *http.Request) (ClaimsQueryParams, error) {
	var params ClaimsQueryParams
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		log.Error().Err(err).Msg("Error parsing query params")
		return ClaimsQueryParams{}, err
	}
	if params.Limit < 0 {
		return ClaimsQueryParams{}, fmt.Errorf("limit cannot be negative")
	}
	return params, nil
}

func writeError(c *gin.Context, message string, code int) {
	c.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}

var (
	BadRequestErrorHandler = func(c *gin.Context, err error) {
		writeError(c, err.Error(), http.StatusBadRequest)
	}
	InternalErrorHandler = func(c *gin.Context) {
		writeError(c, "An unexpected error occurred.", http.StatusInternalServerError)
	}
	UnauthorizedErrorHandler = func(c *gin.Context, err error) {
		writeError(c, err.Error(), http.StatusUnauthorized)
	}
	BadGatewayErrorHandler = func(c *gin.Context, err error) {
		writeError(c, err.Error(), http.StatusBadGateway)
	}
)
