package cmd

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	config "github.com/curachain/claimscan/configs"
	"github.com/curachain/claimscan/internal/handlers"
	"github.com/curachain/claimscan/internal/middleware"
	"github.com/curachain/claimscan/internal/scanner"
	"github.com/curachain/claimscan/internal/source"
	"github.com/curachain/claimscan/internal/storage"
)

var (
	apiCmd = &cobra.Command{
		Use:   "api",
		Short: "Serve the claim-history HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			RunApi(cmd, args)
		},
	}
)

func RunApi(cmd *cobra.Command, args []string) {
	binding, err := source.NewBinding(&config.Cfg.RPC)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bind the claims event source")
	}
	defer binding.Close()

	cursors, err := storage.NewCursorStore(&config.Cfg.Cursor)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create cursor store")
	}

	handlers.Init(scanner.NewScanner(binding, cursors))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())

	root := r.Group("/providers")
	{
		root.Use(middleware.Authorization)
		root.GET("/:provider/claims", handlers.GetProviderClaims)
		root.POST("/:provider/claims/older", handlers.GetProviderOlderClaims)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	host := config.Cfg.API.Host
	if host == "" {
		host = ":3000"
	}
	log.Info().Str("host", host).Msg("Serving claim-history API")
	if err := r.Run(host); err != nil {
		log.Fatal().Err(err).Msg("API server exited")
	}
}
