package middleware

import (
	"crypto/subtle"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/curachain/claimscan/api"
	config "github.com/curachain/claimscan/configs"
)

var ErrUnauthorized = fmt.Errorf("invalid username or password")

// Authorization enforces basic auth when credentials are configured. With no
// configured credentials the API is open (local/dev deployments).
func Authorization(c *gin.Context) {
	cfgUser := config.Cfg.API.BasicAuthUsername
	cfgPass := config.Cfg.API.BasicAuthPassword
	if cfgUser == "" && cfgPass == "" {
		c.Next()
		return
	}

	username, password, ok := c.Request.BasicAuth()
	if !ok || !validateCredentials(username, password, cfgUser, cfgPass) {
		api.UnauthorizedErrorHandler(c, ErrUnauthorized)
		c.Abort()
		return
	}
	c.Next()
}

func validateCredentials(username, password, cfgUser, cfgPass string) bool {
	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfgUser)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfgPass)) == 1
	return userMatch && passMatch
}
