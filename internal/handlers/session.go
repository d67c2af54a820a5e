package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JorgeHRP/conteudoteste/internal/auth"
)

// SessionCookie carries the signed session token.
const SessionCookie = "conteudoteste_sessao"

// RequireSession redirects to the login page when the request has no valid
// session cookie; otherwise it exposes the user name to the handler chain.
func RequireSession(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		usuario, err := authSvc.ValidateSession(token)
		if err != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set("usuario", usuario)
		c.Next()
	}
}
