package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-storefront-api/internal/platform/auth"
)

// AccessAPI exposes the storefront page policy to the rendering tier.
type AccessAPI struct{}

func NewAccessAPI() AccessAPI {
	return AccessAPI{}
}

// AccessCheck asks whether the caller may open a page.
type AccessCheck struct {
	Path string `json:"path" binding:"required"`
}

// AccessDecision is the page policy verdict.
type AccessDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Post /api/access/check
// Evaluates the page gate for the calling principal
func (api *AccessAPI) CheckAccess(c *gin.Context) {
	var payload AccessCheck
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	decision := auth.CheckPage(payload.Path, PrincipalFrom(c))
	c.JSON(http.StatusOK, AccessDecision{Allowed: decision.Allowed, Reason: decision.Reason})
}
