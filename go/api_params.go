package storefrontserver

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// bindPathParam binds a required simple-style path parameter. It writes a 400 and reports false on failure.
func bindPathParam(c *gin.Context, name string) (string, bool) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err == nil && strings.TrimSpace(value) == "" {
		err = fmt.Errorf("parameter '%s' is empty", name)
	}
	if err != nil {
		respondBadRequest(c, fmt.Errorf("invalid format for parameter %s: %w", name, err))
		return "", false
	}
	return strings.TrimSpace(value), true
}

// bindQueryParam binds an optional form-style query parameter into dest. It writes a 400 and reports false on failure.
func bindQueryParam(c *gin.Context, name string, dest any) bool {
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), dest); err != nil {
		respondBadRequest(c, fmt.Errorf("invalid format for parameter %s: %w", name, err))
		return false
	}
	return true
}
