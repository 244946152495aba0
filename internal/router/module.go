package router

import "github.com/gin-gonic/gin"

// Module is one feature area of the API (authentication, the user graph).
// Each module carries its own handlers plus the session guard it needs, so
// registration order between modules does not matter.
type Module interface {
	Register(rg *gin.RouterGroup)
}
