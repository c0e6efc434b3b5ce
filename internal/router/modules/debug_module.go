package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/intesigroup/user-registry/internal/container"
	"github.com/intesigroup/user-registry/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public expvar endpoint, rate-limited per IP and path so debug traffic
	// does not eat into the API budget of the same client
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
