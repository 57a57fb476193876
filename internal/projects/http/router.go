package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func Register(rg *gin.RouterGroup, svc ProjectService) {
	h := &Handler{svc: svc}

	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.POST("/refresh", h.refresh)
	rg.GET("/:id/transcript", h.transcript)
}
