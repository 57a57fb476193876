package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/davidarico/subtitle-portal/internal/api/http"
	"github.com/davidarico/subtitle-portal/internal/api/http/middleware"
	projecthttp "github.com/davidarico/subtitle-portal/internal/projects/http"
	"github.com/davidarico/subtitle-portal/internal/projects/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *pgxpool.Pool
	Projects    *service.Service
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())

	projecthttp.Register(api.Group("/projects"), dep.Projects)

	return r
}
