package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudshop/backend/services/common/middleware"
	"github.com/cloudshop/backend/services/import-service/controllers"
)

// RegisterRoutes wires the import-service HTTP routes. The import endpoint is
// gated by basic auth, matching the admin-only upload flow.
func RegisterRoutes(r *gin.Engine, importController *controllers.ImportController) {
	importRoutes := r.Group("/import")
	importRoutes.Use(middleware.BasicAuth())
	{
		importRoutes.GET("", importController.GetImportURL)
	}
}
