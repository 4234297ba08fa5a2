package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudshop/backend/services/product-service/controllers"
)

func RegisterRoutes(r *gin.Engine, productController *controllers.ProductController) {
	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", productController.GetProducts)
		productRoutes.GET("/:id", productController.GetProductByID)
		productRoutes.POST("", productController.CreateProduct)
	}
}
