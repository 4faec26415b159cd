package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-stream-overlay/http/controller"
	middlewares "github.com/tnqbao/gau-stream-overlay/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}
	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api")
	{
		overlayRoutes := apiRoutes.Group("/overlays")
		{
			overlayRoutes.POST("/", ctrl.CreateOverlay)
			overlayRoutes.GET("/", ctrl.ListOverlays)
			overlayRoutes.GET("/:id", ctrl.GetOverlay)
			overlayRoutes.PUT("/:id", ctrl.UpdateOverlay)
			overlayRoutes.DELETE("/:id", ctrl.DeleteOverlay)
		}
	}
	return r
}
