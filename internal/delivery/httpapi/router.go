package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func corsMiddleware(allowOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRouter(h *Handlers, allowOrigin string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(allowOrigin))

	v1 := router.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		v1.GET("/coins", h.ListCoins)
		v1.GET("/coins/:id", h.GetCoin)
		v1.POST("/coins", h.CreateCoin)
		v1.DELETE("/coins/:id", h.DeleteCoin)

		v1.POST("/users", h.CreateUser)
		v1.GET("/users/:user_id", h.GetUser)
		v1.PUT("/users/:user_id", h.UpdateUser)
		v1.DELETE("/users/:user_id", h.DeleteUser)
		v1.POST("/users/:user_id/push-token", h.RegisterPushToken)

		v1.GET("/users/:user_id/favorites", h.ListFavorites)
		v1.POST("/favorites", h.AddFavorite)
		v1.GET("/users/:user_id/favorites/check/:coin_id", h.CheckFavorite)
		v1.DELETE("/users/:user_id/favorites/:coin_id", h.RemoveFavorite)

		v1.POST("/notifications", h.CreateNotification)
		v1.GET("/users/:user_id/notifications", h.ListNotifications)
		v1.PATCH("/notifications/:id", h.UpdateNotification)
		v1.DELETE("/notifications/:id", h.DeactivateNotification)

		v1.GET("/users/:user_id/logs", h.ListLogs)
		v1.GET("/users/:user_id/logs/stats", h.LogStats)

		admin := v1.Group("/admin")
		{
			admin.GET("/logs", h.ListAllLogs)
			admin.POST("/refresh-prices", h.RefreshPrices)
			admin.POST("/dispatch-notifications", h.DispatchNotifications)
		}
	}

	return router
}
