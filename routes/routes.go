package routes

import (
	"Squares/controllers"
	"Squares/middleware"
	"Squares/services/squares"
	"Squares/services/store"
	utils "Squares/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies are the services the handlers run against
type Dependencies struct {
	Engine *squares.Engine
	Store  store.Store
	Auth   controllers.AuthSettings
	// Health lists what /health pings, by name
	Health map[string]controllers.Pinger
	Log    *zap.SugaredLogger
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	// utils global
	router.Use(utils.ErrorHandler(deps.Log))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/health", controllers.Health(deps.Health))

	api.POST("/login", controllers.Login(deps.Store, deps.Auth))

	api.POST("/signup", controllers.SignUp(deps.Store, deps.Auth))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired(deps.Auth.JWTSecret))
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.Me(deps.Store))

		authentication.GET("/profile", controllers.GetProfile(deps.Engine))

		games := authentication.Group("/games")
		{
			games.GET("", controllers.ListGames(deps.Engine))
			games.POST("", controllers.CreateGame(deps.Engine))
			games.GET("/:game_id", controllers.GetGame(deps.Engine))
			games.DELETE("/:game_id", controllers.DeleteGame(deps.Engine))
			games.POST("/:game_id/join", controllers.JoinGame(deps.Engine))
			games.POST("/:game_id/leave", controllers.LeaveGame(deps.Engine))
			games.POST("/:game_id/start", controllers.StartGame(deps.Engine))
			games.POST("/:game_id/score", controllers.RecordScore(deps.Engine))
		}
	}
}
