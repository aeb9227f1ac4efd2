package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/skillswap-org/skillswap-backend/internal/handlers"
  "github.com/skillswap-org/skillswap-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler        *handlers.AuthHandler
  AuthMiddleware     *middleware.AuthMiddleware
  MeHandler          *handlers.MeHandler
  VideoHandler       *handlers.VideoHandler
  TransactionHandler *handlers.TransactionHandler
  WsHandler          gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  router.Use(cors.New(cors.Config{
    AllowAllOrigins: true,
    AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:    []string{"Authorization", "Content-Type", "X-Requested-With"},
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api")
  {
    api.POST("/auth/send-otp", cfg.AuthHandler.SendOtp)
    api.POST("/auth/verify-otp", cfg.AuthHandler.VerifyOtp)
    api.POST("/auth/login", cfg.AuthHandler.Login)
  }

  //------------------------------------------
  // Protected Routes
  //------------------------------------------
  protected := api.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/auth/logout", cfg.AuthHandler.Logout)
  protected.GET("/ws", cfg.WsHandler)

  //ME
  protected.GET("/me", cfg.MeHandler.GetMe)
  protected.PUT("/me", cfg.MeHandler.UpdateMe)

  //Videos
  protected.POST("/videos", cfg.VideoHandler.Upload)
  protected.GET("/videos", cfg.VideoHandler.ListFeed)
  protected.POST("/videos/:id/watch", cfg.VideoHandler.Watch)

  //Transactions
  protected.GET("/transactions", cfg.TransactionHandler.List)
  protected.GET("/transactions/export", cfg.TransactionHandler.Export)

  return router
}
