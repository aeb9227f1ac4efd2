package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/skillswap-org/skillswap-backend/internal/db"
  "github.com/skillswap-org/skillswap-backend/internal/handlers"
  "github.com/skillswap-org/skillswap-backend/internal/jobs"
  "github.com/skillswap-org/skillswap-backend/internal/logger"
  "github.com/skillswap-org/skillswap-backend/internal/middleware"
  "github.com/skillswap-org/skillswap-backend/internal/repos"
  "github.com/skillswap-org/skillswap-backend/internal/server"
  "github.com/skillswap-org/skillswap-backend/internal/services"
  "github.com/skillswap-org/skillswap-backend/internal/socket"
  "github.com/skillswap-org/skillswap-backend/internal/utils"
)

func main() {
  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  redisAddress := utils.GetEnv("REDIS_ADDRESS", "localhost:6379", log)
  redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  userRepo := repos.NewUserRepo(thePG, log)
  profileRepo := repos.NewProfileRepo(thePG, log)
  videoRepo := repos.NewVideoRepo(thePG, log)
  transactionRepo := repos.NewTransactionRepo(thePG, log)
  oneTimeCodeRepo := repos.NewOneTimeCodeRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Websocket Setup
  log.Info("Setting Up Websocket Hub From Main Now :)")
  wsHub := socket.NewHub(log)
  log.Info("Websocket Hub Set Up From Main Successful :)")

  // Redis PubSub
  log.Info("Setting Up Redis PubSub From Main Now :)")
  redisChanName := "skillswap_hub_broadcast"
  redisPubSub, err := socket.NewRedisPubSub(log, redisAddress, redisPassword, redisChanName)
  if err != nil {
    log.Warn("Failed to init redis pubsub", "error", err)
  } else {
    if err := redisPubSub.StartSubscriber(wsHub); err != nil {
      log.Warn("Failed to subscribe to Redis pub/sub", "error", err)
    } else {
      wsHub.SetRedisPubSub(redisPubSub)
      log.Info("Redis pubsub is active!")
    }
  }

  // Services Setup
  log.Info("Setting up Services from Main now...")
  emailService, err := services.NewEmailService(log)
  if err != nil {
    log.Error("Fatal error: Cannot init EmailService", "error", err)
    os.Exit(1)
  }
  var textService services.TextService
  if ts, err := services.NewTextService(log); err != nil {
    log.Warn("Could not init TextService, OTP SMS delivery disabled", "error", err)
  } else {
    textService = ts
  }
  var bucketService services.BucketService
  if bs, err := services.NewBucketService(context.Background(), log); err != nil {
    log.Warn("Could not init BucketService, uploads disabled", "error", err)
  } else {
    bucketService = bs
  }
  var avatarService services.AvatarService
  if bucketService != nil {
    if av, err := services.NewAvatarService(thePG, log, bucketService); err != nil {
      log.Warn("Could not init AvatarService, generated avatars disabled", "error", err)
    } else {
      avatarService = av
    }
  }
  otpService := services.NewOtpService(thePG, log, oneTimeCodeRepo, userRepo, profileRepo, emailService, textService)
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  meService := services.NewMeService(thePG, log, userRepo, profileRepo, avatarService, bucketService)
  videoService := services.NewVideoService(thePG, log, videoRepo, profileRepo, transactionRepo, bucketService, wsHub)
  ledgerService := services.NewLedgerService(thePG, log, transactionRepo)
  log.Info("Services Set Up From Main Successful :)")

  // Jobs Setup
  log.Info("Setting Up Jobs from Main now...")
  otpCleanup := jobs.NewOtpCleanupJob(log, oneTimeCodeRepo)
  if err := otpCleanup.Start(); err != nil {
    log.Warn("Failed to start OTP cleanup job", "error", err)
  }
  log.Info("Jobs Set Up From Main Successful :)")

  // Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(authService, otpService)
  meHandler := handlers.NewMeHandler(meService)
  videoHandler := handlers.NewVideoHandler(videoService)
  transactionHandler := handlers.NewTransactionHandler(ledgerService)
  wsHandler := handlers.WsHandler(wsHub, log)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:        authHandler,
    AuthMiddleware:     authMiddleware,
    MeHandler:          meHandler,
    VideoHandler:       videoHandler,
    TransactionHandler: transactionHandler,
    WsHandler:          wsHandler,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }

  // On Shutdown
  otpCleanup.Stop()
  if redisPubSub != nil {
    redisPubSub.Stop()
  }
}
