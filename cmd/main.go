package main

import (
	"net/http"
	"time"

	"github.com/festive-labs/santagames-backend/internal/notification"
	"github.com/festive-labs/santagames-backend/internal/pkg/middleware"
	"github.com/festive-labs/santagames-backend/internal/pkg/pubsub"
	"github.com/festive-labs/santagames-backend/internal/realtime"
	"github.com/festive-labs/santagames-backend/internal/tambola"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	setupViper()
	setupZerolog()
	pubsub.InitPubSub()
	db := setupDb()
	apiRouter := setupApiRouter(db)

	defer func() { pubsub.CloseClient() }()

	port := viper.GetString("PORT")
	server := &http.Server{
		Addr:        port,
		Handler:     apiRouter,
		ReadTimeout: 10 * time.Second,
		// No write timeout: the handler set includes long-lived websockets.
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setupDb() *gorm.DB {
	dbUrl := viper.GetString("DB_URL")

	db, err := gorm.Open(postgres.Open(dbUrl), &gorm.Config{})

	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	sqlDb, _ := db.DB()

	sqlDb.SetMaxOpenConns(50)
	sqlDb.SetConnMaxLifetime(time.Minute * 10)

	return db
}

func setupApiRouter(db *gorm.DB) *gin.Engine {
	apiRouter := gin.Default()
	routerGroup := apiRouter.Group("/santagames-api")

	middleware.RegisterGlobalMiddleware(apiRouter)

	notifier := notification.NewPubSub()
	registry := realtime.NewRegistry()
	coordinator := realtime.NewCoordinator(tambola.NewStore(db), registry, notifier)

	realtime.RegisterRoutes(routerGroup, coordinator, registry)
	tambola.RegisterRoutes(routerGroup, db, coordinator, notifier)

	return apiRouter
}

func setupViper() {
	viper.AutomaticEnv()
	viper.SetConfigFile("./.env")
	_ = viper.ReadInConfig()
}

func setupZerolog() {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
