package main

import (
	"context"
	"log"
	"log/slog"

	redisv9 "github.com/redis/go-redis/v9"

	"greetings_backend/internal/app/di"
	"greetings_backend/internal/app/router"
	accountsadapters "greetings_backend/internal/feature/accounts/adapters"
	accountshandler "greetings_backend/internal/feature/accounts/transport/handler"
	accountsusecase "greetings_backend/internal/feature/accounts/usecase"
	"greetings_backend/internal/feature/greetings/adapters/gemini"
	greetingshandler "greetings_backend/internal/feature/greetings/transport/handler"
	greetingsusecase "greetings_backend/internal/feature/greetings/usecase"
	mediahandler "greetings_backend/internal/feature/media/transport/handler"
	"greetings_backend/internal/platform/config"
	infradb "greetings_backend/internal/platform/db"
	jwt "greetings_backend/internal/platform/jwt"
	"greetings_backend/internal/platform/mailer"
	"greetings_backend/internal/platform/oauth"
	infraredis "greetings_backend/internal/platform/redis"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := accountsadapters.NewUserPostgres(db)
	greetingRepo := di.NewGreetingRepository(rdb, db, cfg.GreetingCacheTTL)

	// Usecase
	accountMailer := mailer.NewMailer(cfg.SMTP)
	accountUC := accountsusecase.NewAccountUsecase(userRepo, accountMailer, cfg.OTPExpiry)

	jwtGen := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTAccessExpiry)
	google := oauth.NewGoogleProvider(cfg.Google)
	authUC := accountsusecase.NewAuthUsecase(accountUC, jwtGen, google)

	mediaUC, err := di.NewMediaUsecase(ctx, cfg.S3)
	if err != nil {
		log.Fatal(err)
	}

	// Gemini未設定でも起動できるようにする
	var suggester greetingsusecase.MessageSuggester
	if g, err := gemini.NewGeminiSuggester(ctx); err != nil {
		slog.Warn("Gemini unavailable, greeting suggestions disabled", "error", err)
	} else {
		suggester = g
	}
	greetingUC := greetingsusecase.NewGreetingUsecase(greetingRepo, mediaUC, suggester)

	// Handler
	authH := accountshandler.NewAuthHandler(authUC)
	accountH := accountshandler.NewAccountHandler(accountUC)
	greetingH := greetingshandler.NewGreetingHandler(greetingUC)
	mediaH := mediahandler.NewMediaHandler(mediaUC)

	// ルータ生成
	router := router.NewRouter(authH, accountH, greetingH, mediaH)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
