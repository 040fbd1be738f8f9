package router

import (
	accountshandler "greetings_backend/internal/feature/accounts/transport/handler"
	greetingshandler "greetings_backend/internal/feature/greetings/transport/handler"
	mediahandler "greetings_backend/internal/feature/media/transport/handler"
	"greetings_backend/internal/platform/http/handler"
	jwtmw "greetings_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

func NewRouter(auth *accountshandler.AuthHandler, accounts *accountshandler.AccountHandler,
	greetings *greetingshandler.GreetingHandler, media *mediahandler.MediaHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", auth.Signup)
	// ログイン（JWT発行）— メールアドレス・外部IDの両方を受け付ける
	r.POST("/login", auth.Login)
	// Googleログイン
	r.GET("/auth/google", auth.GoogleLogin)
	r.GET("/auth/google/callback", auth.GoogleCallback)
	// トークン更新
	r.POST("/auth/refresh", auth.Refresh)
	// メール確認（コード再送・検証）はログイン前に行うため認証不要
	r.POST("/accounts/:id/confirmation/resend", accounts.ResendConfirmation)
	r.POST("/accounts/:id/confirmation/verify", accounts.VerifyEmail)

	// 認証必須のルート
	authed := r.Group("/")
	// リクエストヘッダーにJWTが必要になる
	authed.Use(jwtmw.AuthRequired())
	{
		authed.POST("/auth/logout", auth.Logout)

		authed.GET("/accounts/:id", accounts.Get)
		authed.PATCH("/accounts/:id", accounts.Update)
		authed.DELETE("/accounts/:id", accounts.Delete)

		authed.POST("/greetings", greetings.Create)
		authed.GET("/greetings", greetings.List)
		authed.POST("/greetings/suggest", greetings.Suggest)
		authed.GET("/greetings/:id", greetings.Get)
		authed.PATCH("/greetings/:id", greetings.Update)
		authed.DELETE("/greetings/:id", greetings.Delete)

		authed.POST("/media/uploads", media.RequestUpload)
		authed.GET("/media/url", media.ResolveDownload)
	}

	// 管理者のみ
	admin := r.Group("/")
	admin.Use(jwtmw.AuthRequired(), jwtmw.AdminRequired())
	{
		admin.GET("/accounts", accounts.List)
	}

	return r
}
