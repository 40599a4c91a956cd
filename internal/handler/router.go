package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/renrakucho/internal/metrics"
	"github.com/hitoshi/renrakucho/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           *metrics.Collector

	// サービス
	AuthService    AuthServiceInterface
	UserService    UserServiceInterface
	ContactService ContactServiceInterface
	AddressService AddressServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging →（認証ルートのみ）Auth → RateLimit(General)
//
// 認証をバイパスして連絡先・住所の永続化に到達する経路は存在しない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	contactHandler := NewContactHandler(deps.ContactService)
	addressHandler := NewAddressHandler(deps.AddressService)

	// --- 認証不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// ユーザー登録
	r.Post("/api/users", userHandler.Register)

	// ログイン（IP単位のレート制限を追加）
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/api/auth/login", authHandler.Login)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Delete("/api/auth/logout", authHandler.Logout)

		// 自分のプロフィール
		r.Route("/api/users/current", func(r chi.Router) {
			r.Get("/", userHandler.Current)
			r.Patch("/", userHandler.UpdateCurrent)
		})

		// 連絡先管理
		r.Route("/api/contacts", func(r chi.Router) {
			r.Post("/", contactHandler.Create)
			r.Get("/", contactHandler.Search)

			r.Route("/{contactId}", func(r chi.Router) {
				r.Get("/", contactHandler.Get)
				r.Patch("/", contactHandler.Update)
				r.Delete("/", contactHandler.Delete)

				// 住所管理（2段階の所有者検証）
				r.Route("/addresses", func(r chi.Router) {
					r.Post("/", addressHandler.Create)
					r.Get("/", addressHandler.List)

					r.Route("/{addressId}", func(r chi.Router) {
						r.Get("/", addressHandler.Get)
						r.Put("/", addressHandler.Update)
						r.Delete("/", addressHandler.Delete)
					})
				})
			})
		})
	})

	return r
}

// NewHealthHandler はDB接続を確認するヘルスチェックハンドラーを返す。
// GET /health
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		writeData(w, http.StatusOK, "OK")
	}
}
