package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/salondesk/internal/metrics"
	"github.com/hitoshi/salondesk/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	AuthService      AuthServiceInterface
	PackageService   PackageServiceInterface
	BillService      BillServiceInterface
	DashboardService DashboardServiceInterface

	// メトリクス
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Token → RateLimit(General)
//
// 認証ルート（/auth/register, /auth/login）とヘルスチェック、メトリクスは
// 認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	packageHandler := NewPackageHandler(deps.PackageService)
	billHandler := NewBillHandler(deps.BillService, deps.Metrics)
	dashboardHandler := NewDashboardHandler(deps.DashboardService, deps.Metrics)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		// /auth/me はトークン検証が必要
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewTokenMiddleware(deps.TokenVerifier))
			r.Get("/me", authHandler.Me)
		})
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Token → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// パッケージ管理
		r.Route("/api/packages", func(r chi.Router) {
			r.Get("/", packageHandler.ListPackages)
			r.Post("/", packageHandler.CreatePackage)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", packageHandler.UpdatePackage)
				r.Delete("/", packageHandler.DeletePackage)
			})
		})

		// 会計管理（書き込みには専用レート制限を追加）
		r.Route("/api/bills", func(r chi.Router) {
			r.Get("/", billHandler.ListRecentBills)
			r.With(deps.RateLimiter.BillWriteMiddleware()).Post("/", billHandler.CreateBill)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", billHandler.GetBill)
				r.With(deps.RateLimiter.BillWriteMiddleware()).Put("/", billHandler.UpdateBill)
				r.With(deps.RateLimiter.BillWriteMiddleware()).Delete("/", billHandler.DeleteBill)
			})
		})

		// ダッシュボード
		r.Get("/api/dashboard/analytics", dashboardHandler.GetAnalytics)
	})

	return r
}
