// Package server assembles the HTTP router and the gRPC health server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/LeeCh0129/greenie-backend/internal/controller"
	"github.com/LeeCh0129/greenie-backend/internal/middleware"
	"github.com/LeeCh0129/greenie-backend/internal/service"
	"github.com/LeeCh0129/greenie-backend/internal/utils"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles the application services the router dispatches to
type Services struct {
	Auth     service.IAuthService
	Users    service.IUserService
	Posts    service.IPostService
	Comments service.ICommentService
	Likes    service.ILikeService
}

// RouterConfig holds router options
type RouterConfig struct {
	ServiceName   string
	AuthRateLimit float64
	AuthRateBurst int
}

// NewRouter builds the gin engine with every route and the middleware stack
func NewRouter(lgr *zap.Logger, svc Services, validator *utils.Validator, db Pinger, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(lgr),
		middleware.Recovery(),
		sentrygin.New(sentrygin.Options{Repanic: true}),
		otelgin.Middleware(cfg.ServiceName),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.ErrorHandler(),
	)

	authCtl := controller.NewAuthController(svc.Auth, validator)
	userCtl := controller.NewUserController(svc.Users)
	postCtl := controller.NewPostController(svc.Posts, svc.Likes, validator)
	commentCtl := controller.NewCommentController(svc.Comments, svc.Likes, validator)

	requireAuth := middleware.RequireAuth(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth)
	limited := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst))

	r.GET("/healthz", healthz(db))

	auth := r.Group("/auth")
	{
		auth.POST("/register", limited, authCtl.Register)
		auth.POST("/login", limited, authCtl.Login)
		auth.POST("/refresh", limited, authCtl.Refresh)
		auth.POST("/logout", requireAuth, authCtl.Logout)
	}

	users := r.Group("/users")
	{
		users.GET("/nickname-duplicate", authCtl.CheckNickname)
		users.POST("/email-verification", limited, authCtl.RequestOTP)
		users.PATCH("/email-verification", limited, authCtl.VerifyOTP)
		users.PATCH("/password", limited, authCtl.ChangePassword)
		users.DELETE("/me", requireAuth, userCtl.DeleteMe)
		users.GET("/:id", userCtl.GetProfile)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", postCtl.List)
		posts.POST("", requireAuth, postCtl.Create)
		posts.GET("/:id", optionalAuth, postCtl.Get)
		posts.PATCH("/:id", requireAuth, postCtl.Update)
		posts.DELETE("/:id", requireAuth, postCtl.Delete)
		posts.PATCH("/:id/like", requireAuth, postCtl.ToggleLike)
		posts.GET("/:id/comments", commentCtl.ListByPost)
		posts.POST("/:id/comments", requireAuth, commentCtl.Create)
		posts.PATCH("/:id/comments/:commentId/like", requireAuth, commentCtl.ToggleLike)
	}

	me := r.Group("/me", requireAuth)
	{
		me.GET("/posts", postCtl.ListMine)
		me.GET("/comments", commentCtl.ListMine)
	}

	return r
}

func healthz(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
