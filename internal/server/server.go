package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shresthgour/indiamun-backend/internal/auth"
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
	"github.com/shresthgour/indiamun-backend/internal/auth/token"
	"github.com/shresthgour/indiamun-backend/internal/config"
	"github.com/shresthgour/indiamun-backend/internal/enrollment"
	enrolldomain "github.com/shresthgour/indiamun-backend/internal/enrollment/domain"
	"github.com/shresthgour/indiamun-backend/internal/logger"
	"github.com/shresthgour/indiamun-backend/internal/notification"
	obsmetrics "github.com/shresthgour/indiamun-backend/internal/observability/metrics"
	"github.com/shresthgour/indiamun-backend/internal/payment"
	paymentdomain "github.com/shresthgour/indiamun-backend/internal/payment/domain"
	"github.com/shresthgour/indiamun-backend/internal/providers/email"
	"github.com/shresthgour/indiamun-backend/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	obsmetrics.Module,
	email.Module,
	pdf.Module,
	notification.Module,
	auth.Module,
	enrollment.Module,
	payment.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	authSvc       authdomain.Service
	paymentSvc    paymentdomain.Service
	enrollmentSvc enrolldomain.Service
	tokens        *token.Issuer
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	AuthSvc       authdomain.Service
	PaymentSvc    paymentdomain.Service
	EnrollmentSvc enrolldomain.Service
	Tokens        *token.Issuer
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		authSvc:       p.AuthSvc,
		paymentSvc:    p.PaymentSvc,
		enrollmentSvc: p.EnrollmentSvc,
		tokens:        p.Tokens,
	}

	svc.registerUserRoutes()
	svc.registerPaymentRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerUserRoutes() {
	user := s.engine.Group("/api/v1/user")

	user.POST("/register", s.Register)
	user.POST("/verify-otp", s.VerifyOTP)
	user.POST("/login", s.Login)
	user.POST("/reset", s.ForgotPassword)
	user.POST("/reset/:token", s.ResetPassword)

	authed := user.Group("", s.AuthRequired())
	{
		authed.POST("/logout", s.Logout)
		authed.GET("/me", s.Me)
		authed.PUT("/update", s.UpdateProfile)
		authed.GET("/my-learning", s.MyLearning)
		authed.POST("/change-password", s.ChangePassword)
	}
}

func (s *Server) registerPaymentRoutes() {
	payments := s.engine.Group("/api/v1/payments")

	// The callback carries its own authentication: the provider
	// signature is verified before any state moves.
	payments.GET("/razorpay-key", s.CheckoutKey)
	payments.POST("/callback", s.Callback)

	authed := payments.Group("", s.AuthRequired())
	{
		authed.POST("/order", s.CreateOrder)
		authed.POST("/subscribe", s.Subscribe)
		authed.POST("/verify", s.VerifySubscription)
		authed.POST("/unsubscribe", s.RequireSubscriber(), s.Cancel)
		authed.GET("/enrollment/:product_id", s.EnrollmentStatus)
		authed.GET("", s.RequireAdmin(), s.MonthlyReport)
	}
}
