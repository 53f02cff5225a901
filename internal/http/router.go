package api

import (
	"log"
	stdhttp "net/http"
	"time"

	intauth "busgo/internal/auth"
	intconfig "busgo/internal/config"
	"busgo/internal/domain"
	"busgo/internal/gateway"
	h "busgo/internal/http/handlers"
	"busgo/internal/http/middleware"
	"busgo/internal/mailer"
	"busgo/internal/repositories"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	tokens := intauth.NewTokenManager(
		env.AccessTokenSecret, env.RefreshTokenSecret,
		env.AccessTokenTTL, env.RefreshTokenTTL,
	)

	userRepo := repositories.UserRepository{}
	routeRepo := repositories.RouteMapRepository{}
	bookingRepo := repositories.BookingRepository{}
	paymentRepo := repositories.PaymentRepository{}
	mail := mailer.NewSMTPSender(env)

	users := h.UserHandler{Users: userRepo, Mail: mail, Tokens: tokens, SecureCookies: !env.Debug}
	routes := h.RouteMapHandler{Routes: routeRepo, Users: userRepo}
	bookings := h.BookingHandler{
		Bookings: bookingRepo,
		Users:    userRepo,
		Routes:   routeRepo,
		Mail:     mail,
		Loc:      env.Location(),
	}
	payments := h.PaymentHandler{
		Payments:      paymentRepo,
		Routes:        routeRepo,
		Gateway:       gateway.NewRazorpayClient(env),
		GatewayKeyID:  env.RazorpayKeyID,
		GatewaySecret: env.RazorpaySecret,
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), corsPolicy())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	authed := middleware.RequireAuth(tokens)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)
	conductorOrAdmin := middleware.RequireRoles(domain.RoleConductor, domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		api.GET("/healthcheck", h.Health)
		api.GET("/db-check", h.DBCheck)

		userGroup := api.Group("/users")
		userGroup.POST("/send-otp", users.SendOTP)
		userGroup.POST("/register", users.Register)
		userGroup.POST("/login", users.Login)
		userGroup.GET("/logout", authed, users.Logout)
		userGroup.GET("/current-user", authed, users.CurrentUser)
		userGroup.PUT("/change-password", authed, users.ChangePassword)

		routeGroup := api.Group("/bus-route", authed)
		routeGroup.POST("/add", adminOnly, routes.Add)
		routeGroup.GET("/get-stops/:routeID", routes.GetStops)
		routeGroup.GET("/get-buses/:routeID", routes.GetBuses)
		routeGroup.PUT("/update/:routeID", adminOnly, routes.Update)
		routeGroup.DELETE("/delete/:routeID", adminOnly, routes.Delete)

		bookingGroup := api.Group("/bookings", authed)
		bookingGroup.POST("/create", bookings.Create)
		bookingGroup.GET("/get-all-tickets", bookings.TodaysTickets)
		bookingGroup.GET("/get-ticket/:ticketID", bookings.GetTicket)
		bookingGroup.GET("/get-ticket/:ticketID/e-ticket", bookings.ETicket)
		bookingGroup.PUT("/verify-ticket/:ticketID", conductorOrAdmin, bookings.VerifyTicket)
		bookingGroup.GET("/selling-history", conductorOrAdmin, bookings.SellingHistory)

		paymentGroup := api.Group("/payments", authed)
		paymentGroup.GET("/apikey", payments.APIKey)
		paymentGroup.POST("/calculate", payments.Calculate)
		paymentGroup.POST("/create", payments.Create)
		paymentGroup.POST("/verify", payments.Verify)
		paymentGroup.GET("/cancel/:orderID", payments.Cancel)
	}

	return r
}

func corsPolicy() gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	return cors.New(cfg)
}
