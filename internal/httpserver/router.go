package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	middleware "github.com/Skotchmaster/storefront/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type Deps struct {
	DB     *gorm.DB
	Logger *slog.Logger
	// Search is nil when Elasticsearch is not configured.
	Search Pinger

	Auth     *AuthHTTP
	Users    *UserHTTP
	Catalog  *CatalogHTTP
	Cart     *CartHTTP
	Orders   *OrderHTTP
	Wishlist *WishlistHTTP
	Feedback *FeedbackHTTP
	Admin    *AdminHTTP

	JWTSecret    []byte
	CookieSecure bool
	CORSOrigins  []string
	// CSRF is nil when the double-submit check is disabled.
	CSRF *csrf.Config
}

// NewServer builds the echo instance with the shared middleware chain and every route mounted.
func NewServer(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewRequestValidator()

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e.Use(loggingmw.RequestLogger(logger, "/health/"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, headerIdempotencyKey, "X-CSRF-Token",
		},
	}))
	if d.CSRF != nil {
		cfg := *d.CSRF
		cfg.SkipPrefixes = append(cfg.SkipPrefixes, "/api/auth/", "/api/health", "/health/")
		e.Use(csrf.Middleware(cfg))
	}

	Register(e, d)
	return e
}

// RequirePermission authenticates the request and rejects roles the policy does not allow for action.
func RequirePermission(auth *middleware.Authenticator, action authz.Action) echo.MiddlewareFunc {
	return auth.Require(func(claims *tokens.AccessClaims) error {
		role, err := authz.ParseRole(claims.Role)
		if err != nil || !authz.Allowed(role, action) {
			return echo.NewHTTPError(http.StatusForbidden, "Access denied")
		}
		return nil
	})
}

func Register(e *echo.Echo, d *Deps) {
	health := &HealthHTTP{DB: d.DB, Search: d.Search}
	e.GET("/health/live", health.Live)
	e.GET("/health/ready", health.Ready)

	auth := middleware.NewAuthenticator(d.JWTSecret, d.CookieSecure)
	permit := func(a authz.Action) echo.MiddlewareFunc { return RequirePermission(auth, a) }

	api := e.Group("/api")
	api.GET("/health", health.Health)

	a := api.Group("/auth")
	a.POST("/register", d.Auth.Register)
	a.POST("/login", d.Auth.Login)
	a.POST("/login-otp", d.Auth.LoginOTP)
	a.POST("/verify-otp", d.Auth.VerifyOTP)
	a.POST("/logout", d.Auth.Logout)
	a.POST("/forgot-password", d.Auth.ForgotPassword)
	a.POST("/reset-password", d.Auth.ResetPassword)

	u := api.Group("/users")
	u.GET("/profile", d.Users.Profile, permit(authz.ActionProfile))
	u.PUT("/profile", d.Users.UpdateProfile, permit(authz.ActionProfile))
	u.GET("", d.Users.List, permit(authz.ActionUsersAdmin))
	u.PUT("/:userId/role", d.Users.SetRole, permit(authz.ActionUsersAdmin))
	u.DELETE("/:userId", d.Users.Delete, permit(authz.ActionUsersAdmin))

	cat := api.Group("/categories")
	cat.GET("", d.Catalog.Categories)
	cat.POST("/create", d.Catalog.CreateCategory, permit(authz.ActionCatalogWrite))
	cat.PUT("/update/:id", d.Catalog.UpdateCategory, permit(authz.ActionCatalogWrite))

	p := api.Group("/products")
	p.GET("/all", d.Catalog.Products)
	p.GET("/filter", d.Catalog.Filter)
	p.GET("/brands", d.Catalog.Brands)
	p.GET("/search", d.Catalog.Search)
	p.GET("/:id", d.Catalog.GetProduct)
	p.POST("/create", d.Catalog.CreateProduct, permit(authz.ActionCatalogWrite))
	p.PUT("/update/:id", d.Catalog.UpdateProduct, permit(authz.ActionCatalogWrite))

	cart := api.Group("/cart", permit(authz.ActionCartManage))
	cart.GET("/get-cart", d.Cart.GetCart)
	cart.POST("/add-to-cart", d.Cart.AddToCart)
	cart.PUT("/update-cart", d.Cart.UpdateCart)
	cart.DELETE("/remove-from-cart/:productId", d.Cart.RemoveFromCart)
	cart.DELETE("/clear-cart", d.Cart.ClearCart)

	o := api.Group("/orders")
	o.POST("/create", d.Orders.CreateOrder, permit(authz.ActionOrderPlace))
	o.GET("/user-orders", d.Orders.UserOrders, permit(authz.ActionOrderReadOwn))
	o.GET("/user-order/:orderId", d.Orders.UserOrder, permit(authz.ActionOrderReadOwn))
	o.PUT("/cancel/:orderId", d.Orders.CancelOrder, permit(authz.ActionOrderCancelOwn))
	o.GET("/admin-get-all-orders", d.Orders.AdminOrders, permit(authz.ActionOrderAdmin))
	o.PUT("/admin-update-order/:orderId", d.Orders.AdminUpdateOrder, permit(authz.ActionOrderAdmin))
	o.GET("/admin-orders-stats", d.Orders.AdminStats, permit(authz.ActionOrderAdmin))

	w := api.Group("/wishlist", permit(authz.ActionWishlist))
	w.GET("", d.Wishlist.List)
	w.POST("/add", d.Wishlist.Add)
	w.DELETE("/remove/:productId", d.Wishlist.Remove)
	w.DELETE("/clear", d.Wishlist.Clear)

	f := api.Group("/feedback")
	f.POST("/create", d.Feedback.Create, permit(authz.ActionFeedbackWrite))
	f.PUT("/update", d.Feedback.Update, permit(authz.ActionFeedbackWrite))
	f.GET("/user-product-feedback", d.Feedback.UserProductFeedback, permit(authz.ActionFeedbackWrite))
	f.GET("/product-feedback", d.Feedback.ProductFeedback)
	f.GET("/product-feedback-stats", d.Feedback.Stats)

	api.GET("/admin/overview", d.Admin.Overview, permit(authz.ActionDashboard))
}
