package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/luizFelippedev/portfolio-backend/internal/auth"
	"github.com/luizFelippedev/portfolio-backend/internal/handler"
	"github.com/luizFelippedev/portfolio-backend/internal/ratelimit"
	"github.com/luizFelippedev/portfolio-backend/pkg/constants"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Auth          *auth.Service
	AuthHandler   *handler.AuthHandler
	Portfolio     *handler.PortfolioHandler
	Contacts      *handler.ContactHandler
	Notifications *handler.NotificationHandler
	Health        *handler.HealthHandler
	WS            *handler.WSHandler
	ContactLimit  *ratelimit.Limiter
}

// New builds the HTTP router.
func New(d Deps) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET(constants.PathHealth, d.Health.Health)
	r.GET(constants.PathReady, d.Health.Ready)

	api := r.Group("/api")
	{
		api.POST("/auth/login", d.AuthHandler.Login)

		api.GET("/projects", d.Portfolio.ListProjects)
		api.GET("/projects/:slug", d.Portfolio.GetProject)
		api.GET("/certificates", d.Portfolio.ListCertificates)

		api.POST("/contacts",
			handler.RateLimit(d.ContactLimit, "contact"),
			d.Contacts.Submit)

		me := api.Group("", handler.RequireAuth(d.Auth))
		{
			me.GET("/notifications", d.Notifications.ListMine)
			me.POST("/notifications/:id/read", d.Notifications.MarkRead)
		}

		admin := api.Group("/admin", handler.RequireAuth(d.Auth), handler.RequireAdmin())
		{
			admin.POST("/projects", d.Portfolio.CreateProject)
			admin.PUT("/projects/:id", d.Portfolio.UpdateProject)
			admin.DELETE("/projects/:id", d.Portfolio.DeleteProject)

			admin.POST("/certificates", d.Portfolio.CreateCertificate)
			admin.PUT("/certificates/:id", d.Portfolio.UpdateCertificate)
			admin.DELETE("/certificates/:id", d.Portfolio.DeleteCertificate)

			admin.GET("/contacts", d.Contacts.List)
			admin.POST("/contacts/:id/read", d.Contacts.MarkRead)

			admin.POST("/notifications", d.Notifications.Create)
		}
	}

	// Real-time connections authenticate in-band, not at upgrade time.
	r.GET(constants.PathWebSocket, d.WS.ServeWS)

	return r
}
