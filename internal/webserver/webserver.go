package webserver

import (
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/pawsworks/petshop/internal/app"
)

const AppContextKey = "petshop_app"

// WebServer wraps the echo instance and the route groups.
// Admin routes sit behind JWT auth, portal routes are public.
type WebServer struct {
	root   *echo.Echo
	api    *echo.Group
	portal *echo.Group
	appCtx app.AppContext
}

var server *WebServer

// Init builds the global web server instance.
func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = NewJsoniterSerializer()
	e.Validator = NewPayloadValidator()

	e.Use(middleware.Recover())
	e.Use(injectAppContext(appCtx))

	api := e.Group("/api/v1/admin")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(appCtx.Config().Web.JwtSecret),
		TokenLookup: "header:Authorization:Bearer ,query:token",
	}))

	portal := e.Group("/api/v1/portal")

	server = &WebServer{
		root:   e,
		api:    api,
		portal: portal,
		appCtx: appCtx,
	}
	return server
}

// injectAppContext attaches the application context to every request
func injectAppContext(appCtx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	}
}

// Instance returns the global web server
func Instance() *WebServer {
	return server
}

// Echo exposes the underlying echo instance (used by tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Start runs the HTTP listener until it fails or is shut down.
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("starting web server", zap.String("listen", addr))
	err := s.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// ApiGET registers an admin GET route
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers an admin POST route
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers an admin PUT route
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers an admin DELETE route
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

// PubGET registers a public portal GET route
func PubGET(path string, h echo.HandlerFunc) {
	server.portal.GET(path, h)
}

// PubPOST registers a public portal POST route
func PubPOST(path string, h echo.HandlerFunc) {
	server.portal.POST(path, h)
}

// RootPOST registers an unauthenticated route outside the portal group
func RootPOST(path string, h echo.HandlerFunc) {
	server.root.POST(path, h)
}
