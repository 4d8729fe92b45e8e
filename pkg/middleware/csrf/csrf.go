package csrf

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Config struct {
	CookieName string
	HeaderName string
	// SessionCookie is the cookie that carries the access token. Only
	// requests authenticated through it are checked.
	SessionCookie string

	Secure bool
	MaxAge time.Duration

	SkipPaths []string
}

func DefaultConfig() Config {
	return Config{
		CookieName:    "XSRF-TOKEN",
		HeaderName:    "X-CSRF-Token",
		SessionCookie: "accessToken",
		MaxAge:        24 * time.Hour,
	}
}

// Middleware applies a double-submit token check to cookie-authenticated
// requests. Bearer requests and anonymous requests pass through untouched.
func Middleware(cfg Config) echo.MiddlewareFunc {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = def.HeaderName
	}
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = def.SessionCookie
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = def.MaxAge
	}

	skip := map[string]struct{}{}
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper: func(c echo.Context) bool {
			req := c.Request()
			if _, ok := skip[req.URL.Path]; ok {
				return true
			}
			if req.Header.Get(echo.HeaderAuthorization) != "" {
				return true
			}
			_, err := req.Cookie(cfg.SessionCookie)
			return err != nil
		},
		TokenLookup:    "header:" + cfg.HeaderName,
		CookieName:     cfg.CookieName,
		CookiePath:     "/",
		CookieMaxAge:   int(cfg.MaxAge.Seconds()),
		CookieSecure:   cfg.Secure,
		CookieSameSite: http.SameSiteLaxMode,
	})
}
