package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-adp-admin/internal/service"
)

// UnmatchedRoute labels requests no route answered.
const UnmatchedRoute = "unmatched"

// Metrics records duration, count and in-flight requests per route template,
// so every row of a view shares the /rows/:id/... series. Requests to
// skipPaths, typically the scrape endpoint, are not recorded.
func Metrics(metrics *service.MetricsService, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		done := metrics.RequestStarted()
		start := time.Now()
		c.Next()
		done()
		metrics.ObserveHTTPRequest(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return UnmatchedRoute
}
