package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"presale-backend/internal/core/ports"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// HealthCheck handles GET /health. Every dependency is checked concurrently;
// one failing check marks the service degraded.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			mu   sync.Mutex
			deps = make(map[string]ports.DependencyHealth, len(checkers))
			g    errgroup.Group
		)

		for _, checker := range checkers {
			g.Go(func() error {
				dep := checkDependency(c.Request.Context(), checker)
				mu.Lock()
				deps[checker.Name()] = dep
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		status := ports.HealthStatusHealthy
		httpCode := http.StatusOK
		for _, dep := range deps {
			if dep.Status != ports.HealthStatusHealthy {
				status = ports.HealthStatusDegraded
				httpCode = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

func checkDependency(ctx context.Context, checker ports.HealthChecker) ports.DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := checker.Ping(ctx)
	dep := ports.DependencyHealth{
		Status:    ports.HealthStatusHealthy,
		LatencyMS: time.Since(start).Milliseconds(),
	}
	if err != nil {
		dep.Status = ports.HealthStatusUnhealthy
		dep.Error = err.Error()
	}
	return dep
}
