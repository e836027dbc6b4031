package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings the database. Failures use the standard error envelope.
func (a *API) HealthCheck(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil {
		writeError(c, newHTTPError(http.StatusInternalServerError, "database handle unavailable"))
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		writeError(c, newHTTPError(http.StatusServiceUnavailable, "database unreachable"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
