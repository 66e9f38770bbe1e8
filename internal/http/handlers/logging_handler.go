package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListLogEntries godoc
// @ID          listLogEntries
// @Summary     List recorded failures
// @Description Returns every failure recorded by the error reporter, oldest first.
// @Tags        Logging
// @Produce     json
//
// @Success     200  {array}   domain.LogEntry
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /logging [get]
func (h *Handlers) ListLogEntries(c *gin.Context) {
	entries, err := h.logSvc.ListAll(c.Request.Context())
	if err != nil {
		failFrom(c, err)
		return
	}
	ok(c, http.StatusOK, entries)
}

// Ping godoc
// @ID          ping
// @Summary     Liveness check
// @Tags        Health
// @Produce     json
// @Success     200  {object}  map[string]string
// @Router      /ping [get]
func Ping(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}
