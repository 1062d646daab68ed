package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maboutique/maboutique-api/internal/infrastructure/database"
	"github.com/maboutique/maboutique-api/internal/interfaces/http/response"
	"gorm.io/gorm"
)

// UnitOfWork runs each request in its own transaction. The response is held back
// until the outcome is known. Success commits. An error status or a recorded
// error rolls back, and a recorded error behind a success status turns into a 500.
// A panic rolls back before gin.Recovery sees it.
func UnitOfWork(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tx := db.WithContext(c.Request.Context()).Begin()
		if tx.Error != nil {
			_ = c.Error(tx.Error)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{Error: "Internal server error"})
			return
		}

		original := c.Writer
		buffered := &bufferedWriter{ResponseWriter: original, status: http.StatusOK}
		c.Writer = buffered
		c.Request = c.Request.WithContext(database.WithTx(c.Request.Context(), tx))

		finished := false
		defer func() {
			c.Writer = original
			if !finished {
				tx.Rollback()
			}
		}()

		c.Next()

		if buffered.status >= http.StatusBadRequest || len(c.Errors) > 0 {
			tx.Rollback()
			finished = true
			if buffered.status < http.StatusBadRequest {
				// The work was rolled back; never report success.
				c.Writer = original
				c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{Error: "Internal server error"})
				return
			}
			buffered.flush()
			return
		}

		if err := tx.Commit().Error; err != nil {
			finished = true
			c.Writer = original
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.ErrorBody{Error: "Internal server error"})
			return
		}

		finished = true
		buffered.flush()
	}
}

// bufferedWriter keeps the status and body in memory until flush
type bufferedWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferedWriter) WriteHeader(code int) {
	if code > 0 {
		w.status = code
	}
}

func (w *bufferedWriter) WriteHeaderNow() {}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) Status() int {
	return w.status
}

func (w *bufferedWriter) Size() int {
	if w.body.Len() == 0 {
		return -1
	}
	return w.body.Len()
}

func (w *bufferedWriter) Written() bool {
	return false
}

func (w *bufferedWriter) flush() {
	w.ResponseWriter.WriteHeader(w.status)
	if w.body.Len() == 0 {
		w.ResponseWriter.WriteHeaderNow()
		return
	}
	_, _ = w.ResponseWriter.Write(w.body.Bytes())
}
