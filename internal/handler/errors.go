package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quillpress/internal/service"
)

const internalErrorMessage = "Internal Server Error"

// HTTPError 携带状态码与可直接返回给客户端的提示信息。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func newHTTPError(status int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &HTTPError{Status: status, Message: message}
}

func badRequest(message string) *HTTPError   { return newHTTPError(http.StatusBadRequest, message) }
func unauthorized(message string) *HTTPError { return newHTTPError(http.StatusUnauthorized, message) }
func forbidden(message string) *HTTPError    { return newHTTPError(http.StatusForbidden, message) }
func notFound(message string) *HTTPError     { return newHTTPError(http.StatusNotFound, message) }

// fail 记录错误并中断后续处理，由 ErrorResponder 统一输出。
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorResponder serializes the last error recorded on the context as
// {success:false, statusCode, message}.
func ErrorResponder() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		httpErr := translateError(err)
		if httpErr.Status >= http.StatusInternalServerError {
			log.Printf("[ERROR] %s %s (request %s): %v", c.Request.Method, c.Request.URL.Path, middleware.GetReqID(c.Request.Context()), err)
		}
		writeError(c, httpErr)
	}
}

// Recovery 将 panic 转换为标准的 500 响应。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[ERROR] panic on %s %s (request %s): %v", c.Request.Method, c.Request.URL.Path, middleware.GetReqID(c.Request.Context()), recovered)
		writeError(c, newHTTPError(http.StatusInternalServerError, internalErrorMessage))
		c.Abort()
	})
}

func writeError(c *gin.Context, httpErr *HTTPError) {
	c.JSON(httpErr.Status, gin.H{
		"success":    false,
		"statusCode": httpErr.Status,
		"message":    httpErr.Message,
	})
}

func translateError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return badRequest(service.ValidationMessage(err))
	case errors.Is(err, service.ErrUserExists):
		return badRequest("Username or email already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		return unauthorized("Invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		return forbidden("You are not allowed to perform this action")
	case errors.Is(err, service.ErrUserNotFound):
		return notFound("User not found")
	case errors.Is(err, service.ErrPostNotFound):
		return notFound("Post not found")
	case errors.Is(err, service.ErrCommentNotFound):
		return notFound("Comment not found")
	case errors.Is(err, service.ErrUploadTooLarge):
		return badRequest("Image is too large")
	case errors.Is(err, service.ErrUnsupportedImage):
		return badRequest("Only JPEG, PNG, GIF and WebP images are accepted")
	default:
		return newHTTPError(http.StatusInternalServerError, internalErrorMessage)
	}
}
