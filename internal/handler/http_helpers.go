package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quillpress/internal/service"
)

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, badRequest(message))
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// pathID 读取权限中间件已解析的路径参数，未解析时回退到直接解析。
func pathID(c *gin.Context, key string) (uint, bool) {
	if cached, ok := c.Get(paramContextKey(key)); ok {
		if id, ok := cached.(uint); ok {
			return id, true
		}
	}
	id, err := parseUintParam(c, key)
	if err != nil {
		fail(c, badRequest(fmt.Sprintf("Invalid %s", key)))
		return 0, false
	}
	return id, true
}

func paramContextKey(key string) string {
	return "__param_" + key
}

func queryUint(c *gin.Context, key string) uint {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func queryInt(c *gin.Context, key string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return parsed
}

func queryWindow(c *gin.Context) service.Window {
	return service.Window{
		StartIndex: queryInt(c, "startIndex"),
		Limit:      queryInt(c, "limit"),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
