package utils

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ParseUint64Param parses a numeric path parameter.
func ParseUint64Param(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// ParseUint64Query parses an optional numeric query parameter. An absent
// parameter yields nil without error.
func ParseUint64Query(c *gin.Context, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// ParseMillisQuery parses an optional unix-milliseconds query parameter into
// a timestamp. An absent parameter yields nil without error.
func ParseMillisQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	t := time.UnixMilli(millis)
	return &t, nil
}
