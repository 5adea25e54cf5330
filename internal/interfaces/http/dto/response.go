// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"z-story-ai-api/pkg/errors"
	"z-story-ai-api/pkg/logger"
)

// ErrorResponse 错误响应结构，detail 为对外可见的错误文本
type ErrorResponse struct {
	Detail  string `json:"detail"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// Error 返回错误响应
func Error(c *gin.Context, httpCode int, code errors.ErrorCode, detail string) {
	c.JSON(httpCode, ErrorResponse{
		Detail:  detail,
		Code:    string(code),
		TraceID: c.GetString("trace_id"),
	})
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, errors.CodeInvalidParam, detail)
}

// FromError 将应用错误映射为 HTTP 响应，非 AppError 一律按 500 处理
func FromError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), appErr.Message, err, "path", c.FullPath())
	}
	Error(c, status, appErr.Code, appErr.Cause())
}
