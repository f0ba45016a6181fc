package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func setResponseDefaults(r *Response) {
	if r.Message == "" {
		r.Message = "Success"
	}
	if r.Code == 0 {
		r.Code = http.StatusOK
	}
}

func logResponseError(c *gin.Context, logger *zap.Logger, r Response) {
	if r.Error == nil {
		return
	}

	fields := []zap.Field{
		zap.String("request_id", c.GetString(KeyRequestID)),
		zap.String("path", c.Request.URL.Path),
		zap.Int("code", r.Code),
		zap.Error(r.Error),
	}
	if r.Code >= http.StatusInternalServerError {
		logger.Error("request failed", fields...)
		return
	}
	logger.Warn("request rejected", fields...)
}

func getStartTime(c *gin.Context) time.Time {
	if value, exists := c.Get(KeyStartTime); exists {
		if t, ok := value.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

func buildDebugInfo(c *gin.Context, r Response) *ResponseAPIDebug {
	startTime := getStartTime(c)
	endTime := time.Now()

	debug := &ResponseAPIDebug{
		Version:   c.GetString(KeyVersion),
		StartTime: startTime,
		EndTime:   endTime,
		RuntimeMs: endTime.Sub(startTime).Milliseconds(),
	}
	if r.Error != nil {
		msg := r.Error.Error()
		debug.Error = &msg
	}
	return debug
}

func buildResponseAPI(c *gin.Context, r Response, shouldDebug bool) ResponseAPI {
	response := ResponseAPI{
		RequestID: c.GetString(KeyRequestID),
		Message:   r.Message,
		Data:      r.Data,
	}

	if shouldDebug {
		response.Debug = buildDebugInfo(c, r)
	}

	return response
}

func send(c *gin.Context, logger *zap.Logger, shouldDebug bool) func(r Response) {
	return func(r Response) {
		setResponseDefaults(&r)
		logResponseError(c, logger, r)
		response := buildResponseAPI(c, r, shouldDebug)

		c.Abort()
		c.JSON(r.Code, response)
	}
}

// sendStream writes chunks as they arrive and flushes after each one.
// A failure before the first byte becomes a regular error envelope; later
// failures can only cut the response short.
func sendStream(c *gin.Context, logger *zap.Logger, shouldDebug bool) func(r StreamResponse) {
	return func(r StreamResponse) {
		if r.Code == 0 {
			r.Code = http.StatusOK
		}

		if r.Error != nil {
			send(c, logger, shouldDebug)(Response{
				Code:    statusOrDefault(r.Code, http.StatusInternalServerError),
				Message: "Stream failed",
				Error:   r.Error,
			})
			return
		}

		requestID := c.GetString(KeyRequestID)
		writer := c.Writer
		started := false
		defer c.Abort()

		release := func(buf *[]byte) {
			if r.Release != nil && buf != nil {
				r.Release(buf)
			}
		}

		for chunk := range r.ChunkChan {
			if err := c.Request.Context().Err(); err != nil {
				release(chunk.JSONBuf)
				logger.Info("stream cancelled by client", zap.String("request_id", requestID), zap.Error(err))
				return
			}

			if chunk.Error != nil {
				if !started {
					send(c, logger, shouldDebug)(Response{
						Code:    http.StatusInternalServerError,
						Message: "Stream failed",
						Error:   chunk.Error,
					})
					return
				}
				logger.Error("stream aborted", zap.String("request_id", requestID), zap.Error(chunk.Error))
				return
			}

			if chunk.JSONBuf == nil || len(*chunk.JSONBuf) == 0 {
				release(chunk.JSONBuf)
				continue
			}

			if !started {
				c.Header("Content-Type", "application/json")
				if r.TotalCount >= 0 {
					c.Header("X-Total-Count", strconv.FormatInt(r.TotalCount, 10))
				}
				c.Status(r.Code)
				started = true
			}

			_, err := writer.Write(*chunk.JSONBuf)
			release(chunk.JSONBuf)
			if err != nil {
				logger.Error("stream write failed", zap.String("request_id", requestID), zap.Error(err))
				return
			}
			writer.Flush()
		}

		if shouldDebug {
			logger.Debug("stream completed",
				zap.String("request_id", requestID),
				zap.Int64("runtime_ms", time.Since(getStartTime(c)).Milliseconds()),
				zap.Int64("total_count", r.TotalCount),
			)
		}
	}
}

func statusOrDefault(code, fallback int) int {
	if code < http.StatusBadRequest {
		return fallback
	}
	return code
}

// RequestInit tags each request with an id, a client version and a start time
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(KeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		version := c.Request.Header.Get("version")
		if version == "" {
			version = "1.0.0"
		}
		c.Set(KeyVersion, version)
		c.Set(KeyStartTime, time.Now())
		c.Next()
	}
}

// ResponseInit installs the send and sendStream helpers used by handlers
func ResponseInit(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shouldDebug := gin.Mode() == gin.DebugMode
		c.Set(KeySend, send(c, logger, shouldDebug))
		c.Set(KeySendStream, sendStream(c, logger, shouldDebug))
		c.Next()
	}
}

// Send fetches the helper installed by ResponseInit
func Send(c *gin.Context) func(Response) {
	return c.MustGet(KeySend).(func(Response))
}

// SendStream fetches the streaming helper installed by ResponseInit
func SendStream(c *gin.Context) func(StreamResponse) {
	return c.MustGet(KeySendStream).(func(StreamResponse))
}
