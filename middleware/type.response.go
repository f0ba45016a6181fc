package middleware

import (
	"time"
)

type Response struct {
	Data    any
	Message string
	Code    int
	Error   error
}

type ResponseAPIDebug struct {
	Version   string    `json:"version"`
	Error     *string   `json:"error"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	RuntimeMs int64     `json:"runtimeMs"`
}

type ResponseAPI struct {
	RequestID string            `json:"requestId"`
	Data      any               `json:"data"`
	Message   string            `json:"message"`
	Debug     *ResponseAPIDebug `json:"debug,omitempty"`
}

type StreamChunk struct {
	JSONBuf *[]byte // pooled buffer holding a slice of the encoded array
	Error   error
}

// StreamResponse describes a chunked JSON response
type StreamResponse struct {
	TotalCount int64              // sent as X-Total-Count when >= 0
	ChunkChan  <-chan StreamChunk // chunks are written verbatim, in order
	Error      error              // set when streaming failed before starting
	Code       int                // HTTP status code (default 200)
	Release    func(buf *[]byte)  // returns a chunk buffer to its pool once written; may be nil
}

// Context keys set by RequestInit and ResponseInit
const (
	KeyRequestID  = "requestId"
	KeyVersion    = "version"
	KeyStartTime  = "start-time"
	KeySend       = "send"
	KeySendStream = "sendStream"
)
