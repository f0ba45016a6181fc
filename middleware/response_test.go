package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
)

func newRouter(route func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestInit())
	r.Use(ResponseInit(zap.NewNop()))
	r.GET("/", route)
	return r
}

func chunks(parts ...string) <-chan StreamChunk {
	ch := make(chan StreamChunk, len(parts))
	for _, p := range parts {
		buf := []byte(p)
		ch <- StreamChunk{JSONBuf: &buf}
	}
	close(ch)
	return ch
}

func TestSend(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		Send(c)(Response{Data: map[string]int{"n": 1}})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body ResponseAPI
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.RequestID != "req-1" || body.Message != "Success" {
		t.Errorf("Unexpected envelope %+v", body)
	}
	if w.Header().Get("X-Request-ID") != "req-1" {
		t.Errorf("Expected request id header to be echoed")
	}
	if body.Debug != nil {
		t.Errorf("Debug info is only sent in debug mode")
	}
}

func TestRequestInit_GeneratesID(t *testing.T) {
	r := newRouter(func(c *gin.Context) {
		Send(c)(Response{})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a generated request id")
	}
}

func TestSendStream(t *testing.T) {
	t.Run("writes chunks verbatim", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			SendStream(c)(StreamResponse{TotalCount: 2, ChunkChan: chunks(`[{"id":1}`, `,{"id":2}]`)})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Body.String() != `[{"id":1},{"id":2}]` {
			t.Errorf("Unexpected body %s", w.Body.String())
		}
		if w.Header().Get("X-Total-Count") != "2" {
			t.Errorf("Expected X-Total-Count 2, got %q", w.Header().Get("X-Total-Count"))
		}
	})

	t.Run("hands every written buffer to Release", func(t *testing.T) {
		var released [][]byte
		r := newRouter(func(c *gin.Context) {
			SendStream(c)(StreamResponse{
				TotalCount: -1,
				ChunkChan:  chunks(`[1`, ``, `,2]`),
				Release: func(buf *[]byte) {
					released = append(released, *buf)
				},
			})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Body.String() != `[1,2]` {
			t.Errorf("Unexpected body %s", w.Body.String())
		}
		if len(released) != 3 {
			t.Fatalf("Expected 3 released buffers, got %d", len(released))
		}
		if string(released[0]) != `[1` || string(released[2]) != `,2]` {
			t.Errorf("Released buffers out of order: %q", released)
		}
	})

	t.Run("negative total omits header", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			SendStream(c)(StreamResponse{TotalCount: -1, ChunkChan: chunks(`[]`)})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if _, ok := w.Header()["X-Total-Count"]; ok {
			t.Error("X-Total-Count must be omitted for unknown totals")
		}
	})

	t.Run("error before first chunk becomes envelope", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			ch := make(chan StreamChunk, 1)
			ch <- StreamChunk{Error: errors.New("query failed")}
			close(ch)
			SendStream(c)(StreamResponse{ChunkChan: ch})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
		var body ResponseAPI
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("Expected JSON envelope: %v", err)
		}
		if body.Message != "Stream failed" {
			t.Errorf("Unexpected message %q", body.Message)
		}
	})

	t.Run("response error keeps its status", func(t *testing.T) {
		r := newRouter(func(c *gin.Context) {
			SendStream(c)(StreamResponse{Code: http.StatusServiceUnavailable, Error: errors.New("down")})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", w.Code)
		}
	})
}
