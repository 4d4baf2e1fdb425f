package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"artha-lending/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = echo.HeaderXRequestID
	HeaderRequestAt = "X-Request-At"
	HeaderActorID   = "X-Actor-Id"

	// how long the "in progress" marker lives if the handler never finishes
	provisionalLockTTL = 60 * time.Second
	// allowed client/server clock skew for X-Request-At
	maxClockSkew = 10 * time.Minute
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// Idempotency replays the stored response for a repeated mutating request.
// The key is method + path + X-Actor-Id + X-Request-Id; reusing a request id
// with a different body is a 409. 5xx responses are not stored so the client
// can retry them.
func Idempotency(rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderRequestID})
			}
			if !validReqID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderRequestID + " format"})
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}
			actorID := strings.TrimSpace(req.Header.Get(HeaderActorID))
			if actorID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderActorID})
			}
			if !id.Valid(actorID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderActorID})
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, req.URL.Path, actorID, reqID)
			log := log.With(zap.String("idempotency_key", key))
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			ok, err := provisionalSet(ctx, rdb, key, idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			})
			if err != nil {
				log.Warn("idempotency store unavailable", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !ok {
				cur, err := loadEntry(ctx, rdb, key)
				if err != nil {
					log.Warn("idempotency entry unreadable", zap.Error(err))
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
				}
				if !cur.InProgress && cur.Code != 0 {
					log.Debug("idempotent replay", zap.Int("status", cur.Code))
					c.Response().Header().Set("Idempotent-Replayed", "true")
					return c.Blob(cur.Code, echo.MIMEApplicationJSONCharsetUTF8, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may be gone by now
			bg, cancelBg := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancelBg()
			if rec.code >= http.StatusInternalServerError {
				if err := rdb.Del(bg, key).Err(); err != nil {
					log.Warn("idempotency release failed", zap.Error(err))
				}
				return nil
			}
			if err := saveFinal(bg, rdb, key, idempEntry{
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}, ttl); err != nil {
				log.Warn("idempotency save failed", zap.Error(err))
			}
			return nil
		}
	}
}
