package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"cargotrace-backend/pkg/id"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// provisionalLockTTL bounds how long an unfinished request holds its key.
	provisionalLockTTL = 60 * time.Second
	// maxClockSkew is the accepted distance between Ax-Request-At and server time.
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
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

// replayable reports whether e holds a finished response that can be sent again.
func (e idempEntry) replayable() bool { return !e.InProgress && e.Code != 0 && len(e.Body) > 0 }

// respRecorder tees the handler's response so it can be stored after the fact.
type respRecorder struct {
	w    http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }

func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.w.Write(b)
}

func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

type rejection struct {
	status int
	code   string
	msg    string
}

func fail(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, map[string]string{"error": msg, "code": code})
}

type requestMeta struct {
	requestID string
	callerID  string
	at        time.Time
}

func readMeta(h http.Header, now time.Time) (requestMeta, *rejection) {
	var m requestMeta

	m.requestID = strings.TrimSpace(h.Get(HeaderRequestID))
	switch {
	case m.requestID == "":
		return m, &rejection{http.StatusBadRequest, "missing_request_id", "missing " + HeaderRequestID}
	case !validReqID(m.requestID):
		return m, &rejection{http.StatusBadRequest, "invalid_request_id", "invalid " + HeaderRequestID + " format"}
	}

	at, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return m, &rejection{http.StatusBadRequest, "invalid_request_at", err.Error()}
	}
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return m, &rejection{http.StatusBadRequest, "request_at_skewed", HeaderRequestAt + " too skewed"}
	}
	m.at = at

	m.callerID = strings.TrimSpace(h.Get(HeaderCallerID))
	switch {
	case m.callerID == "":
		return m, &rejection{http.StatusBadRequest, "missing_caller", "missing " + HeaderCallerID}
	case !id.Valid(m.callerID):
		return m, &rejection{http.StatusBadRequest, "invalid_caller", "invalid " + HeaderCallerID}
	}
	return m, nil
}

// IdempotencyMiddleware makes mutating requests replay-safe. The key is method, route,
// caller id and request id; a repeated request with the same body gets the stored response.
// Ax-Request-At must be epoch seconds/milliseconds or RFC3339 with a zone.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	store := entryStore{rdb: rdb}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			meta, rej := readMeta(req.Header, nowUTC())
			if rej != nil {
				return fail(c, rej.status, rej.code, rej.msg)
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			entry := idempEntry{
				BodySHA256:  bodyHash(body),
				RequestID:   meta.requestID,
				RequestAtMS: meta.at.UnixMilli(),
			}
			key := buildKey(req.Method, c.Path(), meta.callerID, meta.requestID)

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			pending := entry
			pending.InProgress = true
			pending.CreatedAt = nowUTC()
			ok, err := store.lock(ctx, key, pending)
			if err != nil {
				log.Error("idempotency lock failed", zap.String("key", key), zap.Error(err))
				return fail(c, http.StatusServiceUnavailable, "idempotency_unavailable", "idempotency store unavailable")
			}
			if !ok {
				return replay(ctx, c, store, key, entry.BodySHA256, log)
			}

			rec := &respRecorder{w: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			if rec.code >= http.StatusInternalServerError {
				// server-side failures are not final; the retry must reach the handler again
				if err := store.release(context.Background(), key); err != nil {
					log.Warn("idempotency lock release failed", zap.String("key", key), zap.Error(err))
				}
				return nil
			}

			done := entry
			done.Code = rec.code
			done.Body = rec.buf.Bytes()
			done.CreatedAt = nowUTC()
			if err := store.save(context.Background(), key, done, ttl); err != nil {
				log.Warn("idempotency entry save failed", zap.String("key", key), zap.Error(err))
			}
			return nil
		}
	}
}

// replay answers a request whose key is already taken.
func replay(ctx context.Context, c echo.Context, store entryStore, key, bodySHA string, log *zap.Logger) error {
	cur, err := store.load(ctx, key)
	if err != nil {
		log.Warn("idempotency entry load failed", zap.String("key", key), zap.Error(err))
	}
	if cur.BodySHA256 != "" && cur.BodySHA256 != bodySHA {
		return fail(c, http.StatusConflict, "request_id_reused", HeaderRequestID+" reused with different body")
	}
	if cur.replayable() {
		return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
	}
	return fail(c, http.StatusConflict, "request_in_progress", "request is already in progress")
}
