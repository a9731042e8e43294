package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/peerlend/loan-tracker/internal/core/ports"
)

// HeaderIdempotencyKey is the request header carrying the client key.
const HeaderIdempotencyKey = "Idempotency-Key"

const storeTimeout = 2 * time.Second

// respRecorder tees the response body so it can be stored for replay.
type respRecorder struct {
	http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *respRecorder) WriteHeader(statusCode int) {
	r.code = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// Idempotency replays the stored response of a POST request whose
// Idempotency-Key has been seen before. Requests without the header pass
// through untouched. When the store is unavailable the request is processed
// without idempotency protection.
func Idempotency(store ports.IdempotencyStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			idemKey := strings.TrimSpace(req.Header.Get(HeaderIdempotencyKey))
			if req.Method != http.MethodPost || idemKey == "" {
				return next(c)
			}

			var body []byte
			if req.Body != nil {
				var err error
				if body, err = io.ReadAll(req.Body); err != nil {
					log.Warn().Err(err).Str("idempotency_key", idemKey).Msg("failed to read request body")
					return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request payload"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			hash := bodyHash(body)
			key := buildKey(req.Method, c.Path(), idemKey)

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			reserved, err := store.Reserve(ctx, key, hash)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("idempotency store unavailable, processing anyway")
				return next(c)
			}
			if !reserved {
				cur, err := store.Load(ctx, key)
				if err != nil {
					log.Warn().Err(err).Str("key", key).Msg("failed to load idempotency entry")
					return c.JSON(http.StatusConflict, map[string]string{"message": "Request is already in progress"})
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != hash {
					return c.JSON(http.StatusConflict, map[string]string{"message": "Idempotency-Key reused with a different body"})
				}
				if !cur.InProgress && cur.StatusCode != 0 {
					c.Response().Header().Set("Idempotent-Replayed", "true")
					return c.Blob(cur.StatusCode, cur.ContentType, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"message": "Request is already in progress"})
			}

			rec := &respRecorder{ResponseWriter: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			handlerErr := next(c)
			if handlerErr != nil {
				c.Error(handlerErr)
			}

			saveCtx, saveCancel := context.WithTimeout(context.Background(), storeTimeout)
			defer saveCancel()

			// Server errors are not cached so the client can retry.
			if rec.code >= http.StatusInternalServerError {
				if err := store.Release(saveCtx, key); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("failed to release idempotency key")
				}
				return handlerErr
			}
			final := ports.StoredResponse{
				BodySHA256:  hash,
				StatusCode:  rec.code,
				Body:        rec.buf.Bytes(),
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				CreatedAt:   time.Now().UTC(),
			}
			if err := store.Save(saveCtx, key, final); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to save idempotency entry")
			}
			return handlerErr
		}
	}
}

func bodyHash(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

func buildKey(method, path, key string) string {
	return "idemp:" + strings.ToLower(method) + ":" + path + ":" + key
}
