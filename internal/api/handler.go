// Package api is the HTTP boundary: the chat endpoint, the cookie-issuing
// endpoint, and the health probe.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aninka/chatd/internal/chat"
)

const maxRequestBodySize = 1 << 20 // 1MB

const defaultTokenCookie = "aninkafashion-token"

// ChatService runs the reply pipeline for one request.
type ChatService interface {
	GenerateReply(ctx context.Context, transcript []chat.Message, authHeader, bodyToken string, cookies map[string]string) chat.Reply
}

// Deps holds the handler's collaborators and cookie settings.
type Deps struct {
	Chat         ChatService
	CookieName   string // token cookie issued by /auth/set-cookie
	CookieDomain string // e.g. ".aninkafashion.com"; empty for host-only
}

// NewHandler returns the HTTP handler for the chat gateway.
func NewHandler(deps Deps) http.Handler {
	if deps.CookieName == "" {
		deps.CookieName = defaultTokenCookie
	}

	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", handleHealth)
	r.Post("/api/chat", handleChat(deps.Chat))
	r.Post("/auth/set-cookie", handleSetCookie(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// chatRequest is the inbound POST /api/chat body. AuthCookie optionally
// carries credential material when the browser cannot attach cookies itself.
type chatRequest struct {
	Messages   json.RawMessage `json:"messages"`
	AuthCookie string          `json:"authCookie"`
}

func handleChat(svc ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		transcript, ok := parseTranscript(req.Messages)
		if !ok {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "messages must be an array of {role, content} objects")
			return
		}

		cookies := make(map[string]string)
		for _, c := range r.Cookies() {
			cookies[c.Name] = c.Value
		}

		reply := svc.GenerateReply(r.Context(), transcript, r.Header.Get("Authorization"), req.AuthCookie, cookies)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reply)
	}
}

// parseTranscript validates the messages field: it must be a JSON array of
// objects. Anything else (absent, scalar, array of scalars) is a client error.
func parseTranscript(raw json.RawMessage) ([]chat.Message, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, false
	}
	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	var transcript []chat.Message
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return nil, false
	}
	return transcript, true
}

// setCookieRequest is the inbound POST /auth/set-cookie body.
type setCookieRequest struct {
	Token string `json:"token"`
}

// handleSetCookie issues an HTTP-only token cookie carrying the caller's
// token verbatim, scoped to the configured domain so sibling subdomains can
// read it on the server side.
func handleSetCookie(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req setCookieRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Token == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "token is required")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     deps.CookieName,
			Value:    req.Token,
			Path:     "/",
			Domain:   deps.CookieDomain,
			MaxAge:   int((30 * 24 * time.Hour).Seconds()),
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}

// requestLogger tags each request with an ID and logs method, path, status,
// and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Info("http request",
			"request_id", uuid.New().String(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
