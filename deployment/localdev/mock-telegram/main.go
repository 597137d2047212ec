package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type receivedMessage struct {
	Token      string    `json:"token"`
	ChatID     string    `json:"chat_id"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
}

type inbox struct {
	mu       sync.Mutex
	messages []receivedMessage
}

func (i *inbox) add(m receivedMessage) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.messages = append(i.messages, m)
	return len(i.messages)
}

func (i *inbox) list() []receivedMessage {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]receivedMessage(nil), i.messages...)
}

// A stand-in for the Telegram Bot API sendMessage method. Set
// MOCK_TELEGRAM_FAIL=1 to reject every message with a 502.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With(slog.String("component", "telegram-mock"))
	failAll := os.Getenv("MOCK_TELEGRAM_FAIL") == "1"
	box := &inbox{}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/messages", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"messages": box.list()})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		token, ok := botToken(r.URL.Path)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error_code": 404, "description": "Not Found"})
			return
		}
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if failAll {
			writeJSON(w, http.StatusBadGateway, map[string]any{"ok": false, "error_code": 502, "description": "Bad Gateway"})
			return
		}

		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ChatID == "" || req.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error_code": 400, "description": "Bad Request: chat_id and text are required"})
			return
		}

		id := box.add(receivedMessage{Token: token, ChatID: req.ChatID, Text: req.Text, ReceivedAt: time.Now()})
		logger.Info("message received", slog.String("chat_id", req.ChatID), slog.Int("message_id", id), slog.String("text", req.Text))
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": id, "date": time.Now().Unix(), "text": req.Text},
		})
	})

	srv := &http.Server{
		Addr:              ":8081",
		Handler:           logRequests(logger, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("listening", slog.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

// botToken extracts the token from /bot{token}/sendMessage.
func botToken(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/bot")
	if !ok {
		return "", false
	}
	token, method, ok := strings.Cut(rest, "/")
	if !ok || token == "" || method != "sendMessage" {
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode error", slog.Any("error", err))
	}
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", redactPath(r.URL.Path)),
			slog.Int("status", rw.status),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func redactPath(path string) string {
	if token, ok := botToken(path); ok {
		return strings.Replace(path, token, "<token>", 1)
	}
	return path
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
