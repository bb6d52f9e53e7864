package http

import (
	"context"
	"encoding/json"
	"errors"
	"imagefeed/internal/domain"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

type feedGetter interface {
	GetFeed(ctx context.Context) ([]domain.FeedImage, error)
}

type Handler struct {
	log        *slog.Logger
	feedGetter feedGetter
}

func NewHandler(log *slog.Logger, getter feedGetter) *Handler {
	return &Handler{
		log:        log,
		feedGetter: getter,
	}
}

// imageResponse повторяет формат элемента удаленной ленты.
type imageResponse struct {
	ID          uuid.UUID `json:"id"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	URL         string    `json:"image"`
}

type feedResponse struct {
	Items []imageResponse `json:"items"`
}

// getFeed - хендлер для эндпоинта GET /api/feed
func (h *Handler) getFeed(w http.ResponseWriter, r *http.Request) {
	const op = "transport.http/getFeed"
	reqID := requestID(r)
	w.Header().Set("X-Request-ID", reqID)
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", reqID),
	)
	if r.Method != http.MethodGet {
		log.Warn("method not allowed")
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			log.Warn("invalid limit parameter", slog.String("limit", limitStr))
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
	}

	images, err := h.feedGetter.GetFeed(r.Context())
	if err != nil {
		log.Error("Failed to get feed", slog.Any("error", err))
		switch {
		case errors.Is(err, domain.ErrConnectivity), errors.Is(err, domain.ErrInvalidData):
			respondWithError(w, http.StatusBadGateway, "Feed Unavailable")
		case errors.Is(err, context.DeadlineExceeded):
			respondWithError(w, http.StatusGatewayTimeout, "Feed Timeout")
		default:
			respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}
	if limit > 0 && limit < len(images) {
		images = images[:limit]
	}

	resp := feedResponse{Items: make([]imageResponse, 0, len(images))}
	for _, image := range images {
		resp.Items = append(resp.Items, imageResponse{
			ID:          image.ID,
			Description: image.Description,
			Location:    image.Location,
			URL:         image.URL,
		})
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// healthCheck - хендлер для проверки состояния сервиса
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Вспомогательные функции для ответов
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// requestID берет X-Request-ID клиента или генерирует новый.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}
