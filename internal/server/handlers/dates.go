package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/redtrack/internal/interval"
	"github.com/iudanet/redtrack/internal/models"
	"github.com/iudanet/redtrack/internal/server/storage"
	"github.com/iudanet/redtrack/pkg/api"
)

// DatesHandler обрабатывает запросы к отслеживаемым датам.
// Все маршруты за AuthMiddleware: владелец данных берется из контекста,
// а не из запроса
type DatesHandler struct {
	logger      *slog.Logger
	dateStorage storage.DateStorage
}

// NewDatesHandler создает новый handler для работы с датами
func NewDatesHandler(logger *slog.Logger, dateStorage storage.DateStorage) *DatesHandler {
	return &DatesHandler{
		logger:      logger,
		dateStorage: dateStorage,
	}
}

// Add обрабатывает POST /api/v1/dates
// Добавление новой даты
func (h *DatesHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req api.AddDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode add date request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Разбираем и нормализуем: в хранилище попадает dd/mm/yyyy с ведущими нулями
	parsed, err := interval.ParseDate(req.Date)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid date", slog.String("date", req.Date), slog.Any("error", err))
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record := &models.DateRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		Date:      interval.FormatDate(parsed),
		TrackedAt: time.Now(),
	}

	if err := h.dateStorage.AddDate(ctx, record); err != nil {
		h.logger.ErrorContext(ctx, "failed to add date", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "date tracked",
		slog.String("user_id", userID),
		slog.String("date", record.Date))

	h.sendJSON(w, dateEntry(record), http.StatusCreated)
}

// List обрабатывает GET /api/v1/dates
// Список всех дат пользователя
func (h *DatesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	records, err := h.dateStorage.GetUserDates(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user dates", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := api.ListDatesResponse{Dates: make([]api.DateEntry, 0, len(records))}
	for _, record := range records {
		resp.Dates = append(resp.Dates, dateEntry(record))
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/dates/{id}
// Удаление одной записи по стабильному идентификатору
func (h *DatesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	recordID := r.PathValue("id")
	if recordID == "" {
		h.sendError(w, "record id is required", http.StatusBadRequest)
		return
	}

	if err := h.dateStorage.DeleteDate(ctx, userID, recordID); err != nil {
		if errors.Is(err, storage.ErrDateNotFound) {
			h.sendError(w, "date record not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete date", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "date deleted",
		slog.String("user_id", userID),
		slog.String("record_id", recordID))

	w.WriteHeader(http.StatusNoContent)
}

// DeleteBulk обрабатывает DELETE /api/v1/dates
// С параметром ?date= удаляет одну запись по значению даты (совместимость
// со старым контрактом), без параметра - все записи пользователя
func (h *DatesHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date != "" {
		h.deleteByValue(w, r, userID, date)
		return
	}

	deleted, err := h.dateStorage.DeleteUserDates(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete user dates", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "all dates deleted",
		slog.String("user_id", userID),
		slog.Int("deleted", deleted))

	h.sendJSON(w, api.DeleteAllResponse{Deleted: deleted}, http.StatusOK)
}

// deleteByValue удаляет ровно одну запись по значению даты.
// Из дубликатов уходит самая старая, удаление несуществующей даты - 404
func (h *DatesHandler) deleteByValue(w http.ResponseWriter, r *http.Request, userID, date string) {
	ctx := r.Context()

	parsed, err := interval.ParseDate(date)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dateStorage.DeleteDateByValue(ctx, userID, interval.FormatDate(parsed)); err != nil {
		if errors.Is(err, storage.ErrDateNotFound) {
			h.sendError(w, "date record not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete date by value", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "date deleted by value",
		slog.String("user_id", userID),
		slog.String("date", date))

	w.WriteHeader(http.StatusNoContent)
}

// Edit обрабатывает PUT /api/v1/dates/{id}
// Замена значения даты с обновлением timestamp
func (h *DatesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	recordID := r.PathValue("id")
	if recordID == "" {
		h.sendError(w, "record id is required", http.StatusBadRequest)
		return
	}

	var req api.EditDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode edit date request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	parsed, err := interval.ParseDate(req.Date)
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dateStorage.UpdateDate(ctx, userID, recordID, interval.FormatDate(parsed), time.Now()); err != nil {
		if errors.Is(err, storage.ErrDateNotFound) {
			h.sendError(w, "date record not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update date", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "date updated",
		slog.String("user_id", userID),
		slog.String("record_id", recordID))

	w.WriteHeader(http.StatusNoContent)
}

// Count обрабатывает GET /api/v1/dates/count
// Интервалы между соседними датами в хронологическом порядке.
// Менее двух дат - пустой список, не ошибка
func (h *DatesHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	records, err := h.dateStorage.GetUserDates(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get user dates", slog.Any("error", err))
		h.sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	dates := make([]string, 0, len(records))
	for _, record := range records {
		dates = append(dates, record.Date)
	}

	spans := interval.Spans(dates)

	resp := api.CountResponse{Spans: make([]api.SpanEntry, 0, len(spans))}
	for _, span := range spans {
		resp.Spans = append(resp.Spans, api.SpanEntry{
			Seq:         span.Seq,
			InitialDate: span.Initial,
			RecentDate:  span.Recent,
			Days:        span.Days,
		})
	}

	h.sendJSON(w, resp, http.StatusOK)
}

// userID извлекает владельца данных из контекста (установлен AuthMiddleware)
func (h *DatesHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "user ID not found in context")
		h.sendError(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// dateEntry конвертирует модель в API представление
func dateEntry(record *models.DateRecord) api.DateEntry {
	return api.DateEntry{
		ID:        record.ID,
		Date:      record.Date,
		TrackedAt: record.TrackedAt.Format(time.RFC3339),
	}
}

// sendJSON отправляет JSON ответ
func (h *DatesHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (h *DatesHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	h.sendJSON(w, resp, statusCode)
}
