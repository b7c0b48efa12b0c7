package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/redtrack/internal/models"
	"github.com/iudanet/redtrack/pkg/api"
)

const testUserID = "test-user-id"

// authedRequest создает запрос с user_id в контексте, как после AuthMiddleware
func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), UserIDKey, testUserID)
	return req.WithContext(ctx)
}

func addTestDate(t *testing.T, dates *mockDateStorage, date string, trackedAt time.Time) *models.DateRecord {
	record := &models.DateRecord{
		ID:        uuid.New().String(),
		UserID:    testUserID,
		Date:      date,
		TrackedAt: trackedAt,
	}
	require.NoError(t, dates.AddDate(context.Background(), record))
	return record
}

func TestDatesHandler_Add(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantDate   string
	}{
		{
			name:       "valid date",
			body:       api.AddDateRequest{Date: "15/01/2024"},
			wantStatus: http.StatusCreated,
			wantDate:   "15/01/2024",
		},
		{
			name:       "date is normalized with leading zeros",
			body:       api.AddDateRequest{Date: "5/3/2024"},
			wantStatus: http.StatusCreated,
			wantDate:   "05/03/2024",
		},
		{
			name:       "invalid date",
			body:       api.AddDateRequest{Date: "2024-01-15"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty date",
			body:       api.AddDateRequest{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := newMockDateStorage()
			h := NewDatesHandler(testLogger(), dates)

			var body bytes.Buffer
			if s, ok := tt.body.(string); ok {
				body.WriteString(s)
			} else {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.body))
			}

			rec := httptest.NewRecorder()
			h.Add(rec, authedRequest(http.MethodPost, "/api/v1/dates", &body))

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp api.DateEntry
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.NotEmpty(t, resp.ID)
				assert.Equal(t, tt.wantDate, resp.Date)
			}
		})
	}
}

func TestDatesHandler_Add_Unauthenticated(t *testing.T) {
	h := NewDatesHandler(testLogger(), newMockDateStorage())

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(api.AddDateRequest{Date: "15/01/2024"}))

	// Запрос без user_id в контексте
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dates", &body)
	rec := httptest.NewRecorder()

	h.Add(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDatesHandler_List(t *testing.T) {
	dates := newMockDateStorage()
	h := NewDatesHandler(testLogger(), dates)

	added := []string{"20/01/2024", "01/01/2024", "15/01/2024"}
	for _, d := range added {
		addTestDate(t, dates, d, time.Now())
	}

	// Запись другого пользователя
	require.NoError(t, dates.AddDate(context.Background(), &models.DateRecord{
		ID:     uuid.New().String(),
		UserID: "other-user",
		Date:   "31/12/2023",
	}))

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/dates", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ListDatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Dates, 3)

	got := make([]string, 0, len(resp.Dates))
	for _, entry := range resp.Dates {
		got = append(got, entry.Date)
	}
	assert.ElementsMatch(t, added, got)
}

func TestDatesHandler_List_Empty(t *testing.T) {
	h := NewDatesHandler(testLogger(), newMockDateStorage())

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/v1/dates", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.ListDatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Empty(t, resp.Dates)
}

func TestDatesHandler_Delete(t *testing.T) {
	dates := newMockDateStorage()
	h := NewDatesHandler(testLogger(), dates)

	record := addTestDate(t, dates, "15/01/2024", time.Now())

	deleteByID := func(id string) *httptest.ResponseRecorder {
		req := authedRequest(http.MethodDelete, "/api/v1/dates/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.Delete(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, deleteByID(record.ID).Code)
	assert.Empty(t, dates.records)

	// Повторное удаление - 404
	assert.Equal(t, http.StatusNotFound, deleteByID(record.ID).Code)
}

func TestDatesHandler_DeleteBulk_ByValue(t *testing.T) {
	dates := newMockDateStorage()
	h := NewDatesHandler(testLogger(), dates)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	oldest := addTestDate(t, dates, "01/01/2024", base)
	newest := addTestDate(t, dates, "01/01/2024", base.Add(time.Hour))
	_ = oldest

	rec := httptest.NewRecorder()
	h.DeleteBulk(rec, authedRequest(http.MethodDelete, "/api/v1/dates?date=01/01/2024", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Удалена ровно одна запись - самая старая
	require.Len(t, dates.records, 1)
	_, remains := dates.records[newest.ID]
	assert.True(t, remains)
}

func TestDatesHandler_DeleteBulk_ByValue_NotFound(t *testing.T) {
	h := NewDatesHandler(testLogger(), newMockDateStorage())

	rec := httptest.NewRecorder()
	h.DeleteBulk(rec, authedRequest(http.MethodDelete, "/api/v1/dates?date=15/01/2024", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDatesHandler_DeleteBulk_All(t *testing.T) {
	dates := newMockDateStorage()
	h := NewDatesHandler(testLogger(), dates)

	for _, d := range []string{"01/01/2024", "15/01/2024", "20/01/2024"} {
		addTestDate(t, dates, d, time.Now())
	}

	rec := httptest.NewRecorder()
	h.DeleteBulk(rec, authedRequest(http.MethodDelete, "/api/v1/dates", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.DeleteAllResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Deleted)
	assert.Empty(t, dates.records)
}

func TestDatesHandler_Edit(t *testing.T) {
	dates := newMockDateStorage()
	h := NewDatesHandler(testLogger(), dates)

	record := addTestDate(t, dates, "15/01/2024", time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(api.EditDateRequest{Date: "20/01/2024"}))

	req := authedRequest(http.MethodPut, "/api/v1/dates/"+record.ID, &body)
	req.SetPathValue("id", record.ID)
	rec := httptest.NewRecorder()

	h.Edit(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "20/01/2024", dates.records[record.ID].Date)
	// Timestamp обновлен
	assert.True(t, dates.records[record.ID].TrackedAt.After(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
}

func TestDatesHandler_Edit_NotFound(t *testing.T) {
	h := NewDatesHandler(testLogger(), newMockDateStorage())

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(api.EditDateRequest{Date: "20/01/2024"}))

	req := authedRequest(http.MethodPut, "/api/v1/dates/missing", &body)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	h.Edit(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDatesHandler_Count(t *testing.T) {
	tests := []struct {
		name      string
		dates     []string
		wantSpans []api.SpanEntry
	}{
		{
			name:  "three dates",
			dates: []string{"20/01/2024", "01/01/2024", "15/01/2024"},
			wantSpans: []api.SpanEntry{
				{Seq: 1, InitialDate: "01/01/2024", RecentDate: "15/01/2024", Days: 14},
				{Seq: 2, InitialDate: "15/01/2024", RecentDate: "20/01/2024", Days: 5},
			},
		},
		{
			name:      "single date yields empty result",
			dates:     []string{"01/01/2024"},
			wantSpans: []api.SpanEntry{},
		},
		{
			name:      "no dates yields empty result",
			dates:     []string{},
			wantSpans: []api.SpanEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates := newMockDateStorage()
			h := NewDatesHandler(testLogger(), dates)

			for _, d := range tt.dates {
				addTestDate(t, dates, d, time.Now())
			}

			rec := httptest.NewRecorder()
			h.Count(rec, authedRequest(http.MethodGet, "/api/v1/dates/count", nil))

			require.Equal(t, http.StatusOK, rec.Code)

			var resp api.CountResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantSpans, resp.Spans)
		})
	}
}
