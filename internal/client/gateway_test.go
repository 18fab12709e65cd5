package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-classroom/backend/internal/dto"
	"smart-classroom/backend/pkg/response"
)

func writeEnvelope(w http.ResponseWriter, status int, body response.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestBackend(t *testing.T, mux *http.ServeMux) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewHTTPGateway(srv.URL+"/api/v1/", srv.Client())
}

func TestHTTPGateway_ListTimeSlots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/catalog/timeslots", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeEnvelope(w, http.StatusOK, response.Response{Message: "success", Data: []dto.TimeSlotResponse{
			{ID: 1, Day: 0, Slot: 0, Label: "09:00-09:45"},
			{ID: 2, Day: 0, Slot: 1, Label: "09:50-10:35"},
		}})
	})
	gw := newTestBackend(t, mux)

	slots, err := gw.ListTimeSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:50-10:35", slots[1].Label)
}

func TestHTTPGateway_GetScheduleParsesCellKeys(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/schedule", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("class_id"))
		writeEnvelope(w, http.StatusOK, response.Response{Message: "success", Data: dto.ScheduleResponse{
			"3": {
				"0,1": {SubjectID: 2, Subject: "Science", TeacherID: 5, Teacher: "Anita Sen", RoomID: 1, Room: "Room 101"},
				"4,5": {SubjectID: 1, TeacherID: 6, RoomID: 2},
			},
		}})
	})
	gw := newTestBackend(t, mux)

	m, err := gw.GetSchedule(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, Entry{SubjectID: 2, Subject: "Science", TeacherID: 5, Teacher: "Anita Sen", RoomID: 1, Room: "Room 101"}, m[CellKey{Day: 0, Slot: 1}])
	assert.Equal(t, int64(6), m[CellKey{Day: 4, Slot: 5}].TeacherID)
}

func TestHTTPGateway_GetScheduleMissingClassIsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/schedule", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, response.Response{Message: "success", Data: dto.ScheduleResponse{}})
	})
	gw := newTestBackend(t, mux)

	m, err := gw.GetSchedule(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestHTTPGateway_Generate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/schedule/generate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeEnvelope(w, http.StatusOK, response.Response{Message: "success", Data: dto.GenerateResponse{
			Stats: dto.GenerateStats{Placed: 18, Needed: 20},
		}})
	})
	gw := newTestBackend(t, mux)

	stats, err := gw.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.GenerateStats{Placed: 18, Needed: 20}, stats)
}

func TestHTTPGateway_OverridePayloadAndConflict(t *testing.T) {
	var got OverrideRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/schedule/override", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeEnvelope(w, http.StatusConflict, response.Response{Code: 17101, Message: "该教师在此时间段已有课程"})
	})
	gw := newTestBackend(t, mux)

	req := OverrideRequest{ClassID: 3, Day: 0, Slot: 1, SubjectID: 2, TeacherID: 5, RoomID: 1}
	err := gw.Override(context.Background(), req)

	var rejected *OverrideRejected
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusConflict, rejected.Status)
	assert.Equal(t, 17101, rejected.Code)
	assert.Equal(t, "该教师在此时间段已有课程", rejected.Reason)
	assert.Equal(t, req, got)
}

func TestHTTPGateway_ServerErrorIsAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/schedule/clear", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, response.Response{Code: 50000, Message: "服务器内部错误"})
	})
	gw := newTestBackend(t, mux)

	err := gw.Clear(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, 50000, apiErr.Code)
}

func TestHTTPGateway_NonJSONErrorBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/catalog/rooms", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	gw := newTestBackend(t, mux)

	_, err := gw.ListRooms(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}
