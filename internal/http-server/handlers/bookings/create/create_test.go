package create_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"quadra-service/api"
	"quadra-service/internal/http-server/handlers/bookings/create"
	"quadra-service/pkg/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCreator struct {
	booking *api.BookingResponse
	err     error
}

func (s *stubCreator) CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// handler responses are decoded into this shape for assertions
type envelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Booking api.BookingResponse `json:"booking"`
}

func doRequest(t *testing.T, creator *stubCreator, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	handler := create.New(newDiscardLogger(), creator)

	req := httptest.NewRequest("POST", "/bookings", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

func validBody() string {
	return `{
		"court_id": "court-1",
		"client_name": "Ana",
		"date": "2030-01-15",
		"start_time": "09:00",
		"duration_hours": 1
	}`
}

func TestCreateBooking_Success(t *testing.T) {
	creator := &stubCreator{
		booking: &api.BookingResponse{
			ID:            "b-1",
			CourtID:       "court-1",
			ClientName:    "Ana",
			Date:          "2030-01-15",
			StartTime:     "09:00",
			EndTime:       "10:00",
			DurationHours: 1,
			Price:         120,
			Status:        "pending",
			PaymentStatus: "pending",
		},
	}

	rec, env := doRequest(t, creator, validBody())

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "b-1", env.Booking.ID)
	assert.Equal(t, "pending", env.Booking.Status)
	assert.Equal(t, 120.0, env.Booking.Price)
	assert.Empty(t, env.Error.Code)
}

func TestCreateBooking_ValidationFail(t *testing.T) {
	rec, env := doRequest(t, &stubCreator{}, `{"court_id": "court-1"}`)

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, string(response.VALIDATION_FAIL), env.Error.Code)
	assert.Contains(t, env.Error.Message, "ClientName")
}

func TestCreateBooking_BadJSON(t *testing.T) {
	rec, env := doRequest(t, &stubCreator{}, `{not json`)

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, string(response.BAD_REQUEST), env.Error.Code)
}

func TestCreateBooking_Conflict(t *testing.T) {
	rec, env := doRequest(t, &stubCreator{err: response.ErrConflict}, validBody())

	assert.Equal(t, 409, rec.Code)
	assert.Equal(t, string(response.CONFLICT), env.Error.Code)
}

func TestCreateBooking_Locked(t *testing.T) {
	rec, env := doRequest(t, &stubCreator{err: response.ErrLocked}, validBody())

	assert.Equal(t, 423, rec.Code)
	assert.Equal(t, string(response.LOCKED), env.Error.Code)
}

func TestCreateBooking_OutsideOperatingHours(t *testing.T) {
	rec, env := doRequest(t, &stubCreator{err: response.ErrOutsideOperatingHours}, validBody())

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, string(response.INVALID_TIME), env.Error.Code)
}

func TestCreateBooking_NoPricingRule(t *testing.T) {
	rec, env := doRequest(t, &stubCreator{err: response.ErrNoPricingRule}, validBody())

	assert.Equal(t, 422, rec.Code)
	assert.Equal(t, string(response.NOT_CONFIGURED), env.Error.Code)
}

func TestCreateBooking_CourtNotFound(t *testing.T) {
	rec, env := doRequest(t, &stubCreator{err: response.ErrNotFound}, validBody())

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, string(response.NOT_FOUND), env.Error.Code)
}
