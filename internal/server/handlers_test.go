package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-parking-lot/internal/parking"
)

func newTestServer(t *testing.T, capacity int) *httptest.Server {
	t.Helper()

	telemetry, err := parking.NewTelemetryProvider()
	require.NoError(t, err)

	lot, err := parking.NewInstrumentedParkingLot(
		parking.NewParkingLot(capacity, parking.HourlyPricing(10)),
		telemetry,
	)
	require.NoError(t, err)

	srv := NewServer("0", lot)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postCar(t *testing.T, ts *httptest.Server, plate string) *http.Response {
	t.Helper()

	body, err := json.Marshal(AddCarRequest{LicensePlate: plate})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/parking-lot/cars", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func deleteCar(t *testing.T, ts *httptest.Server, plate string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/parking-lot/cars/"+plate, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()

	var envelope Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, 2)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAddCar(t *testing.T) {
	ts := newTestServer(t, 2)

	resp := postCar(t, ts, "111-11-111")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	assert.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["spot_number"])
	assert.Equal(t, "111-11-111", data["license_plate"])
}

func TestAddCarDuplicateConflict(t *testing.T) {
	ts := newTestServer(t, 2)

	postCar(t, ts, "111-11-111")

	resp := postCar(t, ts, "111-11-111")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	assert.False(t, envelope.Success)
	assert.Contains(t, envelope.Error, "already parked")
}

func TestAddCarLotFullConflict(t *testing.T) {
	ts := newTestServer(t, 1)

	postCar(t, ts, "111-11-111")

	resp := postCar(t, ts, "222-22-222")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	assert.Contains(t, envelope.Error, "full")
}

func TestAddCarInvalidBody(t *testing.T) {
	ts := newTestServer(t, 2)

	resp, err := http.Post(ts.URL+"/api/parking-lot/cars", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRemoveCarReturnsReceipt(t *testing.T) {
	ts := newTestServer(t, 2)

	postCar(t, ts, "111-11-111")

	resp := deleteCar(t, ts, "111-11-111")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	require.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "111-11-111", data["license_plate"])
	assert.Contains(t, data, "paid")
}

func TestRemoveCarNotFound(t *testing.T) {
	ts := newTestServer(t, 2)

	resp := deleteCar(t, ts, "999-99-999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFindCar(t *testing.T) {
	ts := newTestServer(t, 2)

	postCar(t, ts, "111-11-111")

	resp, err := http.Get(ts.URL + "/api/parking-lot/cars/111-11-111")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["spot_number"])

	resp, err = http.Get(ts.URL + "/api/parking-lot/cars/999-99-999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetStatus(t *testing.T) {
	ts := newTestServer(t, 3)

	postCar(t, ts, "111-11-111")
	postCar(t, ts, "222-22-222")

	resp, err := http.Get(ts.URL + "/api/parking-lot/status")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), data["total_spots"])
	assert.Equal(t, float64(2), data["occupied_spots"])
	assert.Equal(t, float64(1), data["free_spots"])

	spots, ok := data["spots"].([]any)
	require.True(t, ok)
	assert.Len(t, spots, 3)
}

func TestGetStats(t *testing.T) {
	ts := newTestServer(t, 3)

	postCar(t, ts, "111-11-111")
	deleteCar(t, ts, "111-11-111")

	resp, err := http.Get(ts.URL + "/api/parking-lot/stats")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["completed_sessions"])
	assert.Equal(t, float64(0), data["occupied_spots"])
	assert.Contains(t, data, "todays_revenue")
	assert.Contains(t, data, "average_parking_minutes")
}

func TestGetHistory(t *testing.T) {
	ts := newTestServer(t, 2)

	postCar(t, ts, "111-11-111")
	deleteCar(t, ts, "111-11-111")

	resp, err := http.Get(ts.URL + "/api/parking-lot/history")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeResponse(t, resp)
	entries, ok := envelope.Data.([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)

	entry, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "111-11-111", entry["license_plate"])
}
