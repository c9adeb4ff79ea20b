package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-parking-lot/internal/parking"
)

func TestWebsocketPushesStatusOnLotChange(t *testing.T) {
	telemetry, err := parking.NewTelemetryProvider()
	require.NoError(t, err)

	lot, err := parking.NewInstrumentedParkingLot(
		parking.NewParkingLot(2, parking.HourlyPricing(10)),
		telemetry,
	)
	require.NoError(t, err)

	srv := NewServer("0", lot)
	go srv.hub.Run()

	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/parking-lot/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The hub loop registers the client asynchronously.
	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	resp := postCar(t, ts, "111-11-111")
	resp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(message, &status))

	assert.Equal(t, 2, status.TotalSpots)
	assert.Equal(t, 1, status.OccupiedSpots)
	assert.Equal(t, 1, status.FreeSpots)
	require.Len(t, status.Spots, 2)
	assert.True(t, status.Spots[0].Occupied)
	assert.Equal(t, "111-11-111", status.Spots[0].LicensePlate)
	assert.False(t, status.Spots[1].Occupied)
}

func TestWebsocketClientCountTracksDisconnect(t *testing.T) {
	telemetry, err := parking.NewTelemetryProvider()
	require.NoError(t, err)

	lot, err := parking.NewInstrumentedParkingLot(
		parking.NewParkingLot(2, parking.HourlyPricing(10)),
		telemetry,
	)
	require.NoError(t, err)

	srv := NewServer("0", lot)
	go srv.hub.Run()

	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/parking-lot/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool {
		return srv.hub.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}
