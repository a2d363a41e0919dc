// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/deep-research/internal/stream"
	"github.com/pdiddy/deep-research/pkg/types"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(types.ServerConfig{SubscriberBuffer: 16}, nil, zap.NewNop())
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	t.Cleanup(func() { s.hub.Close() })
	return s, ts
}

func postUpdate(t *testing.T, url string, u types.StreamUpdate) *http.Response {
	t.Helper()
	body, err := json.Marshal(u)
	require.NoError(t, err)
	resp, err := http.Post(url+"/updates", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServerIngestAndSnapshot(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postUpdate(t, ts.URL, stream.PlanRunning())
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	resp = postUpdate(t, ts.URL, stream.SearchRunning("web-0-aa", types.SourceWeb, "q1"))
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp = postUpdate(t, ts.URL, stream.SearchCompleted("web-0-aa", types.SourceWeb, "q1", nil))
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	snapResp, err := http.Get(ts.URL + "/session")
	require.NoError(t, err)
	defer snapResp.Body.Close()
	require.Equal(t, http.StatusOK, snapResp.StatusCode)

	var snap []types.StreamUpdateData
	require.NoError(t, json.NewDecoder(snapResp.Body).Decode(&snap))
	// The completed search frame overwrote the running one.
	require.Len(t, snap, 2)
	assert.Equal(t, stream.PlanStepID, snap[0].ID)
	assert.Equal(t, types.StatusCompleted, snap[1].Status)
}

func TestServerRejectsInvalidFrame(t *testing.T) {
	_, ts := newTestServer(t)

	bad := types.StreamUpdate{Type: types.StreamUpdateType} // empty payload
	resp := postUpdate(t, ts.URL, bad)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "data.id")
}

func TestServerRejectsMalformedJSON(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/updates", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerWebsocketStreaming(t *testing.T) {
	s, ts := newTestServer(t)

	// A frame ingested before the subscriber connects arrives via the
	// snapshot; frames ingested after arrive live.
	resp := postUpdate(t, ts.URL, stream.PlanRunning())
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	readFrame := func() types.StreamUpdate {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var u types.StreamUpdate
		require.NoError(t, conn.ReadJSON(&u))
		return u
	}

	first := readFrame()
	assert.Equal(t, stream.PlanStepID, first.Data.ID)
	assert.Equal(t, types.StreamUpdateType, first.Type)

	// Wait for the live subscription before ingesting the next frame.
	require.Eventually(t, func() bool { return s.hub.Len() == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Ingest(context.Background(), stream.Progress(1, 2, false)))

	second := readFrame()
	assert.Equal(t, stream.ProgressStepID, second.Data.ID)
}
