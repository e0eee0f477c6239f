package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mastercactapus/gcbounds/volume"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBed = volume.Descriptor{Shape: volume.ShapeRectangle, Size: [2]float64{200, 200}, MaxZ: 250}

func newTestAPI(t *testing.T, dir string, opts ...func(*api)) (*api, *httptest.Server) {
	t.Helper()
	l := logrus.New()
	l.Out = io.Discard
	a := newAPI(dir, testBed, l)
	for _, o := range opts {
		o(a)
	}
	srv := httptest.NewServer(a)
	t.Cleanup(srv.Close)
	return a, srv
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	_, srv := newTestAPI(t, t.TempDir())
	return srv
}

func startJob(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	code, _ := do(t, "PUT", srv.URL+"/data/part.gcode", "G0 X10 Y10\nG0 X250\n")
	require.Equal(t, 200, code)

	code, body := do(t, "POST", srv.URL+"/api/analyze?file=part.gcode", "")
	require.Equal(t, http.StatusAccepted, code, body)
	var res struct{ ID string }
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	return res.ID
}

func do(t *testing.T, method, url, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestSafePath(t *testing.T) {
	ok, name := safePath("data", "../../etc/passwd")
	assert.True(t, ok)
	assert.Equal(t, "data/etc/passwd", name)

	ok, name = safePath("", "part.gcode")
	assert.True(t, ok)
	assert.Equal(t, "part.gcode", name)
}

func TestAPI_Files(t *testing.T) {
	srv := newTestServer(t)

	code, _ := do(t, "PUT", srv.URL+"/data/parts/a.gcode", "G0 X10\n")
	assert.Equal(t, 200, code)

	code, body := do(t, "GET", srv.URL+"/data/parts/a.gcode", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "G0 X10\n", body)

	code, _ = do(t, "DELETE", srv.URL+"/data/parts/a.gcode", "")
	assert.Equal(t, 200, code)

	code, _ = do(t, "DELETE", srv.URL+"/data/parts/a.gcode", "")
	assert.Equal(t, 404, code)
}

type jsonReport struct {
	Violations []struct {
		Line int
		Tags []string
	}
	Stats struct {
		Lines int
		Moves int
	}
}

func analyze(t *testing.T, srv *httptest.Server, descriptor string) jsonReport {
	t.Helper()
	code, body := do(t, "POST", srv.URL+"/api/analyze?file=part.gcode", descriptor)
	require.Equal(t, http.StatusAccepted, code, body)

	var res struct{ ID string }
	require.NoError(t, json.Unmarshal([]byte(body), &res))
	require.NotEmpty(t, res.ID)

	var rep jsonReport
	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/reports/" + res.ID)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != 200 {
			return false
		}
		return json.NewDecoder(resp.Body).Decode(&rep) == nil
	}, 5*time.Second, 10*time.Millisecond)
	return rep
}

func TestAPI_Analyze(t *testing.T) {
	srv := newTestServer(t)

	var gc strings.Builder
	for i := 0; i < 150; i++ {
		gc.WriteString("G1 X150 Y10 E1\n")
	}
	gc.WriteString("G0 X250 Y10 ; off the bed\n")
	code, _ := do(t, "PUT", srv.URL+"/data/part.gcode", gc.String())
	require.Equal(t, 200, code)

	rep := analyze(t, srv, "")
	assert.Equal(t, 151, rep.Stats.Lines)
	assert.Equal(t, 151, rep.Stats.Moves)
	require.Len(t, rep.Violations, 1)
	assert.Equal(t, 151, rep.Violations[0].Line)
	assert.Equal(t, []string{"X > Max"}, rep.Violations[0].Tags)

	// wider bed from the request
	rep = analyze(t, srv, `{"shape":"circle","radius":300}`)
	assert.Empty(t, rep.Violations)

	rep = analyze(t, srv, `{}`)
	assert.Len(t, rep.Violations, 1)
}

func TestAPI_AnalyzeErrors(t *testing.T) {
	srv := newTestServer(t)

	code, _ := do(t, "POST", srv.URL+"/api/analyze?file=missing.gcode", "")
	assert.Equal(t, 404, code)

	do(t, "PUT", srv.URL+"/data/part.gcode", "G0 X1\n")
	code, _ = do(t, "POST", srv.URL+"/api/analyze?file=part.gcode", `{"shape":"circle"}`)
	assert.Equal(t, 400, code)

	code, _ = do(t, "POST", srv.URL+"/api/analyze?file=part.gcode", `not json`)
	assert.Equal(t, 400, code)

	code, _ = do(t, "POST", srv.URL+"/api/analyze", "")
	assert.Equal(t, 400, code)

	code, _ = do(t, "GET", srv.URL+"/api/reports/nope", "")
	assert.Equal(t, 404, code)
}

func TestAPI_Stream(t *testing.T) {
	srv := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/analyze", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{}`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("G0 X10 Y10\nG0 X2")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("50 Y10\nG1 Z300")))

	var msg struct {
		Violation *struct {
			Line int
			Tags []string
		}
		Done  bool
		Stats *struct{ Lines, Moves int }
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.NotNil(t, msg.Violation)
	assert.Equal(t, 2, msg.Violation.Line)
	assert.Equal(t, []string{"X > Max"}, msg.Violation.Tags)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"done":true}`)))

	msg.Violation = nil
	require.NoError(t, conn.ReadJSON(&msg))
	require.NotNil(t, msg.Violation)
	assert.Equal(t, 3, msg.Violation.Line)
	assert.Equal(t, []string{"Z > Max"}, msg.Violation.Tags)

	msg.Violation = nil
	require.NoError(t, conn.ReadJSON(&msg))
	assert.True(t, msg.Done)
	require.NotNil(t, msg.Stats)
	assert.Equal(t, 3, msg.Stats.Lines)
	assert.Equal(t, 3, msg.Stats.Moves)
}

func TestAPI_StreamBadVolume(t *testing.T) {
	srv := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/analyze", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"shape":"hexagon"}`)))

	var msg struct{ Error string }
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Contains(t, msg.Error, "hexagon")
}

func TestLineSplitter(t *testing.T) {
	var s lineSplitter

	assert.Empty(t, s.Write("G0 X"))
	lines := s.Write("1\r\nG1 Y2\nG1")
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, "G0 X1", lines[0].Text)
	assert.Equal(t, "G1 Y2", lines[1].Text)

	lines = s.Flush()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Number)
	assert.Equal(t, "G1", lines[0].Text)
	assert.Empty(t, s.Flush())

	assert.True(t, isDone([]byte(` {"done": true} `)))
	assert.False(t, isDone([]byte(`{"done": false}`)))
	assert.False(t, isDone([]byte("G1 X1")))
}

func TestAPI_PutFileBadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0644))
	_, srv := newTestAPI(t, dir)

	code, _ := do(t, "PUT", srv.URL+"/data/blocker/a.gcode", "G0 X1\n")
	assert.Equal(t, 500, code)
}

func TestAPI_ReportFetchedOnce(t *testing.T) {
	srv := newTestServer(t)
	id := startJob(t, srv)

	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/api/reports/" + id)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == 200
	}, 5*time.Second, 10*time.Millisecond)

	code, _ := do(t, "GET", srv.URL+"/api/reports/"+id, "")
	assert.Equal(t, 404, code)
}

func TestAPI_ReportsExpire(t *testing.T) {
	a, srv := newTestAPI(t, t.TempDir(), func(a *api) { a.jobTTL = 10 * time.Millisecond })
	id := startJob(t, srv)

	assert.Eventually(t, func() bool {
		a.mx.Lock()
		defer a.mx.Unlock()
		_, ok := a.jobs[id]
		return !ok
	}, 5*time.Second, 10*time.Millisecond)
}
