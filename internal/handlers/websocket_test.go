package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"voting_app/internal/models"
	"voting_app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func dialResultsWS(t *testing.T, voting *mockVoting, query url.Values) *websocket.Conn {
	t.Helper()

	s := &service.Service{Voting: voting}
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsResults)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_ResultsStream_InitialAndPeriodic(t *testing.T) {
	voting := &mockVoting{results: []models.CandidateTally{
		{Candidate: models.Candidate{ID: 1, Name: "Alice Johnson"}, Votes: 3},
		{Candidate: models.Candidate{ID: 2, Name: "Bob Smith"}, Votes: 1},
	}}

	q := url.Values{}
	q.Set("interval_ms", "20") // fast ticks for the test
	conn := dialResultsWS(t, voting, q)

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	// Read initial tally
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "results" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var tally []models.CandidateTally
	if err := json.Unmarshal(env.Data, &tally); err != nil {
		t.Fatalf("unmarshal tally: %v", err)
	}
	if len(tally) != 2 || tally[0].Votes != 3 || tally[0].Candidate.Name != "Alice Johnson" {
		t.Fatalf("unexpected tally: %+v", tally)
	}

	// Read a subsequent tick
	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "results" {
		t.Fatalf("expected type=results, got %+v", env)
	}
}

func TestWebSocket_InitialResultsError_Closes(t *testing.T) {
	voting := &mockVoting{resultsErr: errDBDown}
	conn := dialResultsWS(t, voting, url.Values{})

	// The server should close immediately after failing the initial send
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", string(raw))
	}
}
