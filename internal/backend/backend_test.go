package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// mockHTTPClient is a test double for HTTPClient
type mockHTTPClient struct {
	responses []*http.Response
	errors    []error
	callCount int
	requests  []*http.Request
	bodies    [][]byte
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))
	}
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, body)
	defer func() { m.callCount++ }()
	if m.callCount < len(m.errors) && m.errors[m.callCount] != nil {
		return nil, m.errors[m.callCount]
	}
	if m.callCount < len(m.responses) {
		return m.responses[m.callCount], nil
	}
	return nil, io.EOF
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func newTestClient(t *testing.T, mock *mockHTTPClient) *Client {
	t.Helper()
	c, err := NewClient("http://backend.test", WithHTTPClient(mock), WithRetryDelay(time.Millisecond))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		baseURL   string
		wantBase  string
		wantError bool
	}{
		{name: "default", baseURL: "", wantBase: defaultBaseURL},
		{name: "trailing slash trimmed", baseURL: "http://host:9000/", wantBase: "http://host:9000"},
		{name: "https", baseURL: "https://review.example.com", wantBase: "https://review.example.com"},
		{name: "bad scheme", baseURL: "ftp://host", wantError: true},
		{name: "no scheme", baseURL: "localhost:8080", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.baseURL)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.BaseURL() != tt.wantBase {
				t.Errorf("got base %q, want %q", c.BaseURL(), tt.wantBase)
			}
			if c.SessionID() == "" {
				t.Error("expected generated session id")
			}
		})
	}
}

func TestCurrentObject(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantNil    bool
		wantID     string
		wantPhase  int
		wantShow   bool
		wantClash  bool
		wantFile   string
		wantAnalys string
	}{
		{name: "null body", body: "null", wantNil: true},
		{name: "empty body", body: "", wantNil: true},
		{name: "empty object", body: "{}", wantNil: true},
		{
			name:       "numeric id blind review",
			body:       `{"id": 5, "sub_id": 2, "code_id": "c-9", "review_phase": 1, "show_analysis": false, "conflict": false, "current_filename": "a.json", "relevance_analysis": null}`,
			wantID:     "5",
			wantPhase:  1,
			wantFile:   "a.json",
			wantAnalys: Placeholder,
		},
		{
			name:       "string id conflict",
			body:       `{"id": "abc", "review_phase": 2, "show_analysis": true, "conflict": true, "relevance_analysis": "relevant"}`,
			wantID:     "abc",
			wantPhase:  2,
			wantShow:   true,
			wantClash:  true,
			wantAnalys: "relevant",
		},
		{
			name:       "missing phase",
			body:       `{"id": 7}`,
			wantID:     "7",
			wantAnalys: Placeholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockHTTPClient{responses: []*http.Response{jsonResponse(http.StatusOK, tt.body)}}
			c := newTestClient(t, mock)

			snap, err := c.CurrentObject(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if snap != nil {
					t.Errorf("expected no item, got %+v", snap)
				}
				return
			}
			if snap == nil {
				t.Fatal("expected snapshot, got nil")
			}
			if got := snap.ID.String(); got != tt.wantID {
				t.Errorf("id = %q, want %q", got, tt.wantID)
			}
			if snap.ReviewPhase != tt.wantPhase {
				t.Errorf("review_phase = %d, want %d", snap.ReviewPhase, tt.wantPhase)
			}
			if snap.ShowAnalysis != tt.wantShow {
				t.Errorf("show_analysis = %v, want %v", snap.ShowAnalysis, tt.wantShow)
			}
			if snap.Conflict != tt.wantClash {
				t.Errorf("conflict = %v, want %v", snap.Conflict, tt.wantClash)
			}
			if snap.CurrentFilename != tt.wantFile {
				t.Errorf("current_filename = %q, want %q", snap.CurrentFilename, tt.wantFile)
			}
			if got := snap.Field("relevance_analysis").String(); got != tt.wantAnalys {
				t.Errorf("relevance_analysis = %q, want %q", got, tt.wantAnalys)
			}
		})
	}
}

func TestCurrentObjectErrors(t *testing.T) {
	t.Run("server error is not retried", func(t *testing.T) {
		mock := &mockHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusInternalServerError, `{"error":"boom"}`),
			jsonResponse(http.StatusOK, `{"id":1}`),
		}}
		c := newTestClient(t, mock)

		_, err := c.CurrentObject(context.Background())
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if se.Code != http.StatusInternalServerError {
			t.Errorf("code = %d", se.Code)
		}
		if mock.callCount != 1 {
			t.Errorf("expected 1 call, got %d", mock.callCount)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		mock := &mockHTTPClient{responses: []*http.Response{jsonResponse(http.StatusOK, `{"id":`)}}
		c := newTestClient(t, mock)
		if _, err := c.CurrentObject(context.Background()); err == nil {
			t.Error("expected parse error")
		}
	})

	t.Run("transport error", func(t *testing.T) {
		mock := &mockHTTPClient{errors: []error{errors.New("connection refused")}}
		c := newTestClient(t, mock)
		if _, err := c.CurrentObject(context.Background()); err == nil {
			t.Error("expected transport error")
		}
	})
}

func TestProgress(t *testing.T) {
	mock := &mockHTTPClient{responses: []*http.Response{
		jsonResponse(http.StatusOK, `{"file_progress": 42.5, "total_progress": 10}`),
	}}
	c := newTestClient(t, mock)

	p, err := c.Progress(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FileProgress != 42.5 || p.TotalProgress != 10 {
		t.Errorf("got %+v", p)
	}
	if got := mock.requests[0].URL.Path; got != "/progress" {
		t.Errorf("path = %q", got)
	}
}

func TestSubmitDecision(t *testing.T) {
	tests := []struct {
		name      string
		decision  int
		response  *http.Response
		wantErr   bool
		wantCalls int
	}{
		{name: "vulnerable", decision: 1, response: jsonResponse(http.StatusOK, `{"status":"Decision received"}`), wantCalls: 1},
		{name: "not vulnerable", decision: 0, response: jsonResponse(http.StatusOK, `{"status":"Decision received"}`), wantCalls: 1},
		{name: "not relevant", decision: -1, response: jsonResponse(http.StatusOK, `{"status":"Decision received"}`), wantCalls: 1},
		{name: "server error not retried", decision: 1, response: jsonResponse(http.StatusInternalServerError, `{"error":"x"}`), wantErr: true, wantCalls: 1},
		{name: "error body", decision: 1, response: jsonResponse(http.StatusOK, `{"error":"no object"}`), wantErr: true, wantCalls: 1},
		{name: "out of range", decision: 2, wantErr: true, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockHTTPClient{}
			if tt.response != nil {
				mock.responses = []*http.Response{tt.response}
			}
			c := newTestClient(t, mock)

			_, err := c.SubmitDecision(context.Background(), tt.decision)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if mock.callCount != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", mock.callCount, tt.wantCalls)
			}
			if tt.wantCalls == 0 {
				return
			}

			req := mock.requests[0]
			if req.Method != http.MethodPost || req.URL.Path != "/submit_decision" {
				t.Errorf("got %s %s", req.Method, req.URL.Path)
			}
			var body map[string]int
			if err := json.Unmarshal(mock.bodies[0], &body); err != nil {
				t.Fatalf("bad body %q: %v", mock.bodies[0], err)
			}
			if body["decision"] != tt.decision {
				t.Errorf("decision = %d, want %d", body["decision"], tt.decision)
			}
		})
	}
}

func TestSubmitDecisionErrorBodyIsRejected(t *testing.T) {
	mock := &mockHTTPClient{responses: []*http.Response{jsonResponse(http.StatusOK, `{"error":"no object"}`)}}
	c := newTestClient(t, mock)

	_, err := c.SubmitDecision(context.Background(), 0)
	if !errors.Is(err, ErrRejected) {
		t.Errorf("expected ErrRejected, got %v", err)
	}
}

func TestControlRetries(t *testing.T) {
	t.Run("retries 503 then succeeds", func(t *testing.T) {
		mock := &mockHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusServiceUnavailable, ""),
			jsonResponse(http.StatusOK, `{"status":"Processing started"}`),
		}}
		c := newTestClient(t, mock)

		status, err := c.StartProcessing(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if status.Status != "Processing started" {
			t.Errorf("status = %q", status.Status)
		}
		if mock.callCount != 2 {
			t.Errorf("expected 2 calls, got %d", mock.callCount)
		}
	})

	t.Run("does not retry 4xx", func(t *testing.T) {
		mock := &mockHTTPClient{responses: []*http.Response{
			jsonResponse(http.StatusNotFound, "not found"),
			jsonResponse(http.StatusOK, `{"status":"Processing stopped"}`),
		}}
		c := newTestClient(t, mock)

		if _, err := c.StopProcessing(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if mock.callCount != 1 {
			t.Errorf("expected 1 call, got %d", mock.callCount)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		mock := &mockHTTPClient{errors: []error{
			errors.New("refused"), errors.New("refused"), errors.New("refused"), errors.New("refused"), errors.New("refused"),
		}}
		c := newTestClient(t, mock)

		if _, err := c.StartProcessing(context.Background()); err == nil {
			t.Fatal("expected error")
		}
		if mock.callCount != maxControlRetries+1 {
			t.Errorf("expected %d calls, got %d", maxControlRetries+1, mock.callCount)
		}
	})
}

func TestSessionHeaderAndProcessedStatus(t *testing.T) {
	var gotSession string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = r.Header.Get(SessionHeader)
		if r.URL.Path != "/processed_status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "sub_id": "a"}, {"id": 2, "sub_id": null}]`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, WithSessionID("session-1"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	items, err := c.ProcessedStatus(context.Background())
	if err != nil {
		t.Fatalf("ProcessedStatus: %v", err)
	}
	if gotSession != "session-1" {
		t.Errorf("session header = %q", gotSession)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID.String() != "1" || items[0].SubID.String() != "a" {
		t.Errorf("item 0 = %v/%v", items[0].ID, items[0].SubID)
	}
	if items[1].SubID.String() != Placeholder {
		t.Errorf("expected placeholder for null sub_id, got %q", items[1].SubID.String())
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: Placeholder},
		{raw: "null", want: Placeholder},
		{raw: `"text"`, want: "text"},
		{raw: "12", want: "12"},
		{raw: "1.5", want: "1.5"},
		{raw: "true", want: "true"},
		{raw: `{"a": 1}`, want: `{"a":1}`},
	}

	for _, tt := range tests {
		if got := NewValue(tt.raw).String(); got != tt.want {
			t.Errorf("NewValue(%q).String() = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
