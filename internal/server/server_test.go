package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealguard-ai/dealguard/internal/analyzer"
	"github.com/dealguard-ai/dealguard/internal/ner"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(analyzer.New(), nil, nil, nil, "test")
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postAnalyze(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/analyze", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := postAnalyze(t, ts, `{"message":"URGENT: our bank details have changed, use the new account. Don't tell your manager."}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var report analyzer.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Risk.Tier != "HIGH" {
		t.Errorf("tier = %s, score = %d", report.Risk.Tier, report.Risk.Score)
	}
	if len(report.Risk.Reasons) == 0 {
		t.Error("expected reasons")
	}
	if report.Reply == "" {
		t.Error("expected composed reply")
	}
}

func TestAnalyzeEmptyMessage(t *testing.T) {
	ts := newTestServer(t)
	resp := postAnalyze(t, ts, `{"message":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestAnalyzeBadJSON(t *testing.T) {
	ts := newTestServer(t)
	resp := postAnalyze(t, ts, `{"message":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/analyze")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	lazy := ner.NewLazy(func() (ner.Engine, error) { return ner.NewNoop(), nil })
	s := NewServer(analyzer.New(), nil, nil, lazy, "1.2.3")
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Version != "1.2.3" {
		t.Errorf("version = %q", status.Version)
	}
	if status.NERState != "idle" {
		t.Errorf("ner_state = %q", status.NERState)
	}
}

func TestStatusWithoutNER(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/v1/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.NERState != "disabled" {
		t.Errorf("ner_state = %q", status.NERState)
	}
}
