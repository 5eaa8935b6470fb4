package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/attendance"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"Bearer abc":         "abc",
		"bearer abc":         "abc",
		"BEARER abc":         "abc",
		"Basic abc":          "",
		"Bearer":             "",
		"Bearer  two  words": "two  words",
	}
	for header, expect := range cases {
		if got := bearerToken(header); got != expect {
			t.Errorf("bearerToken(%q) = %q, want %q", header, got, expect)
		}
	}
}

func TestStatusForKind(t *testing.T) {
	cases := map[attendance.Kind]int{
		attendance.KindInvalid:     http.StatusBadRequest,
		attendance.KindNotFound:    http.StatusNotFound,
		attendance.KindConflict:    http.StatusConflict,
		attendance.KindForbidden:   http.StatusForbidden,
		attendance.KindExpired:     http.StatusGone,
		attendance.KindAlreadyUsed: http.StatusGone,
		attendance.KindExhausted:   http.StatusConflict,
	}
	for kind, expect := range cases {
		if got := statusForKind(kind); got != expect {
			t.Errorf("statusForKind(%d) = %d, want %d", kind, got, expect)
		}
	}
}

func TestParseLimit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sessions?limit=30", nil)
	if got := parseLimit(req, 20); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/sessions?limit=0", nil)
	if got := parseLimit(req, 20); got != 20 {
		t.Fatalf("expected fallback 20, got %d", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/sessions?limit=9999", nil)
	if got := parseLimit(req, 20); got != 20 {
		t.Fatalf("expected fallback for out-of-range, got %d", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/sessions", nil)
	if got := parseLimit(req, 20); got != 20 {
		t.Fatalf("expected fallback 20, got %d", got)
	}
}

func TestParseOffset(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/sessions?offset=40", nil)
	if got := parseOffset(req); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
	req = httptest.NewRequest(http.MethodGet, "/sessions?offset=-1", nil)
	if got := parseOffset(req); got != 0 {
		t.Fatalf("expected 0 for negative offset, got %d", got)
	}
}

func TestDecodeOptionalJSONEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/start", strings.NewReader(""))
	var out struct {
		Title string `json:"title"`
	}
	if err := decodeOptionalJSON(req, &out); err != nil {
		t.Fatalf("expected nil for empty body, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/start", strings.NewReader(`{"title":"x"}`))
	if err := decodeOptionalJSON(req, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Title != "x" {
		t.Fatalf("expected title x, got %q", out.Title)
	}

	req = httptest.NewRequest(http.MethodPost, "/start", strings.NewReader(`{"unknown":true}`))
	if err := decodeOptionalJSON(req, &out); err == nil {
		t.Fatal("expected unknown-field error")
	}
}

func TestReadBodyBytesRestoresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(`{"deviceId":"d1"}`))
	body, err := readBodyBytes(req)
	if err != nil {
		t.Fatalf("readBodyBytes: %v", err)
	}
	if string(body) != `{"deviceId":"d1"}` {
		t.Fatalf("unexpected body %q", body)
	}

	var out struct {
		DeviceID string `json:"deviceId"`
	}
	if err := decodeJSON(req, &out); err != nil {
		t.Fatalf("decode after restore: %v", err)
	}
	if out.DeviceID != "d1" {
		t.Fatalf("expected d1, got %q", out.DeviceID)
	}
}
