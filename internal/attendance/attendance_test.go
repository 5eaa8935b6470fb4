package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6-digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("code %q has leading zero", code)
		}
	}
}

func TestGenerateTokenLength(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}
	other, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == other {
		t.Fatal("two generated tokens collided")
	}
}

func TestUniqueCodeRetriesThenSucceeds(t *testing.T) {
	calls := 0
	code, err := UniqueCode(func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	if err != nil {
		t.Fatalf("UniqueCode: %v", err)
	}
	if code == "" {
		t.Fatal("expected a code")
	}
	if calls != 3 {
		t.Fatalf("expected 3 probes, got %d", calls)
	}
}

func TestUniqueCodeExhausted(t *testing.T) {
	_, err := UniqueCode(func(string) (bool, error) {
		return true, nil
	})
	if !errors.Is(err, ErrCodeExhausted) {
		t.Fatalf("expected ErrCodeExhausted, got %v", err)
	}
}

func TestUniqueCodePropagatesProbeError(t *testing.T) {
	probeErr := errors.New("probe failed")
	_, err := UniqueCode(func(string) (bool, error) {
		return false, probeErr
	})
	if !errors.Is(err, probeErr) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestNormalizeMethod(t *testing.T) {
	cases := []struct {
		in   string
		want model.Method
		err  error
	}{
		{"", "", nil},
		{"qr", model.MethodQr, nil},
		{"qr_mark", model.MethodQr, nil},
		{"code", model.MethodCode, nil},
		{"code_mark", model.MethodCode, nil},
		{"ble", model.MethodBle, nil},
		{"ble_mark", model.MethodBle, nil},
		{"zoom", model.MethodJitsi, nil},
		{"jitsi", model.MethodJitsi, nil},
		{"jitsi_join", model.MethodJitsi, nil},
		{"manual", model.MethodManual, nil},
		{"teleport", "", ErrInvalidMethod},
		{"QR", "", ErrInvalidMethod},
	}
	for _, tc := range cases {
		got, err := NormalizeMethod(tc.in)
		if !errors.Is(err, tc.err) {
			t.Errorf("NormalizeMethod(%q) err = %v, want %v", tc.in, err, tc.err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeMethod(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLateStatusBoundary(t *testing.T) {
	started := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	threshold := 15 * time.Minute

	cases := []struct {
		name    string
		checkIn time.Time
		want    model.RecordStatus
	}{
		{"immediately", started, model.StatusPresent},
		{"one second before threshold", started.Add(threshold - time.Second), model.StatusPresent},
		{"exactly at threshold", started.Add(threshold), model.StatusLate},
		{"after threshold", started.Add(threshold + time.Second), model.StatusLate},
	}
	for _, tc := range cases {
		if got := lateStatus(started, tc.checkIn, threshold); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{25 * time.Minute, "0h 25m"},
		{8*time.Hour + 30*time.Minute, "8h 30m"},
		{-time.Minute, "0h 0m"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.d); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
