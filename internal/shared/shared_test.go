package shared

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Fatalf("expected unique ids, got %s twice", a)
	}

	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("expected a valid uuid: %v", err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected v7 uuid, got v%d", parsed.Version())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("shift started", "platforms", 2)

	if !strings.Contains(buf.String(), "shift started") {
		t.Errorf("expected log output to contain message, got %q", buf.String())
	}
}

func TestRedirectLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	path := filepath.Join(t.TempDir(), "nested", "prima.log")

	closer, err := RedirectLogger(logger, path)
	if err != nil {
		t.Fatalf("failed to redirect logger: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("expected nothing on the original writer, got %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected log file to contain message, got %q", data)
	}
}

func TestIsRejection(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want bool
	}{
		{name: "no platforms", err: ErrNoPlatforms, want: true},
		{name: "wrapped active", err: fmt.Errorf("%w: id 1", ErrShiftActive), want: true},
		{name: "invalid input", err: fmt.Errorf("%w: title required", ErrInvalidInput), want: true},
		{name: "api failure", err: ErrAPIRequest, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRejection(tt.err); got != tt.want {
				t.Errorf("IsRejection(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDataSource(t *testing.T) {
	tc := []struct {
		path string
		want string
	}{
		{path: ":memory:", want: ":memory:"},
		{path: "./prima.db", want: "./prima.db?_busy_timeout=5000"},
		{path: "file:prima.db?cache=shared", want: "file:prima.db?cache=shared&_busy_timeout=5000"},
	}

	for _, tt := range tc {
		t.Run(tt.path, func(t *testing.T) {
			if got := dataSource(tt.path); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
