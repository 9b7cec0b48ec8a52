// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/prima/internal/models"
)

// Clock is a manually advanced clock for lifecycle tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock stopped at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sequence returns an id generator yielding prefix-1, prefix-2, ...
func Sequence(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// MemoryShiftStore is an in-memory shift store that records every commit.
type MemoryShiftStore struct {
	mu       sync.Mutex
	Shifts   []models.Shift
	Active   string
	Commits  int
	FailWith error // returned by Commit when set
}

func (s *MemoryShiftStore) Load() ([]models.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Shift, len(s.Shifts))
	for i, shift := range s.Shifts {
		out[i] = shift.Clone()
	}
	return out, nil
}

func (s *MemoryShiftStore) ActiveID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Active, nil
}

func (s *MemoryShiftStore) Commit(shifts []models.Shift, activeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.Shifts = make([]models.Shift, len(shifts))
	for i, shift := range shifts {
		s.Shifts[i] = shift.Clone()
	}
	s.Active = activeID
	s.Commits++
	return nil
}

// MemoryCollection is an in-memory models.Collection.
type MemoryCollection[T any] struct {
	mu    sync.Mutex
	Items []T
	Saves int
}

func (c *MemoryCollection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T{}, c.Items...), nil
}

func (c *MemoryCollection[T]) Save(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Items = append([]T{}, items...)
	c.Saves++
	return nil
}

// MemoryProfile is an in-memory profile store.
type MemoryProfile struct {
	mu    sync.Mutex
	Creds models.Credentials
	R     models.Role
}

func (p *MemoryProfile) Credentials() (models.Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := models.Credentials{}
	for k, v := range p.Creds {
		out[k] = v
	}
	return out, nil
}

func (p *MemoryProfile) SaveCredentials(creds models.Credentials) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Creds = creds
	return nil
}

func (p *MemoryProfile) Role() (models.Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return models.ParseRole(string(p.R)), nil
}

func (p *MemoryProfile) SetRole(role models.Role) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.R = role
	return nil
}

// MockSharer records shared texts and optionally fails.
type MockSharer struct {
	mu     sync.Mutex
	Texts  []string
	Err    error
	Target string
}

func (m *MockSharer) Share(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Texts = append(m.Texts, text)
	return nil
}

func (m *MockSharer) Name() string {
	if m.Target == "" {
		return "mock"
	}
	return m.Target
}

// MockIdentity returns a fixed user or error.
type MockIdentity struct {
	User models.User
	Err  error
}

func (m *MockIdentity) Identity(ctx context.Context) (models.User, error) {
	return m.User, m.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
