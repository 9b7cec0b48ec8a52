package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
	tu "github.com/desertthunder/prima/internal/testing"
)

type fakeGenerator struct {
	model  string
	prompt string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

var sampleRequest = studio.FeedbackRequest{
	OperatorName:    "Alice",
	DurationHours:   "2.50",
	TotalTokens:     450,
	PlatformSummary: "Chaturbate: 300 тк, Cum4K: 150 тк",
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleRequest)
	for _, want := range []string{
		"Оператор: Alice",
		"Длительность: 2.50 ч.",
		"Общий доход: 450 токенов.",
		"Детализация по площадкам: Chaturbate: 300 тк, Cum4K: 150 тк",
		">500 тк/час",
		"Максимум 4-5 предложений.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestGeminiSummarizer(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		g, err := NewGeminiSummarizer(context.Background(), "", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if g.Model() != DefaultModel {
			t.Errorf("expected default model, got %s", g.Model())
		}

		if _, err := g.Summarize(context.Background(), sampleRequest); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
		if got := studio.Summarize(context.Background(), g, sampleRequest, time.Second, nil); got != studio.FeedbackNoKey {
			t.Errorf("expected the missing key text, got %q", got)
		}
	})

	t.Run("returns generated text", func(t *testing.T) {
		gen := &fakeGenerator{resp: &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: genai.NewContentFromText("Отличная смена!", genai.RoleModel)}},
		}}
		g := &GeminiSummarizer{models: gen, model: "test-model"}

		text, err := g.Summarize(context.Background(), sampleRequest)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if text != "Отличная смена!" {
			t.Errorf("unexpected text %q", text)
		}
		if gen.model != "test-model" {
			t.Errorf("expected test-model, got %s", gen.model)
		}
		if !strings.Contains(gen.prompt, "Оператор: Alice") {
			t.Errorf("expected the prompt to be sent, got %q", gen.prompt)
		}
	})

	t.Run("service error", func(t *testing.T) {
		g := &GeminiSummarizer{models: &fakeGenerator{err: errors.New("quota")}, model: DefaultModel}

		if _, err := g.Summarize(context.Background(), sampleRequest); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if got := studio.Summarize(context.Background(), g, sampleRequest, time.Second, nil); got != studio.FeedbackError {
			t.Errorf("expected the error text, got %q", got)
		}
	})

	t.Run("empty answer", func(t *testing.T) {
		g := &GeminiSummarizer{models: &fakeGenerator{resp: &genai.GenerateContentResponse{}}, model: DefaultModel}
		if got := studio.Summarize(context.Background(), g, sampleRequest, time.Second, nil); got != studio.FeedbackEmpty {
			t.Errorf("expected the empty text, got %q", got)
		}
	})
}

func TestShareURL(t *testing.T) {
	got := ShareURL("", "📊 *ОТЧЕТ*\nA & B")
	if !strings.HasPrefix(got, "https://t.me/share/url?url=https%3A%2F%2Ft.me%2FPrimaStudioBot%2Fapp&text=") {
		t.Errorf("unexpected share url %s", got)
	}
	if strings.Contains(got, "+") {
		t.Errorf("expected spaces encoded as %%20, got %s", got)
	}

	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatalf("failed to parse share url: %v", err)
	}
	if parsed.Query().Get("url") != DefaultAppURL {
		t.Errorf("expected app url, got %s", parsed.Query().Get("url"))
	}
	if parsed.Query().Get("text") != "📊 *ОТЧЕТ*\nA & B" {
		t.Errorf("text did not round trip: %q", parsed.Query().Get("text"))
	}
}

func TestSharers(t *testing.T) {
	t.Run("link sharer opens the share url", func(t *testing.T) {
		var opened string
		s := NewTelegramLinkSharer("https://t.me/app", func(u string) error { opened = u; return nil })

		if err := s.Share(context.Background(), "report"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if opened != ShareURL("https://t.me/app", "report") {
			t.Errorf("opened wrong url %s", opened)
		}
		if s.Name() != "telegram-link" {
			t.Errorf("unexpected name %s", s.Name())
		}
	})

	t.Run("writer sharer", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewWriterSharer(&buf)
		if err := s.Share(context.Background(), "report"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "report\n" {
			t.Errorf("unexpected output %q", buf.String())
		}

		if err := NewWriterSharer(&tu.FWriter{}).Share(context.Background(), "x"); err == nil {
			t.Error("expected error from failing writer")
		}
	})

	t.Run("fallback prints locally when the host is unavailable", func(t *testing.T) {
		var buf bytes.Buffer
		primary := &tu.MockSharer{Err: shared.ErrServiceUnavailable, Target: "telegram-link"}
		s := &FallbackSharer{Primary: primary, Fallback: NewWriterSharer(&buf), Logger: shared.NewLogger(io.Discard)}

		if err := s.Share(context.Background(), "report"); err != nil {
			t.Fatalf("expected fallback to succeed, got %v", err)
		}
		if buf.String() != "report\n" {
			t.Errorf("expected the report printed locally, got %q", buf.String())
		}
		if s.Name() != "telegram-link" {
			t.Errorf("expected the primary name, got %s", s.Name())
		}
	})

	t.Run("fallback not used on success", func(t *testing.T) {
		var buf bytes.Buffer
		primary := &tu.MockSharer{}
		s := &FallbackSharer{Primary: primary, Fallback: NewWriterSharer(&buf)}

		if err := s.Share(context.Background(), "report"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(primary.Texts) != 1 || primary.Texts[0] != "report" {
			t.Errorf("unexpected primary texts %v", primary.Texts)
		}
		if buf.Len() != 0 {
			t.Errorf("expected nothing printed, got %q", buf.String())
		}
	})

	t.Run("both failing", func(t *testing.T) {
		s := &FallbackSharer{Primary: &tu.MockSharer{Err: shared.ErrAPIRequest}, Fallback: NewWriterSharer(&tu.FWriter{})}
		if err := s.Share(context.Background(), "report"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestTelegramBotSharer(t *testing.T) {
	t.Run("requires credentials", func(t *testing.T) {
		if _, err := NewTelegramBotSharer(BotSharerOpts{Token: "t"}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("sends markdown message", func(t *testing.T) {
		var got sendMessageRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/botTOKEN/sendMessage" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			w.Write([]byte(`{"ok":true,"result":{}}`))
		}))
		defer server.Close()

		s, err := NewTelegramBotSharer(BotSharerOpts{Token: "TOKEN", ChatID: "-100", AppURL: DefaultAppURL, BaseURL: server.URL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := s.Share(context.Background(), "*report*"); err != nil {
			t.Fatalf("share failed: %v", err)
		}

		if got.ChatID != "-100" || got.Text != "*report*" || got.ParseMode != "Markdown" {
			t.Errorf("unexpected message %+v", got)
		}
		if got.ReplyMarkup == nil {
			t.Fatal("expected an app button")
		}
		if u := got.ReplyMarkup.InlineKeyboard[0][0].URL; u != DefaultAppURL {
			t.Errorf("expected button to open the app, got %s", u)
		}
	})

	t.Run("api rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
		}))
		defer server.Close()

		s, err := NewTelegramBotSharer(BotSharerOpts{Token: "TOKEN", ChatID: "1", BaseURL: server.URL})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		err = s.Share(context.Background(), "x")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "chat not found") {
			t.Errorf("expected the API description, got %v", err)
		}
	})
}

func signedInitData(t *testing.T, token string, authDate time.Time) string {
	t.Helper()
	user, err := json.Marshal(models.HostUser{ID: 42, FirstName: "Kei", Username: "kei", PhotoURL: "https://t.me/i/kei.jpg"})
	if err != nil {
		t.Fatalf("failed to encode user: %v", err)
	}
	return SignInitData(url.Values{
		"query_id":  {"AAH"},
		"user":      {string(user)},
		"auth_date": {strconv.FormatInt(authDate.Unix(), 10)},
	}, token)
}

func TestValidateInitData(t *testing.T) {
	now := time.Date(2025, 11, 26, 18, 0, 0, 0, time.UTC)
	raw := signedInitData(t, "123:ABC", now.Add(-time.Hour))

	t.Run("valid", func(t *testing.T) {
		data, err := ValidateInitData(raw, "123:ABC", 24*time.Hour, now)
		if err != nil {
			t.Fatalf("expected valid init data, got %v", err)
		}
		if data.User.ID != 42 || data.QueryID != "AAH" {
			t.Errorf("unexpected data %+v", data)
		}
		if data.AuthDate.Unix() != now.Add(-time.Hour).Unix() {
			t.Errorf("unexpected auth date %v", data.AuthDate)
		}

		user := data.User.User()
		if user.ID != "42" || user.FirstName != "Kei" || user.PhotoURL != "https://t.me/i/kei.jpg" {
			t.Errorf("unexpected user %+v", user)
		}
	})

	tc := []struct {
		name  string
		raw   string
		token string
		age   time.Duration
		want  error
	}{
		{name: "wrong token", raw: raw, token: "999:XYZ", want: shared.ErrInvalidSignature},
		{name: "tampered field", raw: strings.Replace(raw, "query_id=AAH", "query_id=AAX", 1), token: "123:ABC", want: shared.ErrInvalidSignature},
		{name: "expired", raw: raw, token: "123:ABC", age: 30 * time.Minute, want: shared.ErrInitDataExpired},
		{name: "empty", raw: "", token: "123:ABC", want: shared.ErrNotAuthenticated},
		{name: "no bot token", raw: raw, token: "", want: shared.ErrMissingCredentials},
		{name: "no hash", raw: "auth_date=1", token: "123:ABC", want: shared.ErrInvalidSignature},
		{name: "no user", raw: SignInitData(url.Values{"auth_date": {"1"}}, "123:ABC"), token: "123:ABC", want: shared.ErrNotAuthenticated},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateInitData(tt.raw, tt.token, tt.age, now); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIdentityProviders(t *testing.T) {
	now := time.Date(2025, 11, 26, 18, 0, 0, 0, time.UTC)
	host := &TelegramIdentity{
		InitData: signedInitData(t, "123:ABC", now),
		BotToken: "123:ABC",
		MaxAge:   time.Hour,
		Now:      func() time.Time { return now },
	}

	user, err := host.Identity(context.Background())
	if err != nil || user.ID != "42" {
		t.Fatalf("expected user 42, got %+v (%v)", user, err)
	}

	logged := studio.Login(context.Background(), host, &tu.MemoryProfile{R: models.RoleAdmin}, nil)
	if logged.ID != "42" || logged.Role != models.RoleAdmin {
		t.Errorf("expected admin 42, got %+v", logged)
	}

	placeholder, err := PlaceholderIdentity{}.Identity(context.Background())
	if err != nil || placeholder.ID != models.PlaceholderUserID {
		t.Errorf("expected the placeholder user, got %+v (%v)", placeholder, err)
	}

	if _, err := (&TelegramIdentity{BotToken: "123:ABC"}).Identity(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestParseStore(t *testing.T) {
	t.Run("requires credentials", func(t *testing.T) {
		if _, err := NewParseStore("", "", "key", nil); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("check round trip", func(t *testing.T) {
		var calls []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Parse-Application-Id") != "app" || r.Header.Get("X-Parse-REST-API-Key") != "rest" {
				t.Errorf("missing auth headers: %v", r.Header)
			}
			calls = append(calls, r.Method+" "+r.URL.Path)

			switch r.Method {
			case http.MethodPost:
				var score GameScore
				if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
					t.Errorf("failed to decode score: %v", err)
				}
				if score.Score != 1337 || score.PlayerName != "Sean Plott" {
					t.Errorf("unexpected score %+v", score)
				}
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"objectId":"xWMyZ4YEGZ","createdAt":"2025-11-26T18:00:00.000Z"}`))
			case http.MethodGet:
				if where := r.URL.Query().Get("where"); where != `{"score":{"$gt":1000}}` {
					t.Errorf("unexpected query %s", where)
				}
				w.Write([]byte(`{"results":[{"objectId":"xWMyZ4YEGZ","score":1337,"playerName":"Sean Plott"}]}`))
			case http.MethodPut:
				body, _ := io.ReadAll(r.Body)
				if strings.TrimSpace(string(body)) != `{"score":1338}` {
					t.Errorf("unexpected update body %s", body)
				}
				w.Write([]byte(`{"updatedAt":"2025-11-26T18:00:01.000Z"}`))
			case http.MethodDelete:
				w.Write([]byte(`{}`))
			}
		}))
		defer server.Close()

		store, err := NewParseStore(server.URL, "app", "rest", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		steps, err := store.Check(context.Background())
		if err != nil {
			t.Fatalf("check failed: %v", err)
		}
		if len(steps) != 4 {
			t.Fatalf("expected 4 steps, got %d", len(steps))
		}
		if steps[1].Detail != "1 results" {
			t.Errorf("unexpected query detail %q", steps[1].Detail)
		}
		want := []string{
			"POST /classes/GameScore",
			"GET /classes/GameScore",
			"PUT /classes/GameScore/xWMyZ4YEGZ",
			"DELETE /classes/GameScore/xWMyZ4YEGZ",
		}
		if strings.Join(calls, "\n") != strings.Join(want, "\n") {
			t.Errorf("expected calls %v, got %v", want, calls)
		}
	})

	t.Run("stops at first failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":101,"error":"unauthorized"}`))
		}))
		defer server.Close()

		store, err := NewParseStore(server.URL, "app", "rest", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		steps, err := store.Check(context.Background())
		if !errors.Is(err, shared.ErrAPIRequest) || !strings.Contains(err.Error(), "unauthorized") {
			t.Errorf("expected an unauthorized API error, got %v", err)
		}
		if len(steps) != 1 || steps[0].Name != "write" {
			t.Errorf("expected only the write step, got %+v", steps)
		}
	})

	t.Run("latest", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if order := r.URL.Query().Get("order"); order != "-createdAt" {
				t.Errorf("expected newest first, got %s", order)
			}
			w.Write([]byte(`{"results":[]}`))
		}))
		defer server.Close()

		store, err := NewParseStore(server.URL, "app", "rest", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		_, ok, err := store.Latest(context.Background())
		if err != nil || ok {
			t.Errorf("expected no results, got ok=%v err=%v", ok, err)
		}
	})
}
