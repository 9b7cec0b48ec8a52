package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
)

// InitData is a verified launch payload from the messaging host.
type InitData struct {
	User     models.HostUser
	AuthDate time.Time
	QueryID  string
}

// ValidateInitData checks the signature of raw against botToken and decodes it.
//
// A positive maxAge rejects payloads signed earlier than now minus maxAge.
func ValidateInitData(raw, botToken string, maxAge time.Duration, now time.Time) (InitData, error) {
	if raw == "" {
		return InitData{}, shared.ErrNotAuthenticated
	}
	if botToken == "" {
		return InitData{}, fmt.Errorf("%w: bot token required to verify init data", shared.ErrMissingCredentials)
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return InitData{}, fmt.Errorf("%w: malformed init data: %v", shared.ErrNotAuthenticated, err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return InitData{}, fmt.Errorf("%w: missing hash", shared.ErrInvalidSignature)
	}
	want, err := hex.DecodeString(hash)
	if err != nil || !hmac.Equal(want, signature(values, botToken)) {
		return InitData{}, shared.ErrInvalidSignature
	}

	var data InitData
	if ts := values.Get("auth_date"); ts != "" {
		secs, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return InitData{}, fmt.Errorf("%w: bad auth_date %q", shared.ErrNotAuthenticated, ts)
		}
		data.AuthDate = time.Unix(secs, 0)
	}
	if maxAge > 0 && (data.AuthDate.IsZero() || now.Sub(data.AuthDate) > maxAge) {
		return InitData{}, shared.ErrInitDataExpired
	}

	if u := values.Get("user"); u != "" {
		if err := json.Unmarshal([]byte(u), &data.User); err != nil {
			return InitData{}, fmt.Errorf("%w: bad user field: %v", shared.ErrNotAuthenticated, err)
		}
	}
	if data.User.ID == 0 {
		return InitData{}, fmt.Errorf("%w: init data carries no user", shared.ErrNotAuthenticated)
	}
	data.QueryID = values.Get("query_id")
	return data, nil
}

// SignInitData returns values encoded with a valid hash for botToken.
func SignInitData(values url.Values, botToken string) string {
	signed := url.Values{}
	for k, v := range values {
		if k != "hash" {
			signed[k] = v
		}
	}
	signed.Set("hash", hex.EncodeToString(signature(signed, botToken)))
	return signed.Encode()
}

// signature computes HMAC-SHA256 over the sorted "key=value" lines, keyed by
// HMAC-SHA256("WebAppData", botToken).
func signature(values url.Values, botToken string) []byte {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = k + "=" + values.Get(k)
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return mac.Sum(nil)
}

// TelegramIdentity resolves the operator from signed launch data.
type TelegramIdentity struct {
	InitData string
	BotToken string
	MaxAge   time.Duration
	Now      func() time.Time
}

// Identity implements [studio.IdentityProvider].
func (t *TelegramIdentity) Identity(_ context.Context) (models.User, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	data, err := ValidateInitData(t.InitData, t.BotToken, t.MaxAge, now())
	if err != nil {
		return models.User{}, err
	}
	return data.User.User(), nil
}

// PlaceholderIdentity always answers the fixed development user.
type PlaceholderIdentity struct{}

func (PlaceholderIdentity) Identity(context.Context) (models.User, error) {
	return models.PlaceholderUser(), nil
}
