package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/prima/internal/shared"
)

// DefaultParseURL is the hosted Parse endpoint the studio uses.
const DefaultParseURL = "https://parseapi.back4app.com"

// GameScore is the throwaway object class the connectivity check writes.
type GameScore struct {
	ObjectID   string `json:"objectId,omitempty"`
	Score      int    `json:"score"`
	PlayerName string `json:"playerName"`
	CheatMode  bool   `json:"cheatMode"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// ParseStore talks to a Parse server over its REST API.
type ParseStore struct {
	api *APIService
}

// NewParseStore creates a client. appID and restKey are required.
func NewParseStore(serverURL, appID, restKey string, client *http.Client) (*ParseStore, error) {
	if appID == "" || restKey == "" {
		return nil, fmt.Errorf("%w: parse app id and REST key are required", shared.ErrMissingCredentials)
	}
	if serverURL == "" {
		serverURL = DefaultParseURL
	}

	api := NewAPIService(serverURL, client).
		WithHeader("X-Parse-Application-Id", appID).
		WithHeader("X-Parse-REST-API-Key", restKey)
	return &ParseStore{api: api}, nil
}

type parseError struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func (p *ParseStore) check(resp *APIResponse, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}
	if !resp.OK() {
		var perr parseError
		_ = resp.Decode(&perr)
		return fmt.Errorf("%w: %s: status %d: %s", shared.ErrAPIRequest, op, resp.StatusCode, perr.Error)
	}
	return nil
}

// Create stores score and returns its object id.
func (p *ParseStore) Create(ctx context.Context, score GameScore) (string, error) {
	score.ObjectID, score.CreatedAt = "", ""
	data, err := json.Marshal(score)
	if err != nil {
		return "", err
	}

	resp, err := p.api.Post(ctx, "/classes/GameScore", data)
	if err := p.check(resp, err, "create"); err != nil {
		return "", err
	}

	var created struct {
		ObjectID string `json:"objectId"`
	}
	if err := resp.Decode(&created); err != nil {
		return "", err
	}
	return created.ObjectID, nil
}

// Query returns scores greater than minScore.
func (p *ParseStore) Query(ctx context.Context, minScore int) ([]GameScore, error) {
	where := fmt.Sprintf(`{"score":{"$gt":%d}}`, minScore)
	return p.find(ctx, url.Values{"where": {where}})
}

// Latest returns the most recently created score.
func (p *ParseStore) Latest(ctx context.Context) (GameScore, bool, error) {
	scores, err := p.find(ctx, url.Values{"order": {"-createdAt"}, "limit": {"1"}})
	if err != nil || len(scores) == 0 {
		return GameScore{}, false, err
	}
	return scores[0], true, nil
}

func (p *ParseStore) find(ctx context.Context, q url.Values) ([]GameScore, error) {
	resp, err := p.api.Get(ctx, "/classes/GameScore?"+q.Encode())
	if err := p.check(resp, err, "query"); err != nil {
		return nil, err
	}

	var body struct {
		Results []GameScore `json:"results"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, err
	}
	return body.Results, nil
}

// UpdateScore sets the score of an existing object.
func (p *ParseStore) UpdateScore(ctx context.Context, objectID string, score int) error {
	data, err := json.Marshal(map[string]int{"score": score})
	if err != nil {
		return err
	}
	resp, err := p.api.Put(ctx, "/classes/GameScore/"+url.PathEscape(objectID), data)
	return p.check(resp, err, "update")
}

// Remove deletes an object.
func (p *ParseStore) Remove(ctx context.Context, objectID string) error {
	resp, err := p.api.Delete(ctx, "/classes/GameScore/"+url.PathEscape(objectID))
	return p.check(resp, err, "delete")
}

// CheckStep is one stage of [ParseStore.Check].
type CheckStep struct {
	Name    string
	Detail  string
	Err     error
	Elapsed time.Duration
}

// Check exercises create, query, update and delete in order, stopping at the first failure.
func (p *ParseStore) Check(ctx context.Context) ([]CheckStep, error) {
	var steps []CheckStep
	run := func(name string, fn func() (string, error)) error {
		start := time.Now()
		detail, err := fn()
		steps = append(steps, CheckStep{Name: name, Detail: detail, Err: err, Elapsed: time.Since(start)})
		return err
	}

	var id string
	if err := run("write", func() (string, error) {
		var err error
		id, err = p.Create(ctx, GameScore{Score: 1337, PlayerName: "Sean Plott"})
		return "objectId " + id, err
	}); err != nil {
		return steps, err
	}

	if err := run("query", func() (string, error) {
		found, err := p.Query(ctx, 1000)
		return fmt.Sprintf("%d results", len(found)), err
	}); err != nil {
		return steps, err
	}

	if err := run("update", func() (string, error) {
		return fmt.Sprintf("objectId %s score 1338", id), p.UpdateScore(ctx, id, 1338)
	}); err != nil {
		return steps, err
	}

	if err := run("delete", func() (string, error) {
		return "objectId " + id, p.Remove(ctx, id)
	}); err != nil {
		return steps, err
	}
	return steps, nil
}
