package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marcward/gridstreak/internal/store"
)

// SubmitResult reports the remote's verdict on one score submission.
type SubmitResult struct {
	// Accepted means the remote holds the record after this call,
	// whether it was freshly stored or already present.
	Accepted bool

	// Duplicate means the remote already held a record for this
	// (user, date) and returned it instead of storing a second one.
	Duplicate bool
}

// RemoteScore is one row of the remote's score history.
type RemoteScore struct {
	Date           string `json:"date"`
	Score          int    `json:"score"`
	CompletionTime int    `json:"completionTime"`
	HintsUsed      int    `json:"hintsUsed"`
	PuzzleType     string `json:"puzzleType"`
	Difficulty     string `json:"difficulty"`
}

// Client is the narrow contract against the remote score service.
type Client interface {
	// SubmitScore pushes one score record. A rejection (bad input,
	// implausible score, unknown user) is returned as *RejectedError;
	// transport failures come back as plain errors.
	SubmitScore(ctx context.Context, userID string, rec store.ScoreRecord) (SubmitResult, error)

	// FetchScores returns the user's remote history, newest first.
	FetchScores(ctx context.Context, userID string) ([]RemoteScore, error)
}

// RejectedError is a definitive refusal from the remote: retrying the
// same submission will not succeed.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("remote rejected submission (%d): %s", e.StatusCode, e.Message)
}

// IsRejected reports whether err is a definitive remote refusal.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

// HTTPClient talks to the score service over its JSON interface.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

type submitRequest struct {
	UserID         string `json:"userId"`
	Date           string `json:"date"`
	Score          int    `json:"score"`
	CompletionTime int    `json:"completionTime"`
	HintsUsed      int    `json:"hintsUsed"`
	PuzzleType     string `json:"puzzleType"`
	Difficulty     string `json:"difficulty"`
}

type submitResponse struct {
	Success   bool   `json:"success"`
	Duplicate bool   `json:"duplicate"`
	Error     string `json:"error,omitempty"`
}

type fetchResponse struct {
	Scores []RemoteScore `json:"scores"`
}

// SubmitScore implements Client.
func (c *HTTPClient) SubmitScore(ctx context.Context, userID string, rec store.ScoreRecord) (SubmitResult, error) {
	body, err := json.Marshal(submitRequest{
		UserID:         userID,
		Date:           rec.Date,
		Score:          rec.Score,
		CompletionTime: rec.CompletionTime,
		HintsUsed:      rec.HintsUsed,
		PuzzleType:     rec.PuzzleType,
		Difficulty:     rec.Difficulty,
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("marshal submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scores", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("build submission: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit score: %w", err)
	}
	defer resp.Body.Close()

	var sr submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&sr); err != nil {
		return SubmitResult{}, fmt.Errorf("decode submission response: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return SubmitResult{}, &RejectedError{StatusCode: resp.StatusCode, Message: sr.Error}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return SubmitResult{}, fmt.Errorf("submit score: unexpected status %d", resp.StatusCode)
	}

	return SubmitResult{Accepted: sr.Success, Duplicate: sr.Duplicate}, nil
}

// FetchScores implements Client.
func (c *HTTPClient) FetchScores(ctx context.Context, userID string) ([]RemoteScore, error) {
	u := fmt.Sprintf("%s/scores?userId=%s", c.baseURL, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch scores: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch scores: unexpected status %d", resp.StatusCode)
	}

	var fr fetchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&fr); err != nil {
		return nil, fmt.Errorf("decode fetch response: %w", err)
	}
	return fr.Scores, nil
}
