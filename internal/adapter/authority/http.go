package authority

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "cargotrace-backend/internal/domain/verification"
)

const maxBodyBytes = 64 << 10

// HTTPAuthority queries a customs registry at GET {base}/declarations/{number}.
type HTTPAuthority struct {
	baseURL string
	client  *http.Client
}

type declarationResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func NewHTTPAuthority(baseURL string, client *http.Client) *HTTPAuthority {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPAuthority{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (a *HTTPAuthority) Lookup(ctx context.Context, number string) (domain.Result, error) {
	endpoint := a.baseURL + "/declarations/" + url.PathEscape(number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Result{}, fmt.Errorf("build authority request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Result{}, ctx.Err()
		}
		return domain.Result{}, fmt.Errorf("%w: %v", domain.ErrAuthorityUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Result{}, fmt.Errorf("%w: read body: %v", domain.ErrAuthorityUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Result{Outcome: domain.OutcomeNotFound}, nil
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return domain.Result{}, fmt.Errorf("%w: status %d", domain.ErrAuthorityUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return domain.Result{}, fmt.Errorf("%w: unexpected status %d", domain.ErrAuthorityUnavailable, resp.StatusCode)
	}

	var out declarationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.Result{}, fmt.Errorf("%w: decode body: %v", domain.ErrAuthorityUnavailable, err)
	}
	data := ""
	if len(out.Data) > 0 && string(out.Data) != "null" {
		data = string(out.Data)
	}
	switch strings.ToLower(out.Status) {
	case "confirmed":
		return domain.Result{Outcome: domain.OutcomeConfirmed, CustomsData: data}, nil
	case "review":
		return domain.Result{Outcome: domain.OutcomeNeedsReview, CustomsData: data}, nil
	case "not_found":
		return domain.Result{Outcome: domain.OutcomeNotFound}, nil
	default:
		return domain.Result{}, fmt.Errorf("%w: unknown status %q", domain.ErrAuthorityUnavailable, out.Status)
	}
}

var _ domain.Authority = (*HTTPAuthority)(nil)
