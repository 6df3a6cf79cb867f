package forms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fe-select/backend/internal/utils"
)

// Submission is what the caller reports back to the agent. Failures are
// recoverable: the session snapshot is never touched by a failed submit and
// the agent can retry.
type Submission struct {
	Success      bool   `json:"success"`
	SubmissionID string `json:"submission_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Submitter posts a transformed field map to the third-party form service.
type Submitter interface {
	Submit(ctx context.Context, fields map[string]string) (Submission, error)
}

type HTTPSubmitter struct {
	FormURL  string
	Mappings map[string]string
	Client   *http.Client
}

func (h HTTPSubmitter) Submit(ctx context.Context, fields map[string]string) (Submission, error) {
	if h.Client == nil {
		h.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if h.FormURL == "" {
		return Submission{}, errors.New("form url not configured")
	}
	mappings := h.Mappings
	if len(mappings) == 0 {
		mappings = DefaultFieldMappings
	}

	values := url.Values{}
	for fieldID, entryID := range mappings {
		if v := fields[fieldID]; v != "" {
			values.Set("entry."+entryID, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.FormURL, strings.NewReader(values.Encode()))
	if err != nil {
		return Submission{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.Client.Do(req)
	if err != nil {
		return Submission{}, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Submission{}, fmt.Errorf("form service returned %d", resp.StatusCode)
	}
	return Submission{
		Success:      true,
		SubmissionID: fmt.Sprintf("form_%d", time.Now().UnixMilli()),
	}, nil
}

// MockSubmitter stands in when no form endpoint is configured; confirmation
// ids are derived from the payload so repeated submits are recognizable.
type MockSubmitter struct{}

func (MockSubmitter) Submit(ctx context.Context, fields map[string]string) (Submission, error) {
	seed := fields["reference_id"] + "|" + fields["insured_name"]
	return Submission{
		Success:      true,
		SubmissionID: fmt.Sprintf("mock_%d", utils.HashStringToUint64(seed)%1_000_000),
	}, nil
}
