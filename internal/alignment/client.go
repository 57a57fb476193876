// Package alignment is the client for the external alignment-job service.
// The service accepts an audio URL and a transcript URL, aligns them
// asynchronously, and serves the timed transcript once the job completes.
package alignment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
)

// StatusInProgress is what the service reports for a job it has accepted
// but not finished. Submission must come back with exactly this status.
const StatusInProgress = "in_progress"

// TranscriptAccept selects the timed-transcript media type on download.
const TranscriptAccept = "application/vnd.rev.transcript.v1.0+json"

// Job is the service's view of an alignment job.
type Job struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Options struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration // status and submission calls
	TranscriptTimeout time.Duration // document fetches run longer
}

// Client talks to the alignment-job service with bearer-token auth. Every
// call carries the client's bounded timeout.
type Client struct {
	api     fastshot.ClientHttpMethods
	longAPI fastshot.ClientHttpMethods
}

func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.TranscriptTimeout == 0 {
		opts.TranscriptTimeout = time.Minute
	}
	return &Client{
		api:     build(opts.BaseURL, opts.APIKey, opts.Timeout),
		longAPI: build(opts.BaseURL, opts.APIKey, opts.TranscriptTimeout),
	}
}

func build(baseURL, apiKey string, timeout time.Duration) fastshot.ClientHttpMethods {
	c := fastshot.NewClient(baseURL)
	if apiKey != "" {
		c.Auth().BearerToken(apiKey)
	}

	return c.Config().SetTimeout(timeout).
		Config().SetFollowRedirects(true).
		Header().Add("Content-Type", "application/json").
		Build()
}

type sourceConfig struct {
	URL string `json:"url"`
}

type submitRequest struct {
	SourceConfig           sourceConfig `json:"source_config"`
	SourceTranscriptConfig sourceConfig `json:"source_transcript_config"`
	Metadata               string       `json:"metadata,omitempty"`
}

// SubmitJob creates an alignment job from two publicly fetchable source
// URLs. The returned job always has a non-empty id; the caller decides
// what to do with the reported status.
func (c *Client) SubmitJob(ctx context.Context, audioURL, transcriptURL, metadata string) (Job, error) {
	req := submitRequest{
		SourceConfig:           sourceConfig{URL: audioURL},
		SourceTranscriptConfig: sourceConfig{URL: transcriptURL},
		Metadata:               metadata,
	}

	resp, err := c.api.POST("/jobs").
		Context().Set(ctx).
		Header().Add("Accept", "application/json").
		Body().AsJSON(req).
		Send()
	if err != nil {
		return Job{}, fmt.Errorf("submit job: %w", err)
	}
	defer resp.Body().Close()

	var job Job
	if err := parseJSON(*resp, &job); err != nil {
		return Job{}, fmt.Errorf("submit job: %w", err)
	}
	if job.ID == "" {
		return Job{}, fmt.Errorf("submit job: no job id in response")
	}
	return job, nil
}

// JobStatus returns the service's current status string for the job,
// verbatim.
func (c *Client) JobStatus(ctx context.Context, jobID string) (string, error) {
	resp, err := c.api.GET("/jobs/"+jobID).
		Context().Set(ctx).
		Header().Add("Accept", "application/json").
		Send()
	if err != nil {
		return "", fmt.Errorf("job status: %w", err)
	}
	defer resp.Body().Close()

	var job Job
	if err := parseJSON(*resp, &job); err != nil {
		return "", fmt.Errorf("job status: %w", err)
	}
	if job.Status == "" {
		return "", fmt.Errorf("job status: no status in response")
	}
	return job.Status, nil
}

// Transcript fetches the aligned transcript document for a job. The
// document is opaque to the portal and is returned untouched.
func (c *Client) Transcript(ctx context.Context, jobID string) (json.RawMessage, error) {
	resp, err := c.longAPI.GET("/jobs/"+jobID+"/transcript").
		Context().Set(ctx).
		Header().Add("Accept", TranscriptAccept).
		Send()
	if err != nil {
		return nil, fmt.Errorf("transcript: %w", err)
	}
	defer resp.Body().Close()

	if resp.Status().IsError() {
		return nil, fmt.Errorf("transcript: %w", statusError(*resp))
	}

	body, err := resp.Body().AsString()
	if err != nil {
		return nil, fmt.Errorf("transcript: read body: %w", err)
	}
	return json.RawMessage(body), nil
}

func parseJSON[T any](resp fastshot.Response, result *T) error {
	if resp.Status().IsError() {
		return statusError(resp)
	}

	if err := resp.Body().AsJSON(result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func statusError(resp fastshot.Response) error {
	msg, err := resp.Body().AsString()
	if err != nil || msg == "" {
		return fmt.Errorf("status %d", resp.Status().Code())
	}
	return fmt.Errorf("status %d: %s", resp.Status().Code(), msg)
}
