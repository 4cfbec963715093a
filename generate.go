package deckly

import (
	"context"
	"net/http"
	"time"
)

// GenerateOptions describes the presentation to produce.
type GenerateOptions struct {
	// Topic is the subject the presentation is generated around. Required.
	Topic string

	// SlideCount is the number of slides to produce, between 1 and 50.
	// Zero means the server default.
	SlideCount int

	// Template selects the visual template. Empty means the server default;
	// otherwise it must be one of Templates.
	Template string

	// Tone adjusts the writing style. Empty means the server default;
	// otherwise it must be one of Tones.
	Tone string

	// Language is an optional BCP 47 language tag for the slide content.
	Language string

	// FileIDs reference previously uploaded source documents, as returned by
	// UploadFiles.
	FileIDs []string

	// Instructions carries free-form guidance for the generator.
	Instructions string
}

// generateRequest is the wire shape of a generation submission.
type generateRequest struct {
	Topic        string   `json:"topic"`
	SlideCount   int      `json:"n_slides,omitempty"`
	Template     string   `json:"template,omitempty"`
	Tone         string   `json:"tone,omitempty"`
	Language     string   `json:"language,omitempty"`
	FileIDs      []string `json:"file_ids,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
}

// Presentation is a finished generation result.
type Presentation struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	DownloadURL string    `json:"download_url"`
	SlideCount  int       `json:"n_slides"`
	CreatedAt   time.Time `json:"created_at"`
}

// asyncResponse is the wire shape returned by the async submission endpoint.
type asyncResponse struct {
	TaskID string `json:"task_id"`
}

// Generate produces a presentation synchronously, blocking until the server
// returns the finished result. Options are validated before any request is
// issued; bad input fails with a Validation-kind error and no network call.
func (c *Client) Generate(ctx context.Context, opts GenerateOptions, reqOpts ...RequestOption) (*Presentation, error) {
	if err := checkGenerateOptions(opts); err != nil {
		return nil, err
	}

	var deck Presentation
	if err := c.Request(ctx, http.MethodPost, "/generate", wireGenerate(opts), &deck, reqOpts...); err != nil {
		return nil, err
	}

	return &deck, nil
}

// GenerateAsync submits a generation job and returns the server-assigned task
// id immediately. Use WaitForCompletion (or GetTask for a single snapshot) to
// observe the job.
func (c *Client) GenerateAsync(ctx context.Context, opts GenerateOptions, reqOpts ...RequestOption) (string, error) {
	if err := checkGenerateOptions(opts); err != nil {
		return "", err
	}

	var rsp asyncResponse
	if err := c.Request(ctx, http.MethodPost, "/generate/async", wireGenerate(opts), &rsp, reqOpts...); err != nil {
		return "", err
	}

	return rsp.TaskID, nil
}

// wireGenerate maps the public options onto the wire shape.
func wireGenerate(opts GenerateOptions) generateRequest {
	return generateRequest{
		Topic:        opts.Topic,
		SlideCount:   opts.SlideCount,
		Template:     opts.Template,
		Tone:         opts.Tone,
		Language:     opts.Language,
		FileIDs:      opts.FileIDs,
		Instructions: opts.Instructions,
	}
}
