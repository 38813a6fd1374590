package renderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/basel-ax/archrender/internal/domain"
)

const (
	// DefaultBaseURL is where the rendering backend listens by default
	DefaultBaseURL = "http://127.0.0.1:5000"

	maxErrorBody = 512
)

// Client represents the rendering backend API client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request. Zero means no timeout. The client's
// http.Client is copied, so a shared client passed to WithHTTPClient is left
// untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// NewClient creates a new rendering backend client
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Upload sends the reference image to the storage endpoint
func (c *Client) Upload(ctx context.Context, img *domain.ImageSelection) (*domain.UploadResult, error) {
	if img == nil {
		return nil, &domain.RequestError{Step: domain.StepUpload, Err: fmt.Errorf("no image selected")}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeImagePart(writer, img); err != nil {
		return nil, &domain.RequestError{Step: domain.StepUpload, Err: err}
	}

	if err := writer.Close(); err != nil {
		return nil, &domain.RequestError{Step: domain.StepUpload, Err: fmt.Errorf("failed to close writer: %w", err)}
	}

	resp, err := c.post(ctx, "/upload", writer.FormDataContentType(), body, "application/json")
	if err != nil {
		return nil, &domain.RequestError{Step: domain.StepUpload, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(domain.StepUpload, resp); err != nil {
		return nil, err
	}

	var raw struct {
		FilePath *string `json:"file_path"`
		Message  string  `json:"message"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &domain.RequestError{Step: domain.StepUpload, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if raw.FilePath == nil {
		return nil, &domain.RequestError{Step: domain.StepUpload, Err: fmt.Errorf("response has no file_path")}
	}

	return &domain.UploadResult{
		FilePath: *raw.FilePath,
		Message:  raw.Message,
	}, nil
}

// Generate submits prompt, preset and image and returns the rendered image bytes
func (c *Client) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GeneratedImage, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("prompt", req.Prompt); err != nil {
		return nil, &domain.RequestError{Step: domain.StepGenerate, Err: fmt.Errorf("failed to write prompt: %w", err)}
	}

	if err := writer.WriteField("preset", req.Preset.String()); err != nil {
		return nil, &domain.RequestError{Step: domain.StepGenerate, Err: fmt.Errorf("failed to write preset: %w", err)}
	}

	if req.Image != nil {
		if err := writeImagePart(writer, req.Image); err != nil {
			return nil, &domain.RequestError{Step: domain.StepGenerate, Err: err}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, &domain.RequestError{Step: domain.StepGenerate, Err: fmt.Errorf("failed to close writer: %w", err)}
	}

	resp, err := c.post(ctx, "/generate", writer.FormDataContentType(), body, "image/*")
	if err != nil {
		return nil, &domain.RequestError{Step: domain.StepGenerate, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(domain.StepGenerate, resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.RequestError{Step: domain.StepGenerate, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if len(data) == 0 {
		return nil, &domain.RequestError{Step: domain.StepGenerate, Err: fmt.Errorf("empty image in response")}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &domain.GeneratedImage{
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, accept string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func checkStatus(step domain.Step, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &domain.RequestError{
		Step:       step,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeImagePart adds the "image" file part. multipart.Writer.CreateFormFile
// always declares application/octet-stream, and the storage endpoint only
// accepts image/* parts, so the header is built by hand.
func writeImagePart(writer *multipart.Writer, img *domain.ImageSelection) error {
	filename := img.Filename
	if filename == "" {
		filename = "image"
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(img.Data)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(img.Data); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}
