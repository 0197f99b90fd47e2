package cardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cardforge/pkg/buildinfo"
	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/httputil"
	"github.com/matzehuels/cardforge/pkg/observability"
)

// DefaultTimeout bounds a whole request. Background generation on the
// service side polls an image model, so it is generous.
const DefaultTimeout = 5 * time.Minute

// maxErrorBody caps how much of a failed response is read.
const maxErrorBody = 64 << 10

// Client talks to the card-compositing service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
	cache   *httputil.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCache enables caching of improved prompts.
func WithCache(cache *httputil.Cache) Option {
	return func(c *Client) { c.cache = cache.Namespace("improve:") }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := apperr.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// GenerateCard submits req and returns the composed image.
func (c *Client) GenerateCard(ctx context.Context, req CardRequest) (*Card, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, contentType, err := encodeCardRequest(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "could not prepare the request")
	}

	c.logger.Info("Submitting card", "mode", req.Mode, "logo", req.Logo.Name,
		"x", req.Placement.CenterX, "y", req.Placement.CenterY, "scale", req.Placement.Scale)

	resp, id, err := c.post(ctx, PathGenerateCard, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if isSuccess(resp.StatusCode) && strings.HasPrefix(mediaType(resp), "image/") {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeNetwork, err, "network error while downloading the card")
		}
		return &Card{Data: data, ContentType: mediaType(resp), RequestID: id}, nil
	}
	return nil, readAPIError(resp)
}

// ImprovePrompt asks the service to rewrite prompt for better image
// generation. Results are served from the cache when one is configured,
// unless refresh is set.
func (c *Client) ImprovePrompt(ctx context.Context, prompt string, refresh bool) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if err := apperr.ValidatePrompt(prompt); err != nil {
		return "", err
	}

	var improved string
	err := c.cached(prompt, refresh, &improved, func() error {
		s, err := c.improve(ctx, prompt)
		improved = s
		return err
	})
	return improved, err
}

// cached returns the cached value for key, or runs fetch and stores the
// value it produced in v.
func (c *Client) cached(key string, refresh bool, v any, fetch func() error) error {
	if c.cache != nil && !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			c.logger.Debug("Prompt served from cache")
			return nil
		}
	}
	if err := fetch(); err != nil {
		return err
	}
	if c.cache != nil {
		if err := c.cache.Set(key, v); err != nil {
			c.logger.Warn("Could not cache improved prompt", "err", err)
		}
	}
	return nil
}

func (c *Client) improve(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", apperr.Wrap(apperr.ErrCodeInternal, err, "could not prepare the request")
	}

	resp, _, err := c.post(ctx, PathImprovePrompt, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", readAPIError(resp)
	}

	var body struct {
		Improved string `json:"improved_prompt"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperr.Wrap(apperr.ErrCodeRemote, err, "unreadable response from the prompt service")
	}
	if body.Error != "" {
		return "", apperr.Wrap(apperr.ErrCodeRemote, &APIError{Status: resp.StatusCode, Message: body.Error}, "%s", body.Error)
	}
	improved := strings.TrimSpace(body.Improved)
	if improved == "" {
		return "", apperr.New(apperr.ErrCodeRemote, "the prompt service returned an empty prompt")
	}
	return improved, nil
}

// post sends one request and reports it to the observability hooks. Transport
// failures become network errors; a cancelled ctx is returned as is.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, string, error) {
	id := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, id, apperr.Wrap(apperr.ErrCodeInternal, err, "could not prepare the request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set(HeaderRequestID, id)

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, id, http.MethodPost, path)
	c.logger.Debug("POST "+path, "request_id", id)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, id, http.MethodPost, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, id, ctxErr
		}
		return nil, id, apperr.Wrap(apperr.ErrCodeNetwork, err, "network error or the request could not be sent")
	}

	elapsed := time.Since(start)
	hooks.OnResponse(ctx, id, http.MethodPost, path, resp.StatusCode, elapsed)
	c.logger.Debug("Response", "request_id", id, "status", resp.StatusCode,
		"type", resp.Header.Get("Content-Type"), "elapsed", elapsed.Round(time.Millisecond))
	return resp, id, nil
}

// readAPIError turns a failed response into a coded error carrying an
// *APIError. The JSON "error" field wins over the generic fallback.
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("server error: %d", resp.StatusCode)}
	if isSuccess(resp.StatusCode) {
		apiErr.Message = "unknown error from the server"
	}

	var body struct {
		Error string `json:"error"`
		NSFW  bool   `json:"nsfw_detected"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.NSFW = body.NSFW
	}

	code := apperr.ErrCodeRemote
	if apiErr.NSFW {
		code = apperr.ErrCodeContentRejected
	}
	return apperr.Wrap(code, apiErr, "%s", apiErr.Message)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeCardRequest builds the multipart body for /generate-card.
func encodeCardRequest(req CardRequest) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := writeFile(mw, "logo", req.Logo); err != nil {
		return nil, "", err
	}

	p := req.Placement.Fields()
	fields := [][2]string{
		{"logoX", p["logoX"]},
		{"logoY", p["logoY"]},
		{"logoScale", p["logoScale"]},
		{"mode", string(req.Mode)},
	}
	if req.Mode == ModeGenerate {
		fields = append(fields, [2]string{"prompt", strings.TrimSpace(req.Prompt)}, [2]string{"style", req.style()})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if req.Mode == ModeUpload {
		if err := writeFile(mw, "background", *req.Background); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func writeFile(mw *multipart.Writer, field string, f File) error {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", ct)

	w, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = w.Write(f.Data)
	return err
}

func isSuccess(code int) bool { return code >= 200 && code < 300 }

func mediaType(resp *http.Response) string {
	mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}
