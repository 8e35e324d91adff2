package pantopia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Directory defines read access to the CRM resources.
// This interface is implemented by *Client and can be used for testing.
type Directory interface {
	ListCompanies(ctx context.Context) ([]Company, error)
	GetCompany(ctx context.Context, id string) (Company, error)
	ListContacts(ctx context.Context) ([]Contact, error)
	GetContact(ctx context.Context, id string) (Contact, error)
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (Project, error)
	ListBriefs(ctx context.Context) ([]Brief, error)
	GetBrief(ctx context.Context, id string) (Brief, error)
	ListDataSources(ctx context.Context, companyID string) ([]DataSource, error)
	GetDataSource(ctx context.Context, id string) (DataSource, error)
	ListParagraphs(ctx context.Context, dataSourceID string) ([]Paragraph, error)
}

// Processor triggers and observes data source extraction.
type Processor interface {
	ProcessDataSource(ctx context.Context, id string) error
	ProcessingStatus(ctx context.Context, id string) (Status, error)
}

// TokenStore supplies the bearer token and forgets it after a 401.
type TokenStore interface {
	Token() (string, error)
	ClearToken() error
}

// Ensure Client implements the interfaces at compile time.
var (
	_ Directory = (*Client)(nil)
	_ Processor = (*Client)(nil)
)

// Client talks to the Pantopia REST API.
type Client struct {
	baseURL        *url.URL
	loginURL       string
	http           *resty.Client
	tokens         TokenStore
	logger         *zap.Logger
	onUnauthorized func(loginURL string)
}

const (
	DefaultAPIURL    = "http://127.0.0.1:8000/api/v1"
	defaultAPIPath   = "/api/v1"
	defaultUserAgent = "pantopia-console/0.1"
	requestTimeout   = 10 * time.Second
)

// Option customises a Client.
type Option func(*Client)

// WithTokens attaches a bearer token source to every request.
func WithTokens(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLoginURL overrides the external login location derived from the API URL.
func WithLoginURL(loginURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(loginURL); trimmed != "" {
			c.loginURL = trimmed
		}
	}
}

// OnUnauthorized registers a hook invoked with the login URL after a 401.
func OnUnauthorized(fn func(loginURL string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient builds a Client for the given API URL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:  base,
		loginURL: defaultLoginURL(base),
		http: resty.New().
			SetBaseURL(base.String()).
			SetTimeout(requestTimeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", defaultUserAgent),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetLogger(c.logger.Sugar())
	c.http.OnBeforeRequest(c.authorize)
	c.http.OnAfterResponse(c.checkUnauthorized)
	return c, nil
}

// BaseURL returns the normalised API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// LoginURL returns where operators sign in after a 401.
func (c *Client) LoginURL() string {
	return c.loginURL
}

// authorize attaches the bearer token and a request id.
func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	req.SetHeader("X-Request-ID", uuid.NewString())
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.SetAuthToken(token)
	}
	return nil
}

// ListCompanies retrieves all companies.
func (c *Client) ListCompanies(ctx context.Context) ([]Company, error) {
	body, err := c.do(ctx, http.MethodGet, "/companies/", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeListBody[Company](body)
}

// GetCompany retrieves a single company.
func (c *Client) GetCompany(ctx context.Context, id string) (Company, error) {
	var payload Company
	err := c.getInto(ctx, "/companies/{id}/", id, &payload)
	return payload, err
}

// ListContacts retrieves all contacts.
func (c *Client) ListContacts(ctx context.Context) ([]Contact, error) {
	body, err := c.do(ctx, http.MethodGet, "/contacts/", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeListBody[Contact](body)
}

// GetContact retrieves a single contact.
func (c *Client) GetContact(ctx context.Context, id string) (Contact, error) {
	var payload Contact
	err := c.getInto(ctx, "/contacts/{id}/", id, &payload)
	return payload, err
}

// ListProjects retrieves all projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects/", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeListBody[Project](body)
}

// GetProject retrieves a single project.
func (c *Client) GetProject(ctx context.Context, id string) (Project, error) {
	var payload Project
	err := c.getInto(ctx, "/projects/{id}/", id, &payload)
	return payload, err
}

// ListBriefs retrieves all briefs.
func (c *Client) ListBriefs(ctx context.Context) ([]Brief, error) {
	body, err := c.do(ctx, http.MethodGet, "/briefs/", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeListBody[Brief](body)
}

// GetBrief retrieves a single brief.
func (c *Client) GetBrief(ctx context.Context, id string) (Brief, error) {
	var payload Brief
	err := c.getInto(ctx, "/briefs/{id}/", id, &payload)
	return payload, err
}

// UpdateBriefStatus moves a brief to next after checking the lifecycle table
// against the brief's current status.
func (c *Client) UpdateBriefStatus(ctx context.Context, id string, next BriefStatus) (Brief, error) {
	current, err := c.GetBrief(ctx, id)
	if err != nil {
		return Brief{}, err
	}
	if !current.Status.CanTransition(next) {
		return Brief{}, &InvalidTransitionError{From: current.Status, To: next}
	}
	body, err := c.do(ctx, http.MethodPatch, "/briefs/{id}/", map[string]string{"id": id}, map[string]string{"status": string(next)})
	if err != nil {
		return Brief{}, err
	}
	var updated Brief
	if err := json.Unmarshal(body, &updated); err != nil {
		return Brief{}, fmt.Errorf("decode response: %w", err)
	}
	return updated, nil
}

// ListDataSources retrieves the data sources attached to a company.
func (c *Client) ListDataSources(ctx context.Context, companyID string) ([]DataSource, error) {
	if strings.TrimSpace(companyID) == "" {
		return nil, fmt.Errorf("company id required")
	}
	body, err := c.do(ctx, http.MethodGet, "/companies/{id}/datasources/", map[string]string{"id": companyID}, nil)
	if err != nil {
		return nil, err
	}
	return decodeListBody[DataSource](body)
}

// GetDataSource retrieves a single data source.
func (c *Client) GetDataSource(ctx context.Context, id string) (DataSource, error) {
	var payload DataSource
	err := c.getInto(ctx, "/datasources/{id}/", id, &payload)
	return payload, err
}

// ListParagraphs retrieves paragraphs extracted from a data source.
func (c *Client) ListParagraphs(ctx context.Context, dataSourceID string) ([]Paragraph, error) {
	if strings.TrimSpace(dataSourceID) == "" {
		return nil, fmt.Errorf("data source id required")
	}
	body, err := c.do(ctx, http.MethodGet, "/datasources/{id}/paragraphs/", map[string]string{"id": dataSourceID}, nil)
	if err != nil {
		return nil, err
	}
	return decodeListBody[Paragraph](body)
}

// ProcessDataSource asks the backend to queue extraction.
func (c *Client) ProcessDataSource(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("data source id required")
	}
	_, err := c.do(ctx, http.MethodPost, "/datasources/{id}/process/", map[string]string{"id": id}, nil)
	return err
}

// ProcessingStatus retrieves the extraction status of a data source.
func (c *Client) ProcessingStatus(ctx context.Context, id string) (Status, error) {
	var payload StatusResponse
	if err := c.getInto(ctx, "/datasources/{id}/status/", id, &payload); err != nil {
		return "", err
	}
	return ParseStatus(payload.Status)
}

func (c *Client) getInto(ctx context.Context, path, id string, dest any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id required")
	}
	body, err := c.do(ctx, http.MethodGet, path, map[string]string{"id": id}, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params map[string]string, payload any) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req := c.http.R().SetContext(ctx).SetPathParams(params)
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}

	resp, err := req.Execute(method, path)
	rel := expandPath(path, params)
	if errors.Is(err, ErrUnauthorized) {
		return nil, fmt.Errorf("api %s: %w", rel, ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("api %s: %w", rel, ErrNotFound)
	case code >= 400:
		return nil, &APIError{Status: code, Path: rel, Body: strings.TrimSpace(string(resp.Body()))}
	}
	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", rel),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("took", resp.Time()))
	return resp.Body(), nil
}

// checkUnauthorized turns a 401 into ErrUnauthorized, forgets the stored
// token and tells the UI where to sign in.
func (c *Client) checkUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}
	path := ""
	if raw := resp.Request.RawRequest; raw != nil {
		path = raw.URL.Path
	}
	c.logger.Warn("api rejected token", zap.String("path", path), zap.String("login_url", c.loginURL))
	if c.tokens != nil {
		if err := c.tokens.ClearToken(); err != nil {
			c.logger.Error("clear token failed", zap.Error(err))
		}
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(c.loginURL)
	}
	return ErrUnauthorized
}

func decodeListBody[T any](body []byte) ([]T, error) {
	items, err := decodeList[T](body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return items, nil
}

func expandPath(path string, params map[string]string) string {
	for k, v := range params {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	return path
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = DefaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if u.Path == "" {
		u.Path = defaultAPIPath
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func defaultLoginURL(base *url.URL) string {
	login := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/login"}
	return login.String()
}
