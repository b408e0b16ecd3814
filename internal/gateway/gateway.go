// Package gateway is the single outbound path to the owner API. It attaches
// the stored bearer token and turns session-invalid responses into a forced
// logout plus a navigation reset to the login screen.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

// HeaderRequestID carries a client-generated id for log correlation.
const HeaderRequestID = "X-Request-ID"

// TokenSource yields the persisted bearer token, "" when absent.
type TokenSource interface {
	Get(ctx context.Context) string
}

// Navigator is the part of the navigation handle the gateway drives.
type Navigator interface {
	IsReady() bool
	Reset(routes []model.Route) bool
}

// LogoutFunc clears the session. It is bound after construction because the
// session manager itself depends on the gateway.
type LogoutFunc func(ctx context.Context) error

// Request describes one call. Path is joined to the base URL unless it is absolute.
type Request struct {
	Method      string
	Path        string
	Body        io.Reader
	ContentType string
}

// Response is a fully buffered response.
type Response struct {
	Status    int
	Header    http.Header
	Body      []byte
	RequestID string
}

// Gateway wraps a shared http.Client with one configured timeout.
type Gateway struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	nav     Navigator

	mu     sync.RWMutex
	logout LogoutFunc

	// token whose forced logout already ran, valid while cleared is set
	cleared      bool
	clearedToken string

	flights singleflight.Group
}

// New creates a gateway. nav may be nil when nothing can be navigated.
func New(baseURL string, timeout time.Duration, tokens TokenSource, nav Navigator) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		nav:     nav,
	}
}

// OnInvalidated binds the logout action run when a session-invalid response arrives.
func (g *Gateway) OnInvalidated(fn LogoutFunc) {
	g.mu.Lock()
	g.logout = fn
	g.mu.Unlock()
}

// BaseURL returns the API root requests are resolved against.
func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Do sends an authenticated request. A 401, or a 400 carrying the logged-out
// message, forces logout before the error is returned. The caller always
// receives the error. Non-2xx responses return both the buffered response
// and a *model.APIError.
func (g *Gateway) Do(ctx context.Context, req Request) (*Response, error) {
	token := g.tokens.Get(ctx)
	if token != "" {
		g.observe(token)
	}
	resp, err := g.send(ctx, req, token)
	if err != nil {
		return nil, err
	}

	apiErr := errorFor(resp)
	if apiErr == nil {
		return resp, nil
	}
	if IsInvalidation(resp.Status, apiErr.Message) {
		apiErr.Invalidated = true
		g.invalidate(ctx, token, resp.RequestID)
	}
	return resp, apiErr
}

// DoPublic sends a request without a bearer token and without the logout
// check. Used for the login endpoint, where a 401 means bad credentials.
func (g *Gateway) DoPublic(ctx context.Context, req Request) (*Response, error) {
	resp, err := g.send(ctx, req, "")
	if err != nil {
		return nil, err
	}
	if apiErr := errorFor(resp); apiErr != nil {
		return resp, apiErr
	}
	return resp, nil
}

// JSON sends in as a JSON body (when non-nil) on the authenticated path and decodes into out.
func (g *Gateway) JSON(ctx context.Context, method, path string, in, out any) error {
	req, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	resp, err := g.Do(ctx, req)
	if err != nil {
		return err
	}
	return DecodeJSON(resp, out)
}

// PublicJSON is JSON on the public path.
func (g *Gateway) PublicJSON(ctx context.Context, method, path string, in, out any) error {
	req, err := jsonRequest(method, path, in)
	if err != nil {
		return err
	}
	resp, err := g.DoPublic(ctx, req)
	if err != nil {
		return err
	}
	return DecodeJSON(resp, out)
}

// DecodeJSON decodes a 2xx body into out. A nil out discards the body.
func DecodeJSON(resp *Response, out any) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)
	}
	return nil
}

// IsInvalidation reports whether a received response means the session is gone.
func IsInvalidation(status int, message string) bool {
	switch status {
	case http.StatusUnauthorized:
		return true
	case http.StatusBadRequest:
		return message == model.LoggedOutMessage
	}
	return false
}

func (g *Gateway) send(ctx context.Context, req Request, token string) (*Response, error) {
	startTime := time.Now()
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.resolve(req.Path), req.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(HeaderRequestID, requestID)
	httpReq.Header.Set("Accept", "application/json")
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		log.Printf("[Gateway] %s %s FAILED (no response) requestID=%s duration=%v err=%v",
			method, req.Path, requestID, time.Since(startTime), err)
		return nil, fmt.Errorf("%w: %s %s: %w", model.ErrTransport, method, req.Path, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", model.ErrTransport, err)
	}

	log.Printf("[Gateway] %s %s status=%d requestID=%s duration=%v",
		method, req.Path, httpResp.StatusCode, requestID, time.Since(startTime))

	return &Response{
		Status:    httpResp.StatusCode,
		Header:    httpResp.Header,
		Body:      body,
		RequestID: requestID,
	}, nil
}

// invalidate runs the logout hook at most once per stored token. A trigger
// is ignored when a different token has been stored since the request, or
// when the logout for its token already ran and nothing has been stored since.
func (g *Gateway) invalidate(ctx context.Context, token, requestID string) {
	g.mu.RLock()
	logout := g.logout
	g.mu.RUnlock()

	// the forced logout must finish even if the caller gave up on the request
	ctx = context.WithoutCancel(ctx)

	_, _, shared := g.flights.Do(token, func() (any, error) {
		// an empty read may be a storage failure, so only a different stored token counts as replaced
		current := g.tokens.Get(ctx)
		if current != "" && current != token {
			log.Printf("[Gateway] Invalidation ignored requestID=%s: token already replaced", requestID)
			return nil, nil
		}
		if current == "" && g.alreadyCleared(token) {
			log.Printf("[Gateway] Invalidation ignored requestID=%s: already logged out", requestID)
			return nil, nil
		}

		log.Printf("[Gateway] Session expired, logging out requestID=%s", requestID)
		if logout != nil {
			if err := logout(ctx); err != nil {
				log.Printf("[Gateway] Forced logout error: %v", err)
			}
		}
		g.markCleared(token)
		if g.nav != nil && g.nav.IsReady() {
			g.nav.Reset([]model.Route{{Name: model.ScreenLogin}})
		}
		return nil, nil
	})
	if shared {
		log.Printf("[Gateway] Invalidation coalesced requestID=%s", requestID)
	}
}

// observe forgets the cleared token once a different one is in use.
func (g *Gateway) observe(token string) {
	g.mu.Lock()
	if g.cleared && g.clearedToken != token {
		g.cleared = false
		g.clearedToken = ""
	}
	g.mu.Unlock()
}

func (g *Gateway) markCleared(token string) {
	g.mu.Lock()
	g.cleared = true
	g.clearedToken = token
	g.mu.Unlock()
}

// alreadyCleared also covers anonymous triggers after a forced logout.
func (g *Gateway) alreadyCleared(token string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cleared && (token == "" || g.clearedToken == token)
}

func (g *Gateway) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.baseURL + path
}

func jsonRequest(method, path string, in any) (Request, error) {
	req := Request{Method: method, Path: path}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return Request{}, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = bytes.NewReader(payload)
	}
	return req, nil
}

// errorFor returns nil for 2xx and an APIError otherwise.
func errorFor(resp *Response) *model.APIError {
	if resp.Status >= 200 && resp.Status < 300 {
		return nil
	}
	return &model.APIError{
		Status:  resp.Status,
		Message: messageOf(resp.Body),
		Body:    resp.Body,
	}
}

// messageOf reads {"message": "..."} or {"error": {"message": "..."}} bodies.
func messageOf(body []byte) string {
	var envelope struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	if len(envelope.Error) == 0 {
		return ""
	}
	var detail struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
		return detail.Message
	}
	var plain string
	if err := json.Unmarshal(envelope.Error, &plain); err == nil {
		return plain
	}
	return ""
}
