package mpesa

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/models"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

const (
	tokenPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"
)

var ErrEmptyToken = errors.New("gateway returned an empty access token")

// StatusError reports a non-200 answer from the gateway.
type StatusError struct {
	StatusCode int
	Gateway    models.GatewayError
	Body       string
}

func (e *StatusError) Error() string {
	if e.Gateway.ErrorMessage != "" {
		return fmt.Sprintf("gateway request failed with status code %d: %s %s", e.StatusCode, e.Gateway.ErrorCode, e.Gateway.ErrorMessage)
	}

	return fmt.Sprintf("gateway request failed with status code %d: %s", e.StatusCode, e.Body)
}

func newStatusError(resp *fasthttp.Response) *StatusError {
	statusErr := &StatusError{
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}

	// Best effort; Daraja does not always send a JSON error body.
	_ = sonic.Unmarshal(resp.Body(), &statusErr.Gateway)

	return statusErr
}

type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	timeout        time.Duration
	client         *fasthttp.Client
}

// NewClient builds a Daraja client. A zero timeout leaves outbound calls unbounded.
func NewClient(baseURL, consumerKey, consumerSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		timeout:        timeout,
		client:         &fasthttp.Client{MaxConnsPerHost: 50},
	}
}

func (c *Client) FetchToken(ctx context.Context) (*models.TokenResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	credentials := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))

	req.SetRequestURI(c.baseURL + tokenPath)
	req.Header.SetMethod(http.MethodGet)
	req.Header.Set("Authorization", "Basic "+credentials)

	if err := c.do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("failed to make token request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, newStatusError(resp)
	}

	var token models.TokenResponse
	if err := sonic.Unmarshal(resp.Body(), &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	if token.AccessToken == "" {
		return nil, ErrEmptyToken
	}

	return &token, nil
}

func (c *Client) STKPush(ctx context.Context, accessToken string, payload *models.STKPushPayload) (*models.STKPushResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stk push payload: %w", err)
	}

	req.SetRequestURI(c.baseURL + stkPushPath)
	req.Header.SetMethod(http.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.SetBody(body)

	if err := c.do(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("failed to make stk push request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, newStatusError(resp)
	}

	var pushResponse models.STKPushResponse
	if err := sonic.Unmarshal(resp.Body(), &pushResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stk push response: %w", err)
	}

	return &pushResponse, nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.client.DoDeadline(req, resp, deadline)
	}

	if c.timeout > 0 {
		return c.client.DoTimeout(req, resp, c.timeout)
	}

	return c.client.Do(req, resp)
}
