package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/greenpulse/pulse-client/apimodel"
	apperrors "github.com/greenpulse/pulse-client/internal/errors"
)

// Do sends the request and decodes the response into out, unwrapping a
// {data: ...} envelope when present. out may be nil.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	raw, err := c.Request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return decodeInto(method+" "+endpoint, raw, out)
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, out)
}

func decodeInto(op string, raw []byte, out any) error {
	if out == nil || string(raw) == "null" {
		return nil
	}
	if err := apimodel.Unwrap(raw, out); err != nil {
		return &apperrors.TransportError{Op: op, Err: fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)}
	}
	return nil
}
