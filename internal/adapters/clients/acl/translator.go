package acl

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotecards/internal/adapters/clients"
)

// maxResponseBody caps successful response bodies.
const maxResponseBody = 4 << 20

// BaseAdapter holds the client and error mapping shared by adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a BaseAdapter named after the client's downstream.
func NewBaseAdapter(client *clients.Client) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: client.ServiceName(),
	}
}

// ServiceName returns the downstream name.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// PostJSON sends payload and returns the full response body on 2xx. Any
// other outcome is mapped to a domain error.
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, payload any, operation string) ([]byte, error) {
	resp, err := a.client.PostJSON(ctx, path, payload)
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, MapHTTPError(nil, fmt.Errorf("reading response: %w", err), a.serviceName, operation)
	}

	return body, nil
}
