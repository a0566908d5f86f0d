package repository

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// NewBackendClient builds the HTTP client shared by every record repository.
// Retries stay disabled: failures are reported to the user, who decides
// whether to try again.
func NewBackendClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}
