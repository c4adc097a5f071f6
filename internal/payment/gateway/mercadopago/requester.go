package mercadopago

import (
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

// retryRequester is the transport handed to the SDK. It points requests at
// BaseURL when one is configured and retries transport errors, 429 and 5xx
// with exponential backoff. The last response is returned as is so the SDK
// reports it.
type retryRequester struct {
	baseURL      string
	http         *http.Client
	maxRetries   int
	initialDelay time.Duration
}

func (r *retryRequester) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := r.rewrite(req); err != nil {
		return nil, err
	}

	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * r.initialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attemptReq := req
		if attempt > 0 {
			if attemptReq, err = replay(req); err != nil {
				return nil, err
			}
		}
		resp, err = r.http.Do(attemptReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if !retryable(resp.StatusCode) || attempt == r.maxRetries-1 {
			return resp, nil
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
	return resp, err
}

func (r *retryRequester) rewrite(req *http.Request) error {
	if r.baseURL == "" {
		return nil
	}
	base, err := url.Parse(r.baseURL)
	if err != nil {
		return err
	}
	req.URL.Scheme = base.Scheme
	req.URL.Host = base.Host
	req.Host = base.Host
	return nil
}

// replay clones req with a fresh body for another attempt.
func replay(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
