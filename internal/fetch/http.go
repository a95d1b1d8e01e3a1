package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cenkalti/backoff/v4"

	"github.com/parget/parget/internal/utils"
)

// ErrMissingContentLength is returned by Probe when the remote does not
// report a length; no plan can be built without one.
var ErrMissingContentLength = errors.New("server didn't provide Content-Length header")

const maxRetries = 3

type HTTPSource struct {
	client utils.HTTPDoer
}

func NewHTTPSource(client utils.HTTPDoer) *HTTPSource {
	return &HTTPSource{client: client}
}

func (s *HTTPSource) Probe(ctx context.Context, url string) (int64, error) {
	log := utils.GetLogger("probe")
	var size int64
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := s.client.Do(req)
		if err != nil {
			log.Debug().Err(err).Str("url", url).Msg("Metadata probe failed, retrying")
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}
		contentLength := resp.Header.Get("Content-Length")
		if contentLength == "" {
			return backoff.Permanent(ErrMissingContentLength)
		}
		size, err = strconv.ParseInt(contentLength, 10, 64)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("invalid Content-Length %q: %v", contentLength, err))
		}
		if size <= 0 {
			return backoff.Permanent(errors.New("invalid file size reported by server"))
		}
		return nil
	}
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx))
	if err != nil {
		return 0, err
	}
	log.Debug().Str("url", url).Int64("size", size).Msg("Metadata probe completed")
	return size, nil
}

func (s *HTTPSource) OpenRange(ctx context.Context, url string, start, end int64) (io.ReadCloser, error) {
	log := utils.GetLogger("fetch")
	var body io.ReadCloser
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		rangeHeader := fmt.Sprintf("bytes=%d-%d", start, end)
		req.Header.Set("Range", rangeHeader)
		req.Header.Set("Connection", "keep-alive")
		log.Debug().Str("range", rangeHeader).Msg("Sending range request")
		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusPartialContent {
			resp.Body.Close()
			err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			if resp.StatusCode >= 500 {
				return err
			}
			return backoff.Permanent(err)
		}
		body = resp.Body
		return nil
	}
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}
