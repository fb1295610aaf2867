package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

// HTTP fetches a CSV feature table from a URL, retrying transient failures
// with exponential backoff.
type HTTP struct {
	URL        string
	Client     *http.Client
	MaxRetries uint64
}

var _ ports.DataSource = HTTP{}

func (h HTTP) Load(ctx context.Context) (*domain.Dataset, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	retries := h.MaxRetries
	if retries == 0 {
		retries = 3
	}

	var raw []byte
	fetch := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("fetch dataset: upstream returned %s", resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetch dataset: unexpected status %s", resp.Status))
		}
		raw, err = io.ReadAll(resp.Body)
		return err
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries)
	if err := backoff.Retry(fetch, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("fetch dataset %s: %w", h.URL, err)
	}

	ds, err := ParseCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("parse dataset from %s: %w", h.URL, err)
	}
	log.WithFields(log.Fields{"url": h.URL, "rows": ds.Rows()}).Info("dataset fetched")
	return ds, nil
}
