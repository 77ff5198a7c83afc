package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultSourceURL is the published dataset.
const DefaultSourceURL = "https://raw.githubusercontent.com/washingtonpost/data-police-shootings/master/fatal-police-shootings-data.csv"

const defaultTimeout = 60 * time.Second

// Source opens the raw CSV stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	String() string
}

// HTTPSource fetches the CSV over HTTP.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Open issues a GET request. Any status other than 200 is an error.
func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return resp.Body, nil
}

func (s HTTPSource) String() string {
	return s.URL
}

// FileSource reads the CSV from a local path.
type FileSource struct {
	Path string
}

// Open opens the file.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s FileSource) String() string {
	return s.Path
}

// ParseSource returns an HTTPSource for http(s) URLs and a FileSource otherwise.
func ParseSource(s string, timeout time.Duration) Source {
	s = strings.TrimSpace(s)
	if s == "" {
		s = DefaultSourceURL
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		return HTTPSource{URL: s, Client: &http.Client{Timeout: timeout}}
	}
	return FileSource{Path: s}
}
