package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ExportFetcher downloads live feed exports over HTTP. It exists for the
// fetch_sources tool; the pipeline itself only reads local files.
type ExportFetcher struct {
	UserAgent string
	Timeout   time.Duration
}

func NewExportFetcher() *ExportFetcher {
	return &ExportFetcher{
		UserAgent: defaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

// FetchHTML retrieves one page and returns its body.
func (f *ExportFetcher) FetchHTML(ctx context.Context, url string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(f.Timeout)

	c.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      1 * time.Second,
	})

	var body []byte
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})
	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			fetchErr = ctx.Err()
			r.Abort()
		default:
		}
	})

	if err := c.Visit(url); err != nil {
		return nil, err
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("no response received for %s", url)
	}
	return body, nil
}
