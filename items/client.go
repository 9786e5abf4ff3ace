package items

import (
	"context"
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
)

const (
	// ItemFileUrl points at the community-maintained ao-bin-dumps export of
	// the game's item definitions.
	ItemFileUrl = "https://raw.githubusercontent.com/broderickhyman/ao-bin-dumps/master/formatted/items.json"
)

type DownloaderOpts struct {
	Url string
}

// Downloader fetches the item definition file over HTTPS.
type Downloader struct {
	httpClient *resty.Client
	url        string
}

func NewDownloader(opts DownloaderOpts) *Downloader {
	d := Downloader{url: ItemFileUrl}
	if opts.Url != "" {
		d.url = opts.Url
	}
	d.httpClient = resty.New().
		SetDebug(false).
		SetHeaders(
			map[string]string{
				"Accept":     "application/json",
				"User-Agent": "albion-scalper/1.0",
			},
		)

	return &d
}

// DownloadItemFile streams the item file to dest. The response body goes
// straight to disk so the multi-megabyte catalog is never buffered in memory.
// A failed request leaves no partial file behind.
func (d *Downloader) DownloadItemFile(ctx context.Context, dest string) error {
	res, err := handleError(d.httpClient.
		NewRequest().
		SetContext(ctx).
		SetOutput(dest).
		Get(d.url))
	if err != nil {
		// resty writes the body to the output file even on a non-2xx
		// response, so clean it up.
		if res != nil && res.StatusCode() > 0 {
			_ = os.Remove(dest)
		}
		return err
	}

	return nil
}

// handleError is a generic error handler for failing response (>399 status
// code). Without this, failing responses would have nil error.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}

	return res, nil
}
