// Package stores holds the client-side collections backed by the job board API.
//
// List operations follow catch-log-reset: on failure the local collection is
// emptied, the error is logged and still returned.
package stores

import (
	"context"
	"net/url"
	"strconv"
)

// API is the gateway surface the stores call.
type API interface {
	Get(ctx context.Context, rawURL string, out any) error
	Post(ctx context.Context, rawURL string, body, out any) error
	Put(ctx context.Context, rawURL string, body, out any) error
	Delete(ctx context.Context, rawURL string, out any) error
}

// pageQuery builds the query string shared by the paged listings. Pages start at 1.
func pageQuery(path, query string, page int) string {
	if page < 1 {
		page = 1
	}
	return path + "?query=" + url.QueryEscape(query) + "&page=" + strconv.Itoa(page)
}

func jobPath(id string, suffix ...string) string {
	p := "/jobs/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
