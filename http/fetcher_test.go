package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/htmltomarkdown"
	sitechathttp "github.com/sitechat/sitechat/http"
	"github.com/sitechat/sitechat/mock"
	"github.com/sitechat/sitechat/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPageHTML = `<!DOCTYPE html>
<html>
<head><title>Shipping - Acme</title></head>
<body>
<nav>
<a href="/">Home</a>
<a href="/shipping">Shipping</a>
</nav>
<article>
<h1>Shipping Policy</h1>
<p>Orders ship within two business days from our warehouse in Ohio.</p>
<p>See <a href="/returns">returns</a> or <a href="https://carrier.example.org/tracking">carrier tracking</a>.</p>
<p><a href="mailto:support@acme.com">Email us</a> or <a href="javascript:void(0)">open chat</a>.</p>
</article>
</body>
</html>`

func newTestFetcher() *sitechathttp.Fetcher {
	return sitechathttp.NewFetcher(trafilatura.NewExtractor(), htmltomarkdown.NewConverter())
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns markdown content and title", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.Write([]byte(testPageHTML))
		}))
		defer srv.Close()

		f := newTestFetcher()
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL+"/shipping")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.NotEmpty(t, result.Title)
		assert.Contains(t, result.Content, "two business days")
	})

	t.Run("harvests links grouped by domain", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.Write([]byte(testPageHTML))
		}))
		defer srv.Close()

		f := newTestFetcher()
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL+"/shipping")
		require.NoError(t, err)

		internal := result.Links.Groups["internal"]
		var hrefs []string
		for _, l := range internal {
			hrefs = append(hrefs, l.Href)
		}
		assert.Contains(t, hrefs, srv.URL+"/")
		assert.Contains(t, hrefs, srv.URL+"/returns")

		external := result.Links.Groups["external"]
		require.Len(t, external, 1)
		assert.Equal(t, "https://carrier.example.org/tracking", external[0].Href)
	})

	t.Run("skips mailto and javascript links", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.Write([]byte(testPageHTML))
		}))
		defer srv.Close()

		f := newTestFetcher()
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)

		for _, href := range result.Links.Hrefs() {
			assert.NotContains(t, href, "mailto:")
			assert.NotContains(t, href, "javascript:")
		}
	})

	t.Run("reports redirect target as final URL", func(t *testing.T) {
		t.Parallel()

		mux := nethttp.NewServeMux()
		mux.HandleFunc("/old", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			nethttp.Redirect(w, r, "/new", nethttp.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.Write([]byte(testPageHTML))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		f := newTestFetcher()
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL+"/old")
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/new", result.FinalURL)
	})

	t.Run("returns error for non-200 status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			nethttp.NotFound(w, r)
		}))
		defer srv.Close()

		f := newTestFetcher()
		defer f.Close()

		_, err := f.Fetch(context.Background(), srv.URL+"/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("returns error when server unreachable", func(t *testing.T) {
		t.Parallel()

		f := newTestFetcher()
		defer f.Close()

		_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing")
		require.Error(t, err)
	})

	t.Run("empty extracted content yields unsuccessful result", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
			w.Write([]byte(`<html><head><title>Empty</title></head><body></body></html>`))
		}))
		defer srv.Close()

		extractor := &mock.Extractor{
			ExtractFn: func(string) (*sitechat.ExtractResult, error) {
				return &sitechat.ExtractResult{Title: "Empty"}, nil
			},
		}
		converter := &mock.Converter{
			ConvertFn: func(string) (string, error) {
				return "", nil
			},
		}

		f := sitechathttp.NewFetcher(extractor, converter)
		defer f.Close()

		result, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}
