package pipeline

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// CookiePolicy stores and replays cookies across calls using an
// http.CookieJar (stdlib net/http/cookiejar: no ecosystem cookie jar
// appears anywhere in the corpus, so this one concern stays on the
// standard library).
//
// It reads Set-Cookie directly via the raw, un-joined header values
//: multiple Set-Cookie
// headers must never be comma-joined before parsing, since commas are
// valid inside cookie attribute values such as Expires.
type CookiePolicy struct {
	jar http.CookieJar
}

// NewCookiePolicy creates a policy backed by a fresh in-memory cookie jar.
func NewCookiePolicy() (*CookiePolicy, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.MalformedInterface, "", "constructing cookie jar", err)
	}
	return &CookiePolicy{jar: jar}, nil
}

func (p *CookiePolicy) Name() string { return "cookies" }

func (p *CookiePolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.MalformedInterface, req.Label, "parsing request URL for cookie jar", err)
	}

	if cookies := p.jar.Cookies(u); len(cookies) > 0 {
		parts := make([]string, 0, len(cookies))
		for _, c := range cookies {
			parts = append(parts, c.Name+"="+c.Value)
		}
		combined := strings.Join(parts, "; ")
		if existing := req.Headers.Get("Cookie"); existing != "" {
			combined = existing + "; " + combined
		}
		req.Headers.Set("Cookie", combined)
	}

	resp, err := next(ctx, req)
	if err != nil {
		return nil, err
	}

	if setCookie := resp.Headers.Values("Set-Cookie"); len(setCookie) > 0 {
		header := http.Header{}
		for _, v := range setCookie {
			header.Add("Set-Cookie", v)
		}
		dummy := &http.Response{Header: header}
		p.jar.SetCookies(u, dummy.Cookies())
	}

	return resp, nil
}
