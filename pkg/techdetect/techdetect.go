// Package techdetect fingerprints the technologies behind a site from
// response headers, page markup and the favicon hash.
package techdetect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/regexcache"
	"github.com/webscan/webscan/pkg/session"
)

type headerSig struct {
	header   string
	pattern  *regexp.Regexp
	name     string
	category string
}

type bodySig struct {
	pattern  *regexp.Regexp
	name     string
	category string
}

var headerSignatures = []headerSig{
	{"Server", regexcache.MustGet(`(?i)nginx`), "nginx", "web server"},
	{"Server", regexcache.MustGet(`(?i)apache`), "Apache", "web server"},
	{"Server", regexcache.MustGet(`(?i)microsoft-iis`), "IIS", "web server"},
	{"Server", regexcache.MustGet(`(?i)cloudflare`), "Cloudflare", "cdn"},
	{"X-Powered-By", regexcache.MustGet(`(?i)php`), "PHP", "language"},
	{"X-Powered-By", regexcache.MustGet(`(?i)express`), "Express", "framework"},
	{"X-Powered-By", regexcache.MustGet(`(?i)asp\.net`), "ASP.NET", "framework"},
	{"X-AspNet-Version", regexcache.MustGet(`.`), "ASP.NET", "framework"},
	{"X-Drupal-Cache", regexcache.MustGet(`.`), "Drupal", "cms"},
	{"Set-Cookie", regexcache.MustGet(`PHPSESSID`), "PHP", "language"},
	{"Set-Cookie", regexcache.MustGet(`JSESSIONID`), "Java", "language"},
	{"Set-Cookie", regexcache.MustGet(`csrftoken`), "Django", "framework"},
	{"Set-Cookie", regexcache.MustGet(`laravel_session`), "Laravel", "framework"},
}

var bodySignatures = []bodySig{
	{regexcache.MustGet(`(?i)wp-content|wp-includes`), "WordPress", "cms"},
	{regexcache.MustGet(`(?i)content="Joomla`), "Joomla", "cms"},
	{regexcache.MustGet(`(?i)content="Drupal`), "Drupal", "cms"},
	{regexcache.MustGet(`(?i)cdn\.shopify\.com`), "Shopify", "ecommerce"},
	{regexcache.MustGet(`(?i)jquery[.-]`), "jQuery", "javascript"},
	{regexcache.MustGet(`(?i)data-reactroot|react-dom`), "React", "javascript"},
	{regexcache.MustGet(`(?i)ng-version=`), "Angular", "javascript"},
	{regexcache.MustGet(`(?i)__NuxtData__|/_nuxt/`), "Nuxt", "javascript"},
	{regexcache.MustGet(`(?i)/_next/static`), "Next.js", "javascript"},
}

// faviconHashes maps mmh3 favicon hashes to the product that ships
// that icon.
var faviconHashes = map[int32]struct {
	name     string
	category string
}{
	116323821:   {"Spring Boot", "framework"},
	-1277814690: {"Jenkins", "ci"},
	81586312:    {"Jira", "issue tracker"},
	-235701012:  {"GitLab", "devops"},
	999357577:   {"phpMyAdmin", "database admin"},
}

// Detector fingerprints a target from its responses.
type Detector struct{}

// New creates a Detector.
func New() *Detector { return &Detector{} }

// Detect fetches the target root and favicon and returns every
// technology it can identify. Duplicates are collapsed by name.
func (d *Detector) Detect(ctx context.Context, s *session.Session, target string) []finding.Technology {
	var techs []finding.Technology
	seen := map[string]bool{}
	add := func(t finding.Technology) {
		if !seen[t.Name] {
			seen[t.Name] = true
			techs = append(techs, t)
		}
	}

	resp, err := s.Get(ctx, target)
	if err == nil {
		body, _ := iohelper.ReadBodyDefault(resp.Body)
		iohelper.DrainAndClose(resp.Body)

		for _, t := range FromHeaders(resp.Header) {
			add(t)
		}
		for _, t := range FromBody(string(body)) {
			add(t)
		}
	}

	if t, ok := d.fromFavicon(ctx, s, target); ok {
		add(t)
	}
	return techs
}

// FromHeaders matches header signatures against h.
func FromHeaders(h http.Header) []finding.Technology {
	var techs []finding.Technology
	for _, sig := range headerSignatures {
		val := strings.Join(h.Values(sig.header), "; ")
		if val == "" {
			continue
		}
		if sig.pattern.MatchString(val) {
			techs = append(techs, finding.Technology{
				Name:     sig.name,
				Category: sig.category,
				Evidence: fmt.Sprintf("%s: %s", sig.header, val),
			})
		}
	}
	return techs
}

// FromBody matches markup signatures against the page body.
func FromBody(body string) []finding.Technology {
	var techs []finding.Technology
	for _, sig := range bodySignatures {
		if m := sig.pattern.FindString(body); m != "" {
			techs = append(techs, finding.Technology{
				Name:     sig.name,
				Category: sig.category,
				Evidence: fmt.Sprintf("body matched %q", m),
			})
		}
	}
	return techs
}

func (d *Detector) fromFavicon(ctx context.Context, s *session.Session, target string) (finding.Technology, bool) {
	u, err := url.Parse(target)
	if err != nil {
		return finding.Technology{}, false
	}
	u.Path = "/favicon.ico"
	u.RawQuery = ""

	resp, err := s.Get(ctx, u.String())
	if err != nil {
		return finding.Technology{}, false
	}
	body, _ := iohelper.ReadBodySmall(resp.Body)
	iohelper.DrainAndClose(resp.Body)
	if resp.StatusCode != http.StatusOK || len(body) == 0 {
		return finding.Technology{}, false
	}

	h := int32(murmur3.Sum32(body))
	sig, ok := faviconHashes[h]
	if !ok {
		return finding.Technology{}, false
	}
	return finding.Technology{
		Name:     sig.name,
		Category: sig.category,
		Evidence: fmt.Sprintf("favicon mmh3:%d", h),
	}, true
}
