// Package sitemap parses XML sitemaps and sitemap index files.
package sitemap

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/url"

	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/session"
)

// maxNested caps how many child sitemaps of an index file are fetched.
const maxNested = 50

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// Fetch downloads the sitemap at rawURL and returns the page URLs it
// lists. Index files are followed one level deep.
func Fetch(ctx context.Context, s *session.Session, rawURL string) ([]string, error) {
	body, err := fetchBody(ctx, s, rawURL)
	if err != nil {
		return nil, err
	}

	if urls := parseURLSet(body); urls != nil {
		return urls, nil
	}

	var idx sitemapIndex
	if err := xml.Unmarshal(body, &idx); err != nil {
		return nil, nil
	}
	var urls []string
	for i, sm := range idx.Sitemaps {
		if i >= maxNested || ctx.Err() != nil {
			break
		}
		child, err := fetchBody(ctx, s, sm.Loc)
		if err != nil {
			continue
		}
		urls = append(urls, parseURLSet(child)...)
	}
	return urls, nil
}

// Discover tries the conventional sitemap location for the target's
// origin. No sitemap is not an error.
func Discover(ctx context.Context, s *session.Session, target string) []string {
	u, err := url.Parse(target)
	if err != nil {
		return nil
	}
	u.Path = "/sitemap.xml"
	u.RawQuery = ""
	u.Fragment = ""

	urls, _ := Fetch(ctx, s, u.String())
	return urls
}

func fetchBody(ctx context.Context, s *session.Session, rawURL string) ([]byte, error) {
	resp, err := s.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer iohelper.DrainAndClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return iohelper.ReadBodyDefault(resp.Body)
}

func parseURLSet(body []byte) []string {
	var set urlSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil
	}
	var urls []string
	for _, u := range set.URLs {
		if u.Loc != "" {
			urls = append(urls, u.Loc)
		}
	}
	return urls
}
