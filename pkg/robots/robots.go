// Package robots fetches and evaluates robots.txt exclusion rules.
package robots

import (
	"bufio"
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/session"
)

type rule struct {
	allow bool
	path  string
}

type group struct {
	agents []string
	rules  []rule
	delay  time.Duration
}

// Policy holds the parsed rules of one robots.txt file.
type Policy struct {
	groups   []group
	sitemaps []string
}

// Fetch retrieves and parses /robots.txt for the target's origin. A
// missing or unreadable file yields a permit-everything policy.
func Fetch(ctx context.Context, s *session.Session, target string) (*Policy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return &Policy{}, err
	}
	u.Path = "/robots.txt"
	u.RawQuery = ""
	u.Fragment = ""

	resp, err := s.Get(ctx, u.String())
	if err != nil {
		return &Policy{}, nil
	}
	defer iohelper.DrainAndClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return &Policy{}, nil
	}
	body, err := iohelper.ReadBodySmall(resp.Body)
	if err != nil {
		return &Policy{}, nil
	}
	return Parse(string(body)), nil
}

// Parse parses robots.txt content. Unknown directives are ignored.
func Parse(content string) *Policy {
	p := &Policy{}
	var cur *group
	// A User-agent line after rules starts a new group; consecutive
	// User-agent lines share one group.
	inAgents := false

	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)

		switch key {
		case "user-agent":
			if cur == nil || !inAgents {
				p.groups = append(p.groups, group{})
				cur = &p.groups[len(p.groups)-1]
			}
			cur.agents = append(cur.agents, strings.ToLower(val))
			inAgents = true
		case "allow", "disallow":
			if cur == nil {
				continue
			}
			inAgents = false
			if val == "" && key == "disallow" {
				// "Disallow:" with no path permits everything.
				continue
			}
			cur.rules = append(cur.rules, rule{allow: key == "allow", path: val})
		case "crawl-delay":
			if cur == nil {
				continue
			}
			inAgents = false
			if secs, err := strconv.ParseFloat(val, 64); err == nil && secs > 0 {
				cur.delay = time.Duration(secs * float64(time.Second))
			}
		case "sitemap":
			p.sitemaps = append(p.sitemaps, val)
		}
	}
	return p
}

// Allowed reports whether the given user agent may fetch the URL path.
// The most specific matching rule wins; no matching group or rule
// means allowed.
func (p *Policy) Allowed(userAgent, rawURL string) bool {
	g := p.match(userAgent)
	if g == nil {
		return true
	}
	path := urlPath(rawURL)

	best := rule{}
	bestLen := -1
	for _, r := range g.rules {
		if strings.HasPrefix(path, r.path) && len(r.path) > bestLen {
			best = r
			bestLen = len(r.path)
		}
	}
	if bestLen < 0 {
		return true
	}
	return best.allow
}

// CrawlDelay returns the Crawl-delay for the user agent, zero if unset.
func (p *Policy) CrawlDelay(userAgent string) time.Duration {
	if g := p.match(userAgent); g != nil {
		return g.delay
	}
	return 0
}

// Sitemaps returns the sitemap URLs listed in the file.
func (p *Policy) Sitemaps() []string { return p.sitemaps }

// AgentPolicy is a Policy bound to one user agent, so callers that
// only ever ask for themselves do not carry the agent string around.
type AgentPolicy struct {
	policy *Policy
	agent  string
}

// ForAgent binds the policy to a user agent.
func (p *Policy) ForAgent(userAgent string) *AgentPolicy {
	return &AgentPolicy{policy: p, agent: userAgent}
}

// Allowed reports whether the bound agent may fetch the URL.
func (a *AgentPolicy) Allowed(rawURL string) bool {
	return a.policy.Allowed(a.agent, rawURL)
}

// CrawlDelay returns the Crawl-delay for the bound agent.
func (a *AgentPolicy) CrawlDelay() time.Duration {
	return a.policy.CrawlDelay(a.agent)
}

// match finds the group for the agent, preferring an exact token match
// over the wildcard group.
func (p *Policy) match(userAgent string) *group {
	ua := strings.ToLower(userAgent)
	var wildcard *group
	for i := range p.groups {
		for _, a := range p.groups[i].agents {
			if a == "*" {
				if wildcard == nil {
					wildcard = &p.groups[i]
				}
				continue
			}
			if strings.Contains(ua, a) {
				return &p.groups[i]
			}
		}
	}
	return wildcard
}

func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path := u.Path
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		return path
	}
	if rawURL == "" || rawURL[0] != '/' {
		return "/" + rawURL
	}
	return rawURL
}
