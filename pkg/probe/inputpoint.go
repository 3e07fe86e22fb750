package probe

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/webscan/webscan/pkg/session"
)

// Location says where an input point lives on an endpoint.
type Location string

const (
	// LocationQuery is a URL query parameter.
	LocationQuery Location = "query"

	// LocationForm is an HTML form field.
	LocationForm Location = "form"
)

// InputPoint is one testable parameter surface. An InputPoint is owned by
// a single probe invocation and never shared.
type InputPoint struct {
	Location Location
	Name     string
	Value    string // current value, replaced by the payload variant
	Target   string // submission URL (endpoint for query, form action for form)
	Method   string // GET or POST
}

// QueryPoints extracts an input point per query parameter of endpoint.
func QueryPoints(endpoint string) []InputPoint {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil
	}
	query := u.Query()
	points := make([]InputPoint, 0, len(query))
	for name, values := range query {
		value := ""
		if len(values) > 0 {
			value = values[0]
		}
		points = append(points, InputPoint{
			Location: LocationQuery,
			Name:     name,
			Value:    value,
			Target:   endpoint,
			Method:   http.MethodGet,
		})
	}
	return points
}

// textInputTypes are the form input types worth injecting into.
var textInputTypes = map[string]bool{
	"": true, "text": true, "search": true, "url": true,
	"email": true, "tel": true, "number": true,
}

// FormPoints parses body as HTML and extracts an input point per testable
// field of each form, resolving form actions against endpoint. Malformed
// HTML yields whatever the tokenizer could recover, never an error.
func FormPoints(endpoint string, body []byte) []InputPoint {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil
	}
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var points []InputPoint
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "form" {
			points = append(points, formFields(n, base, endpoint)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return points
}

func formFields(form *html.Node, base *url.URL, endpoint string) []InputPoint {
	action := attr(form, "action")
	target := endpoint
	if action != "" {
		if ref, err := url.Parse(action); err == nil {
			target = base.ResolveReference(ref).String()
		}
	}
	method := strings.ToUpper(attr(form, "method"))
	if method != http.MethodPost {
		method = http.MethodGet
	}

	var points []InputPoint
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "input":
				if name := attr(n, "name"); name != "" && textInputTypes[strings.ToLower(attr(n, "type"))] {
					points = append(points, InputPoint{
						Location: LocationForm,
						Name:     name,
						Value:    attr(n, "value"),
						Target:   target,
						Method:   method,
					})
				}
			case "textarea":
				if name := attr(n, "name"); name != "" {
					points = append(points, InputPoint{
						Location: LocationForm,
						Name:     name,
						Target:   target,
						Method:   method,
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(form)
	return points
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// Send substitutes variant into the input point and issues the request,
// returning the response and the observed round-trip time. Query points
// are always fetched with GET; form points use the form's declared method.
func Send(ctx context.Context, s *session.Session, p InputPoint, variant string) (*http.Response, time.Duration, error) {
	var (
		resp *http.Response
		err  error
	)
	start := time.Now()

	switch {
	case p.Location == LocationQuery:
		u, perr := url.Parse(p.Target)
		if perr != nil {
			return nil, 0, perr
		}
		q := u.Query()
		q.Set(p.Name, variant)
		u.RawQuery = q.Encode()
		resp, err = s.Get(ctx, u.String())

	case p.Method == http.MethodPost:
		form := url.Values{}
		form.Set(p.Name, variant)
		resp, err = s.PostForm(ctx, p.Target, form)

	default:
		u, perr := url.Parse(p.Target)
		if perr != nil {
			return nil, 0, perr
		}
		q := u.Query()
		q.Set(p.Name, variant)
		u.RawQuery = q.Encode()
		resp, err = s.Get(ctx, u.String())
	}

	return resp, time.Since(start), err
}
