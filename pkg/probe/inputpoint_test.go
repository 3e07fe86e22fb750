package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/webscan/webscan/pkg/session"
)

func TestQueryPoints(t *testing.T) {
	t.Run("multiple params", func(t *testing.T) {
		points := QueryPoints("http://test/search?q=hello&page=2")
		if len(points) != 2 {
			t.Fatalf("expected 2 points, got %d", len(points))
		}
		sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
		if points[0].Name != "page" || points[0].Value != "2" {
			t.Errorf("unexpected point: %+v", points[0])
		}
		if points[1].Location != LocationQuery || points[1].Method != http.MethodGet {
			t.Errorf("unexpected point: %+v", points[1])
		}
	})

	t.Run("no params", func(t *testing.T) {
		if points := QueryPoints("http://test/"); len(points) != 0 {
			t.Errorf("expected no points, got %d", len(points))
		}
	})

	t.Run("bad url", func(t *testing.T) {
		if points := QueryPoints("http://bad url/%zz?a=1"); points != nil {
			t.Errorf("expected nil for unparsable URL, got %v", points)
		}
	})
}

func TestFormPoints(t *testing.T) {
	body := []byte(`<html><body>
		<form action="/submit" method="post">
			<input type="text" name="comment" value="hi">
			<input type="hidden" name="csrf" value="tok">
			<input type="submit" name="go">
			<textarea name="message"></textarea>
		</form>
		<form>
			<input name="q">
		</form>
	</body></html>`)

	points := FormPoints("http://test/page", body)
	if len(points) != 3 {
		t.Fatalf("expected 3 points (comment, message, q), got %d: %+v", len(points), points)
	}

	byName := map[string]InputPoint{}
	for _, p := range points {
		byName[p.Name] = p
	}

	comment, ok := byName["comment"]
	if !ok {
		t.Fatal("missing comment point")
	}
	if comment.Target != "http://test/submit" {
		t.Errorf("action not resolved: %q", comment.Target)
	}
	if comment.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", comment.Method)
	}
	if comment.Value != "hi" {
		t.Errorf("expected current value preserved, got %q", comment.Value)
	}

	if _, hidden := byName["csrf"]; hidden {
		t.Error("hidden inputs should not become input points")
	}

	q, ok := byName["q"]
	if !ok {
		t.Fatal("missing q point")
	}
	if q.Target != "http://test/page" {
		t.Errorf("actionless form should target the endpoint, got %q", q.Target)
	}
	if q.Method != http.MethodGet {
		t.Errorf("expected GET default, got %s", q.Method)
	}
}

func TestFormPointsMalformedHTML(t *testing.T) {
	// The tokenizer recovers what it can; no error, no panic.
	points := FormPoints("http://test/", []byte(`<form method=post><input name="x" <broken`))
	for _, p := range points {
		if p.Name == "" {
			t.Error("recovered point without a name")
		}
	}
}

func TestSendSubstitutesVariant(t *testing.T) {
	var gotQuery, gotForm string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gotQuery = r.URL.Query().Get("q")
		case http.MethodPost:
			r.ParseForm()
			gotForm = r.PostForm.Get("comment")
		}
	}))
	defer srv.Close()

	s := session.New(session.DefaultConfig())
	ctx := context.Background()

	resp, rtt, err := Send(ctx, s, InputPoint{
		Location: LocationQuery, Name: "q", Value: "1",
		Target: srv.URL + "/?q=1", Method: http.MethodGet,
	}, "PAYLOAD")
	if err != nil {
		t.Fatalf("query send: %v", err)
	}
	resp.Body.Close()
	if gotQuery != "PAYLOAD" {
		t.Errorf("query variant not substituted, got %q", gotQuery)
	}
	if rtt <= 0 {
		t.Error("expected positive round-trip time")
	}

	resp, _, err = Send(ctx, s, InputPoint{
		Location: LocationForm, Name: "comment",
		Target: srv.URL, Method: http.MethodPost,
	}, "INJECTED")
	if err != nil {
		t.Fatalf("form send: %v", err)
	}
	resp.Body.Close()
	if gotForm != "INJECTED" {
		t.Errorf("form variant not substituted, got %q", gotForm)
	}
}
