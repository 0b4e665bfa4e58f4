package preview

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func servePage(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestExcerptPrefersMetaDescription(t *testing.T) {
	t.Parallel()

	srv := servePage(t, "text/html", `<html><head>
		<meta name="description" content="A short summary.">
		<meta property="og:description" content="The og text.">
	</head><body><p>Ignored paragraph text.</p></body></html>`)

	got, err := NewClient(srv.Client()).Excerpt(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Excerpt returned error: %v", err)
	}
	if got != "A short summary." {
		t.Errorf("got %q, want meta description", got)
	}
}

func TestExcerptFallsBackToOpenGraph(t *testing.T) {
	t.Parallel()

	srv := servePage(t, "text/html", `<html><head>
		<meta property="og:description" content="The og text.">
	</head><body></body></html>`)

	got, err := NewClient(srv.Client()).Excerpt(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Excerpt returned error: %v", err)
	}
	if got != "The og text." {
		t.Errorf("got %q, want og:description", got)
	}
}

func TestExcerptFallsBackToFirstSubstantialParagraph(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("words and more words ", 8)
	srv := servePage(t, "text/html", fmt.Sprintf(
		`<html><body><p>short</p><p>  %s  </p></body></html>`, long))

	got, err := NewClient(srv.Client()).Excerpt(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Excerpt returned error: %v", err)
	}
	if !strings.HasPrefix(got, "words and more words") {
		t.Errorf("got %q, want paragraph text", got)
	}
}

func TestExcerptTruncates(t *testing.T) {
	t.Parallel()

	srv := servePage(t, "text/html", fmt.Sprintf(
		`<html><head><meta name="description" content="%s"></head></html>`,
		strings.Repeat("a", 2000)))

	got, err := NewClient(srv.Client()).Excerpt(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Excerpt returned error: %v", err)
	}
	if utf8.RuneCountInString(got) != maxExcerptLen {
		t.Errorf("excerpt length = %d, want %d", utf8.RuneCountInString(got), maxExcerptLen)
	}
}

func TestExcerptRejectsNonHTML(t *testing.T) {
	t.Parallel()

	srv := servePage(t, "application/pdf", "%PDF-1.4")

	if _, err := NewClient(srv.Client()).Excerpt(context.Background(), srv.URL); err == nil {
		t.Error("expected error for non-HTML content type")
	}
}

func TestExcerptPropagatesHTTPFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.Client()).Excerpt(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404 page")
	}
}
