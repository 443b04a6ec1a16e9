package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// imageHost serves a fixed body for every path except /missing and counts hits.
func imageHost(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if strings.HasPrefix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestResolver(t *testing.T, opts Options) *Resolver {
	t.Helper()
	if opts.Root == "" {
		opts.Root = t.TempDir()
	}
	return New(opts, nil)
}

func TestResolve_DownloadsRemoteImage(t *testing.T) {
	srv, hits := imageHost(t, "png-bytes")
	r := newTestResolver(t, Options{})

	out, refs, err := r.Resolve(context.Background(), "![Diagram]("+srv.URL+"/img.png)", "doc42", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.Contains(out, "doc42/img.png") {
		t.Errorf("expected rewritten path in %q", out)
	}
	if strings.Contains(out, srv.URL) {
		t.Errorf("expected remote URL to be replaced, got %q", out)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(refs))
	}
	if refs[0].LocalPath != "images/doc42/img.png" {
		t.Errorf("expected local path images/doc42/img.png, got %q", refs[0].LocalPath)
	}
	if refs[0].Alt != "Diagram" {
		t.Errorf("expected alt Diagram, got %q", refs[0].Alt)
	}
	data, err := os.ReadFile(filepath.Join(r.Root(), "doc42", "img.png"))
	if err != nil {
		t.Fatalf("expected stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("expected stored body png-bytes, got %q", data)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request, got %d", hits.Load())
	}
}

func TestResolve_SecondPassIsCached(t *testing.T) {
	srv, hits := imageHost(t, "x")
	r := newTestResolver(t, Options{})
	text := "![a](" + srv.URL + "/img.png)"

	first, _, err := r.Resolve(context.Background(), text, "doc1", "")
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, refs, err := r.Resolve(context.Background(), text, "doc1", "")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 request across both passes, got %d", hits.Load())
	}
	if first != second {
		t.Errorf("expected identical output, got %q and %q", first, second)
	}
	if !refs[0].Cached {
		t.Error("expected second pass to report a cached reference")
	}
}

func TestResolve_FailureKeepsURL(t *testing.T) {
	srv, _ := imageHost(t, "x")
	r := newTestResolver(t, Options{})
	text := "Intro\n![broken](" + srv.URL + "/missing.png)\nOutro"

	out, refs, err := r.Resolve(context.Background(), text, "doc1", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out != text {
		t.Errorf("expected text unchanged, got %q", out)
	}
	if len(refs) != 1 || !refs[0].Failed() {
		t.Fatalf("expected one failed reference, got %+v", refs)
	}
	if refs[0].LocalPath != "" {
		t.Errorf("expected no local path, got %q", refs[0].LocalPath)
	}
	if _, err := os.Stat(filepath.Join(r.Root(), "doc1", "missing.png")); err == nil {
		t.Error("expected no file for failed download")
	}
}

func TestResolve_SizeCap(t *testing.T) {
	srv, _ := imageHost(t, strings.Repeat("z", 64))
	r := newTestResolver(t, Options{MaxBytes: 10})

	_, refs, err := r.Resolve(context.Background(), "![big]("+srv.URL+"/big.png)", "doc1", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !refs[0].Failed() {
		t.Error("expected oversized image to fail")
	}
	if _, err := os.Stat(filepath.Join(r.Root(), "doc1", "big.png")); err == nil {
		t.Error("expected oversized image not to be stored")
	}
}

func TestResolve_LocalReferences(t *testing.T) {
	_, hits := imageHost(t, "x")
	r := newTestResolver(t, Options{LocalOrigins: []string{"cdn.local"}})
	text := "![a](/images/doc1/a.png)\n\n![b](http://cdn.local/images/b.png?v=2)"

	out, refs, err := r.Resolve(context.Background(), text, "", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if hits.Load() != 0 {
		t.Errorf("expected no requests, got %d", hits.Load())
	}
	want := []string{"images/doc1/a.png", "images/b.png"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d references, got %d", len(want), len(refs))
	}
	for i, w := range want {
		if !refs[i].IsLocal {
			t.Errorf("ref %d: expected local", i)
		}
		if refs[i].LocalPath != w {
			t.Errorf("ref %d: expected %q, got %q", i, w, refs[i].LocalPath)
		}
		if !strings.Contains(out, "]("+w+")") {
			t.Errorf("expected %q in output %q", w, out)
		}
	}
}

func TestResolve_MissingDocumentID(t *testing.T) {
	srv, _ := imageHost(t, "x")
	r := newTestResolver(t, Options{})

	_, _, err := r.Resolve(context.Background(), "![a]("+srv.URL+"/a.png)", "  ", "")
	if !errors.Is(err, ErrNoDocumentID) {
		t.Errorf("expected ErrNoDocumentID, got %v", err)
	}
}

func TestResolve_IgnoresCodeAndDataURIs(t *testing.T) {
	srv, hits := imageHost(t, "x")
	r := newTestResolver(t, Options{})
	text := "```\n![a](" + srv.URL + "/a.png)\n```\n\nInline `![b](" + srv.URL + "/b.png)` code.\n\n![c](data:image/png;base64,AAAA)"

	out, refs, err := r.Resolve(context.Background(), text, "doc1", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no references, got %+v", refs)
	}
	if hits.Load() != 0 {
		t.Errorf("expected no requests, got %d", hits.Load())
	}
	if out != text {
		t.Errorf("expected text unchanged, got %q", out)
	}
}

func TestResolve_BlockImage(t *testing.T) {
	srv, _ := imageHost(t, "x")
	r := newTestResolver(t, Options{})
	text := "Before\n<div class=\"textbook-image\">\n  <figure>\n    <img src=\"" + srv.URL + "/loop.png\" alt=\"Loop\">\n  </figure>\n</div>\nAfter"

	out, refs, err := r.Resolve(context.Background(), text, "doc1", "Loops")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(refs) != 1 || refs[0].Shape != ShapeBlock {
		t.Fatalf("expected one block reference, got %+v", refs)
	}
	if !strings.Contains(out, `src="images/doc1/loop.png"`) {
		t.Errorf("expected rewritten src in %q", out)
	}
	if !strings.Contains(out, `<figcaption class="figure-caption">Visual representation of Loops</figcaption>`) {
		t.Errorf("expected topic caption in %q", out)
	}
	var blockLines int
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "<div") {
			blockLines++
			if !strings.Contains(line, "</div>") {
				t.Errorf("expected block collapsed onto one line, got %q", line)
			}
		}
	}
	if blockLines != 1 {
		t.Errorf("expected 1 block line, got %d", blockLines)
	}
}

func TestResolve_NameCollisions(t *testing.T) {
	srv, hits := imageHost(t, "x")
	r := newTestResolver(t, Options{Concurrency: 2})
	text := "![a](" + srv.URL + "/a/img.png)\n\n![b](" + srv.URL + "/b/img.png)\n\n![c](" + srv.URL + "/c/img.png)\n\n![a again](" + srv.URL + "/a/img.png)"

	_, refs, err := r.Resolve(context.Background(), text, "doc1", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"images/doc1/img.png", "images/doc1/img-2.png", "images/doc1/img-3.png"}
	if len(refs) != len(want) {
		t.Fatalf("expected %d distinct references, got %d", len(want), len(refs))
	}
	for i, w := range want {
		if refs[i].LocalPath != w {
			t.Errorf("ref %d: expected %q, got %q", i, w, refs[i].LocalPath)
		}
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 requests, got %d", hits.Load())
	}
}

func TestListAndRemove(t *testing.T) {
	srv, _ := imageHost(t, "abc")
	r := newTestResolver(t, Options{})
	if _, _, err := r.Resolve(context.Background(), "![a]("+srv.URL+"/one.png)\n\n![b]("+srv.URL+"/two.gif)", "doc9", ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	list, err := r.List("doc9")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "one.png" || list[1].Name != "two.gif" {
		t.Fatalf("expected one.png and two.gif, got %+v", list)
	}
	if list[0].Size != 3 {
		t.Errorf("expected size 3, got %d", list[0].Size)
	}

	n, err := r.Remove("doc9")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	list, err = r.List("doc9")
	if err != nil {
		t.Fatalf("List after remove: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty namespace, got %+v", list)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name, raw, alt, want string
	}{
		{"basename", "http://h/x/photo.png", "", "photo.png"},
		{"extensionless", "http://h/x/photo", "", "photo.jpg"},
		{"alt fallback", "http://h/", "My Chart!", "my-chart.jpg"},
		{"counter fallback", "http://h/", "", "image-1.jpg"},
		{"sanitized", "http://h/a%20b%2Bc.png", "", "a-b-c.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			seq := 0
			got := fileName(u, tt.alt, func() int { seq++; return seq })
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCaption(t *testing.T) {
	if got := Caption("Loops", "diagram"); got != "Visual representation of Loops" {
		t.Errorf("expected topic caption, got %q", got)
	}
	if got := Caption("", "diagram"); got != "Supporting visual for diagram" {
		t.Errorf("expected alt caption, got %q", got)
	}
	if got := Caption(" ", ""); got != "" {
		t.Errorf("expected empty caption, got %q", got)
	}
}

func TestResolveAll_SharesNamespaceAcrossTexts(t *testing.T) {
	srv, hits := imageHost(t, "x")
	r := newTestResolver(t, Options{})
	texts := []string{
		"![a](" + srv.URL + "/a/img.png)",
		"plain value",
		"<figure><img src=\"" + srv.URL + "/b/img.png\"></figure>",
		"![a again](" + srv.URL + "/a/img.png)",
	}

	out, refs, err := r.ResolveAll(context.Background(), texts, "doc1", "Loops")
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	if len(out) != len(texts) {
		t.Fatalf("expected %d texts, got %d", len(texts), len(out))
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 distinct references, got %+v", refs)
	}
	if out[0] != "![a](images/doc1/img.png)" || out[3] != "![a again](images/doc1/img.png)" {
		t.Errorf("expected shared local path, got %q and %q", out[0], out[3])
	}
	if out[1] != "plain value" {
		t.Errorf("expected untouched text, got %q", out[1])
	}
	want := `<figure><img src="images/doc1/img-2.png"><figcaption class="figure-caption">Visual representation of Loops</figcaption> </figure>`
	if out[2] != want {
		t.Errorf("expected %q, got %q", want, out[2])
	}
	if hits.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", hits.Load())
	}
}

func TestResolve_NamesStableAcrossCalls(t *testing.T) {
	srv, hits := imageHost(t, "x")
	r := newTestResolver(t, Options{})
	ctx := context.Background()

	if _, _, err := r.Resolve(ctx, "![a]("+srv.URL+"/a/img.png)\n\n![b]("+srv.URL+"/b/img.png)", "doc1", ""); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tests := []struct {
		name       string
		url        string
		wantPath   string
		wantCached bool
	}{
		{"second url alone keeps its suffix", srv.URL + "/b/img.png", "images/doc1/img-2.png", true},
		{"first url alone keeps the plain name", srv.URL + "/a/img.png", "images/doc1/img.png", true},
		{"new url takes the next free name", srv.URL + "/c/img.png", "images/doc1/img-3.png", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, refs, err := r.Resolve(ctx, "![x]("+tt.url+")", "doc1", "")
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if len(refs) != 1 {
				t.Fatalf("expected 1 reference, got %+v", refs)
			}
			if refs[0].LocalPath != tt.wantPath {
				t.Errorf("expected %q, got %q", tt.wantPath, refs[0].LocalPath)
			}
			if refs[0].Cached != tt.wantCached {
				t.Errorf("expected cached %v, got %v", tt.wantCached, refs[0].Cached)
			}
			if out != "![x]("+tt.wantPath+")" {
				t.Errorf("expected rewritten text, got %q", out)
			}
		})
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 requests, got %d", hits.Load())
	}

	list, err := r.List("doc1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected claim files hidden from List, got %+v", list)
	}
}
