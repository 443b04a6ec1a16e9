package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// ErrNoDocumentID is returned when remote images need a namespace but the
// caller supplied no document id.
var ErrNoDocumentID = errors.New("document id required to store images")

// Options configures a Resolver. Zero values fall back to defaults.
type Options struct {
	Root         string   // filesystem root for downloaded images
	PublicPrefix string   // path prefix written into the text
	LocalOrigins []string // hosts served by this service
	Timeout      time.Duration
	Concurrency  int
	MaxBytes     int64
	Client       *http.Client
}

// Reference is one distinct image reference found in a document.
type Reference struct {
	Original  string `json:"original"`
	Alt       string `json:"alt,omitempty"`
	LocalPath string `json:"local_path,omitempty"`
	IsLocal   bool   `json:"is_local"`
	Shape     Shape  `json:"shape"`
	Cached    bool   `json:"cached,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether the reference could not be resolved.
func (r Reference) Failed() bool { return r.Error != "" }

// Resolver downloads remote images into a per-document directory and
// rewrites references to point at the local copies.
type Resolver struct {
	opts   Options
	local  map[string]bool
	client *http.Client
	log    *slog.Logger
}

// New creates a Resolver.
func New(opts Options, log *slog.Logger) *Resolver {
	if opts.Root == "" {
		opts.Root = filepath.Join("static", "images")
	}
	if opts.PublicPrefix == "" {
		opts.PublicPrefix = "images"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 20 << 20
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	local := make(map[string]bool, len(opts.LocalOrigins))
	for _, h := range opts.LocalOrigins {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			local[h] = true
		}
	}
	return &Resolver{opts: opts, local: local, client: client, log: log}
}

// Root returns the filesystem root images are written under.
func (r *Resolver) Root() string { return r.opts.Root }

// job is one remote reference scheduled for download.
type job struct {
	ref  *Reference
	url  string
	dest string
}

// Resolve rewrites every image reference in text. Local references are
// canonicalized, remote ones are downloaded under docID. A failed download
// leaves the original URL in place and is reported on the Reference.
// The returned error is non-nil only for a missing document id or a
// cancelled context.
func (r *Resolver) Resolve(ctx context.Context, text, docID, topic string) (string, []Reference, error) {
	out, refs, err := r.ResolveAll(ctx, []string{text}, docID, topic)
	return out[0], refs, err
}

// ResolveAll is Resolve over several texts sharing one document namespace,
// such as the string values of a structured payload. References are
// deduplicated across texts and the result keeps the order of texts.
func (r *Resolver) ResolveAll(ctx context.Context, texts []string, docID, topic string) ([]string, []Reference, error) {
	out := make([]string, len(texts))
	var scanned []found
	for i, text := range texts {
		out[i] = collapseBlocks(text, topic)
		scanned = append(scanned, scanMarkdown(out[i])...)
		scanned = append(scanned, scanBlocks(out[i])...)
	}
	if len(scanned) == 0 {
		return out, nil, nil
	}

	ns := SanitizeSegment(docID)
	// Capacity is fixed up front so pointers into refs stay valid.
	refs := make([]Reference, 0, len(scanned))
	seen := make(map[string]bool)
	owner := make(map[string]string) // file name -> url
	seq := 0
	var jobs []job

	for _, f := range scanned {
		if f.url == "" || seen[f.url] || strings.HasPrefix(strings.ToLower(f.url), "data:") {
			continue
		}
		seen[f.url] = true
		refs = append(refs, Reference{Original: f.url, Alt: f.alt, Shape: f.shape})
		ref := &refs[len(refs)-1]

		u, err := url.Parse(f.url)
		if err != nil {
			ref.Error = fmt.Sprintf("parse url: %v", err)
			continue
		}
		if r.isLocal(u) {
			ref.IsLocal = true
			ref.LocalPath = canonicalLocal(u)
			continue
		}
		if ns == "" {
			return out, nil, ErrNoDocumentID
		}

		base := fileName(u, f.alt, func() int { seq++; return seq })
		name, err := r.assign(ns, base, f.url, owner)
		if err != nil {
			ref.Error = err.Error()
			continue
		}
		ref.LocalPath = path.Join(r.opts.PublicPrefix, ns, name)
		jobs = append(jobs, job{ref: ref, url: f.url, dest: filepath.Join(r.opts.Root, ns, name)})
	}

	// Each goroutine owns one Reference slot.
	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for _, j := range jobs {
		g.Go(func() error {
			cached, err := r.fetch(ctx, j.url, j.dest)
			if err != nil {
				r.log.Warn("image fetch failed", "url", j.url, "dest", j.dest, "error", err)
				j.ref.Error = err.Error()
				j.ref.LocalPath = ""
				return nil
			}
			j.ref.Cached = cached
			if !cached {
				r.log.Info("image stored", "url", j.url, "dest", j.dest)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return out, refs, fmt.Errorf("resolve images: %w", err)
	}

	for _, ref := range refs {
		if ref.LocalPath == "" || ref.LocalPath == ref.Original {
			continue
		}
		for i := range out {
			out[i] = rewrite(out[i], ref.Original, ref.LocalPath)
		}
	}
	return out, refs, nil
}

func (r *Resolver) isLocal(u *url.URL) bool {
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	host := strings.ToLower(u.Host)
	return r.local[host] || r.local[strings.ToLower(u.Hostname())]
}

// canonicalLocal drops scheme, host, query and leading slashes.
func canonicalLocal(u *url.URL) string {
	p := path.Clean("/" + u.Path)
	return strings.TrimPrefix(p, "/")
}

// assign picks the first variant of base, then base-2, base-3 and so on,
// that no other URL owns. Ownership within one call is tracked in owner;
// across calls it is the claim file written next to the image.
func (r *Resolver) assign(ns, base, rawURL string, owner map[string]string) (string, error) {
	name := base
	for n := 2; ; n++ {
		if owner[name] == "" {
			ok, err := r.claim(ns, name, rawURL)
			if err != nil {
				return "", err
			}
			if ok {
				owner[name] = rawURL
				return name, nil
			}
		}
		name = withSuffix(base, n)
	}
}

// claim records rawURL as the source of name in the namespace, unless
// another URL recorded it first. Claim files are dot files, so List skips
// them and Remove deletes them with the namespace.
func (r *Resolver) claim(ns, name, rawURL string) (bool, error) {
	dir := filepath.Join(r.opts.Root, ns)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create image dir: %w", err)
	}
	p := filepath.Join(dir, "."+name+".src")
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		_, err = f.WriteString(rawURL)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return false, fmt.Errorf("write image claim: %w", err)
		}
		return true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return false, fmt.Errorf("claim image name: %w", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return false, fmt.Errorf("read image claim: %w", err)
	}
	return string(b) == rawURL, nil
}

// fetch downloads url to dest unless dest already exists. It reports
// whether the file was already present.
func (r *Resolver) fetch(ctx context.Context, rawURL, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		return true, nil
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create image dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("get image: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, r.opts.MaxBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return false, fmt.Errorf("write image: %w", err)
	}
	if n > r.opts.MaxBytes {
		return false, fmt.Errorf("image exceeds %d bytes", r.opts.MaxBytes)
	}
	return placeFile(tmp.Name(), dest)
}

// placeFile moves tmp to dest only if dest does not exist. A hard link is
// tried first; filesystems without link support get an exclusive create.
func placeFile(tmp, dest string) (bool, error) {
	err := os.Link(tmp, dest)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrExist) {
		return true, nil
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("create image: %w", err)
	}
	in, err := os.Open(tmp)
	if err != nil {
		out.Close()
		os.Remove(dest)
		return false, fmt.Errorf("reopen temp file: %w", err)
	}
	defer in.Close()
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return false, fmt.Errorf("copy image: %w", err)
	}
	return false, out.Close()
}

// rewrite replaces a reference in markdown destinations and src attributes.
func rewrite(text, orig, local string) string {
	pairs := []string{
		"](" + orig + ")", "](" + local + ")",
		"](" + orig + " ", "](" + local + " ",
		"](<" + orig + ">)", "](<" + local + ">)",
		`src="` + orig + `"`, `src="` + local + `"`,
		`src='` + orig + `'`, `src='` + local + `'`,
	}
	if esc := html.EscapeString(orig); esc != orig {
		pairs = append(pairs,
			`src="`+esc+`"`, `src="`+local+`"`,
			`src='`+esc+`'`, `src='`+local+`'`,
		)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
