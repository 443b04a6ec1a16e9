package images

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Shape is the syntax a reference was written in.
type Shape string

const (
	ShapeMarkdown Shape = "markdown"
	ShapeBlock    Shape = "block"
)

// found is one reference located in the text, before resolution.
type found struct {
	url   string
	alt   string
	shape Shape
}

var (
	blockRe = regexp.MustCompile(`(?is)<div[^>]*\btextbook-image\b[^>]*>.*?</figure>\s*</div>|<figure\b.*?</figure>|<img\b[^>]*>`)
	wsRe    = regexp.MustCompile(`\s+`)
)

// collapseBlocks folds every block-style image element onto a single line.
// Elements standing on their own lines are padded with blank lines so the
// markdown scanner does not absorb neighbouring lines into an HTML block.
// Figures without a caption get one built from caption.
func collapseBlocks(src, topic string) string {
	locs := blockRe.FindAllStringIndex(src, -1)
	if len(locs) == 0 {
		return src
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		b.WriteString(src[last:start])
		block := wsRe.ReplaceAllString(src[start:end], " ")
		block = addCaption(block, topic)
		ownLine := (start == 0 || src[start-1] == '\n') && (end == len(src) || src[end] == '\n')
		if ownLine && start > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(block)
		if ownLine && end < len(src) {
			b.WriteByte('\n')
		}
		last = end
	}
	b.WriteString(src[last:])
	return b.String()
}

func addCaption(block, topic string) string {
	lower := strings.ToLower(block)
	if !strings.HasPrefix(lower, "<div") && !strings.HasPrefix(lower, "<figure") {
		return block
	}
	if strings.Contains(lower, "<figcaption") {
		return block
	}
	i := strings.Index(lower, "</figure>")
	if i < 0 {
		return block
	}
	var alt string
	if refs := scanBlock(block); len(refs) > 0 {
		alt = refs[0].alt
	}
	caption := Caption(topic, alt)
	if caption == "" {
		return block
	}
	fig := `<figcaption class="figure-caption">` + html.EscapeString(caption) + `</figcaption>`
	return block[:i] + fig + " " + block[i:]
}

// scanBlocks finds image tags inside block-style elements.
func scanBlocks(src string) []found {
	var out []found
	for _, block := range blockRe.FindAllString(src, -1) {
		out = append(out, scanBlock(block)...)
	}
	return out
}

func scanBlock(block string) []found {
	var out []found
	z := html.NewTokenizer(strings.NewReader(block))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "img" {
				continue
			}
			f := found{shape: ShapeBlock}
			for _, a := range tok.Attr {
				switch a.Key {
				case "src":
					f.url = strings.TrimSpace(a.Val)
				case "alt":
					f.alt = strings.TrimSpace(a.Val)
				}
			}
			if f.url != "" {
				out = append(out, f)
			}
		}
	}
}

// scanMarkdown finds markdown images. Images inside code spans, fenced
// code and HTML blocks are not reported.
func scanMarkdown(src string) []found {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var out []found
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		img, ok := n.(*ast.Image)
		if !ok {
			return ast.WalkContinue, nil
		}
		out = append(out, found{
			url:   string(img.Destination),
			alt:   inlineText(img, source),
			shape: ShapeMarkdown,
		})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
