package source

import (
	"bufio"
	"io"
	"strings"
)

// TextLoader handles plain text, markdown and JSON payloads. Lines are kept
// verbatim; runs of blank lines collapse to one.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		b     strings.Builder
		blank bool
	)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			blank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
			if blank {
				b.WriteString("\n")
			}
		}
		blank = false
		b.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &Document{Title: titleFromName(filename), Text: b.String()}, nil
}
