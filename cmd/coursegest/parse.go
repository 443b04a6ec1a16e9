package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/coursegest/internal/config"
	"github.com/dgallion1/coursegest/internal/engine"
	"github.com/dgallion1/coursegest/internal/images"
	"github.com/dgallion1/coursegest/internal/record"
	"github.com/dgallion1/coursegest/internal/source"
)

var parseFlags struct {
	kind       string
	docID      string
	topic      string
	format     string
	imageRoot  string
	noImages   bool
	noInfer    bool
	recordOnly bool
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse a document into an assessment or chapter record",
	Long: `Parse reads FILE (or stdin when FILE is "-"), resolves its images into
the image root and prints the parsed record with its image references and
diagnostics.

Supported files: ` + fmt.Sprint(source.SupportedExtensions()),
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	f := parseCmd.Flags()
	f.StringVarP(&parseFlags.kind, "kind", "k", "", "record kind: assessment or chapter")
	f.StringVar(&parseFlags.docID, "doc-id", "", "document id, namespaces downloaded images")
	f.StringVar(&parseFlags.topic, "topic", "", "topic label used for figure captions")
	f.StringVar(&parseFlags.format, "format", "auto", "input format: auto, text or json")
	f.StringVar(&parseFlags.imageRoot, "image-root", "", "directory for downloaded images (default from IMAGE_ROOT)")
	f.BoolVar(&parseFlags.noImages, "no-images", false, "leave image references untouched")
	f.BoolVar(&parseFlags.noInfer, "no-infer", false, "disable topic inference")
	f.BoolVar(&parseFlags.recordOnly, "record-only", false, "print only the record")
	parseCmd.MarkFlagRequired("kind")
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if parseFlags.imageRoot != "" {
		cfg.ImageRoot = parseFlags.imageRoot
	}
	if parseFlags.noInfer {
		cfg.TopicInference = false
	}
	log := newLogger()

	text, err := readSource(cmd.InOrStdin(), args[0], cfg.SourceOptions())
	if err != nil {
		return err
	}

	var resolver engine.ImageResolver
	if !parseFlags.noImages {
		resolver = images.New(cfg.ImageOptions(), log)
	}
	eng := engine.New(resolver, log, engine.WithParserOptions(cfg.ParserOptions()))

	res, err := eng.Parse(cmd.Context(), engine.Input{
		Text:       text,
		Kind:       record.Kind(parseFlags.kind),
		DocumentID: parseFlags.docID,
		TopicLabel: parseFlags.topic,
		Format:     engine.Format(parseFlags.format),
	})
	if err != nil {
		return err
	}

	if parseFlags.recordOnly {
		return writeOutput(cmd.OutOrStdout(), outputFormat, res.Record)
	}
	return writeOutput(cmd.OutOrStdout(), outputFormat, res)
}

// readSource loads FILE through the matching loader. Stdin and files with
// unknown extensions are read as plain text.
func readSource(stdin io.Reader, name string, opts source.Options) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	loader, err := source.ForFile(name, opts)
	if err != nil {
		loader = &source.TextLoader{}
	}
	doc, err := loader.Load(f, filepath.Base(name))
	if err != nil {
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	return doc.Text, nil
}
