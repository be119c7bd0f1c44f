// Command readability extracts readable article content from an HTML file
// or standard input, and prints the result as JSON, HTML, or plain text.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcreader/readability"
)

var (
	inputPath         string
	outputPath        string
	format            string
	charThreshold     int
	nbTopCandidates   int
	maxElemsToParse   int
	keepClasses       bool
	classesToPreserve []string
	disableJSONLD     bool
	allowedVideoHost    string
	baseURI             string
	linkDensityModifier float64
	metadataOnly        bool
	debug               bool
)

type jsonOutput struct {
	Title         string `json:"title"`
	Byline        string `json:"byline"`
	Dir           string `json:"dir"`
	Lang          string `json:"lang"`
	Content       string `json:"content"`
	TextContent   string `json:"textContent"`
	Length        int    `json:"length"`
	Excerpt       string `json:"excerpt"`
	SiteName      string `json:"siteName"`
	PublishedTime string `json:"publishedTime"`
}

var rootCmd = &cobra.Command{
	Use:   "readability",
	Short: "Extract the readable article from an HTML document.",
	Long: `readability reads an HTML document (file or stdin), runs the
Readability extraction pipeline, and prints the result as JSON, HTML, or
plain text.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&inputPath, "input", "-", "input HTML file path ('-' for stdin)")
	rootCmd.Flags().StringVar(&outputPath, "output", "-", "output file path ('-' for stdout)")
	rootCmd.Flags().StringVar(&format, "format", "json", "output format: json, html, or text")
	rootCmd.Flags().IntVar(&charThreshold, "char-threshold", 0, "minimum article text length (0 = default)")
	rootCmd.Flags().IntVar(&nbTopCandidates, "nb-top-candidates", 0, "number of top candidates considered (0 = default)")
	rootCmd.Flags().IntVar(&maxElemsToParse, "max-elems-to-parse", 0, "abort if the document has more elements (0 = unlimited)")
	rootCmd.Flags().BoolVar(&keepClasses, "keep-classes", false, "keep every class attribute instead of pruning to classes-to-preserve")
	rootCmd.Flags().StringArrayVar(&classesToPreserve, "classes-to-preserve", nil, "class names to keep when keep-classes is false (repeatable)")
	rootCmd.Flags().BoolVar(&disableJSONLD, "disable-jsonld", false, "skip JSON-LD metadata extraction")
	rootCmd.Flags().StringVar(&allowedVideoHost, "allowed-video-regex", "", "regex of iframe/object sources to preserve as video embeds")
	rootCmd.Flags().StringVar(&baseURI, "base-uri", "", "base URI for resolving relative href/src/srcset")
	rootCmd.Flags().Float64Var(&linkDensityModifier, "link-density-modifier", 0, "slack added to link-density cutoffs during conditional cleaning")
	rootCmd.Flags().BoolVar(&metadataOnly, "metadata-only", false, "extract metadata only, skipping article content")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "emit debug trace to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	out := strings.ToLower(format)
	if out != "json" && out != "html" && out != "text" {
		return fmt.Errorf("invalid --format %q: must be json, html, or text", format)
	}

	htmlBytes, err := readInput(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	opts := readability.NewOptions()
	opts.Debug = debug
	opts.DisableJSONLD = disableJSONLD
	opts.KeepClasses = keepClasses
	opts.BaseURI = baseURI
	opts.LinkDensityModifier = linkDensityModifier
	opts.Extraction = !metadataOnly
	if charThreshold > 0 {
		opts.CharThreshold = charThreshold
	}
	if nbTopCandidates > 0 {
		opts.NbTopCandidates = nbTopCandidates
	}
	if maxElemsToParse > 0 {
		opts.MaxElemsToParse = maxElemsToParse
	}
	if len(classesToPreserve) > 0 {
		opts.ClassesToPreserve = classesToPreserve
	}
	if allowedVideoHost != "" {
		re, err := regexp.Compile(allowedVideoHost)
		if err != nil {
			return fmt.Errorf("invalid --allowed-video-regex: %w", err)
		}
		opts.AllowedVideoRegex = re
	}

	doc, err := readability.NewFromHTML(string(htmlBytes), opts)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}

	article, err := doc.Parse()
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	rendered, err := render(article, out)
	if err != nil {
		return err
	}

	return writeOutput(outputPath, rendered)
}

func render(article *readability.Article, format string) ([]byte, error) {
	switch format {
	case "html":
		return []byte(article.ContentHTML()), nil
	case "text":
		return []byte(article.TextContent), nil
	default:
		payload := jsonOutput{
			Title:         article.Title,
			Byline:        article.Byline,
			Dir:           article.Dir,
			Lang:          article.Lang,
			Content:       article.ContentHTML(),
			TextContent:   article.TextContent,
			Length:        article.Length,
			Excerpt:       article.Excerpt,
			SiteName:      article.SiteName,
			PublishedTime: article.PublishedTime,
		}
		return json.MarshalIndent(payload, "", "  ")
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
