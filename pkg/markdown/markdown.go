package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Renderer converts post Markdown into sanitized HTML and plain text.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

var blankLines = regexp.MustCompile(`\n\s*\n`)

func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	sanitizer.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &Renderer{md: md, sanitizer: sanitizer}
}

// Render returns sanitized HTML for the given Markdown. Empty input renders
// to an empty string.
func (r *Renderer) Render(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return string(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// WordCount counts the non-space characters of the readable text. Code
// blocks, inline code and images are not counted.
func (r *Renderer) WordCount(source string) int {
	plain := r.plainText(source, false)
	n := 0
	for _, ch := range plain {
		if !unicode.IsSpace(ch) {
			n++
		}
	}
	return n
}

// Preview returns the readable text of a post, truncated to limit runes.
// A limit of zero or less returns the whole text.
func (r *Renderer) Preview(source string, limit int) string {
	plain := strings.TrimSpace(blankLines.ReplaceAllString(r.plainText(source, true), "\n"))
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

func (r *Renderer) plainText(source string, keepInlineCode bool) string {
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.Image, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			if !keepInlineCode {
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			if entering {
				sb.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					sb.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				sb.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				sb.Write(node.Label(src))
			}
		}
		if !entering && n.Type() == ast.TypeBlock {
			sb.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
