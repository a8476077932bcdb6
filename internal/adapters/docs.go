package adapters

import (
	"go/ast"
	"regexp"
	"strings"

	"go2ts/internal/adapter"
)

// Docs rewrites Go doc comments as TSDoc: doc links become {@link},
// "Deprecated:" paragraphs become @deprecated tags and indented code blocks
// are fenced.
type Docs struct {
	*adapter.Base
}

var _ adapter.Adapter = (*Docs)(nil)

var docLink = regexp.MustCompile(`\[\*?([A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*)\]`)

const deprecatedPrefix = "Deprecated: "

// NewDocs stacks the doc comment layer on parent.
func NewDocs(parent adapter.Adapter) (*Docs, error) {
	base, err := adapter.NewBase(parent)
	if err != nil {
		return nil, err
	}

	return &Docs{Base: base}, nil
}

// AdaptDocComment implements adapter.Adapter. The parent sees the rewritten
// comment.
func (d *Docs) AdaptDocComment(node ast.Node, text string) string {
	if text == "" {
		return d.Base.AdaptDocComment(node, text)
	}

	return d.Base.AdaptDocComment(node, toTSDoc(text))
}

func toTSDoc(text string) string {
	var out []string

	inCode := false

	for _, line := range strings.Split(text, "\n") {
		code := strings.HasPrefix(line, "\t")

		switch {
		case code && !inCode:
			out = append(out, "```")
			inCode = true
		case !code && inCode && line != "":
			out = closeFence(out, true)
			inCode = false
		}

		if code {
			out = append(out, strings.TrimPrefix(line, "\t"))
			continue
		}

		if inCode {
			// blank line inside a code block
			out = append(out, line)
			continue
		}

		if strings.HasPrefix(line, deprecatedPrefix) {
			line = "@deprecated " + strings.TrimPrefix(line, deprecatedPrefix)
		}

		out = append(out, rewriteLinks(line))
	}

	if inCode {
		out = closeFence(out, false)
	}

	return strings.Join(out, "\n")
}

// closeFence ends a code block before its trailing blank lines, keeping
// them after the fence when keep is set.
func closeFence(out []string, keep bool) []string {
	n := len(out)
	for n > 0 && out[n-1] == "" {
		n--
	}

	blanks := len(out) - n
	out = append(out[:n], "```")

	if keep {
		for range blanks {
			out = append(out, "")
		}
	}

	return out
}

// rewriteLinks turns [Name] doc links into {@link Name}. Link definitions
// ("[text]: url") are left alone.
func rewriteLinks(line string) string {
	matches := docLink.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line
	}

	var b strings.Builder

	last := 0

	for _, m := range matches {
		if m[1] < len(line) && line[m[1]] == ':' {
			continue
		}

		b.WriteString(line[last:m[0]])
		b.WriteString("{@link " + line[m[2]:m[3]] + "}")
		last = m[1]
	}

	b.WriteString(line[last:])

	return b.String()
}
