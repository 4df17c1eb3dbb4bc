package xpath

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ErrMalformedDocument reports XML that cannot be parsed. No partial
// extraction result is ever returned alongside it; a half-parsed document
// would yield misleading expression locations.
var ErrMalformedDocument = errors.New("malformed process document")

// Location labels for the fixed discovery strategies. Generic text-scan
// hits use the containing element's tag name instead.
const (
	LocationMapper     = "Mapper"
	LocationTransition = "Transition Condition"
	LocationConfig     = "Activity Configuration"
)

// UnknownActivity is the sentinel owning-activity name when an element
// carries no usable name attribute.
const UnknownActivity = "Unknown"

// expressionIndicators is the surface-syntax token set used by
// IsExpression. This is a heuristic, not a grammar check: it accepts false
// positives (a plain file path) and misses bare element-name tests.
var expressionIndicators = []string{
	"/", "@", "[", "]",
	"text()", "node()",
	"ancestor::", "child::", "parent::",
	"following::", "preceding::",
	"count(", "sum(", "concat(",
	"substring(", "string(",
	"$",
}

// IsExpression reports whether text heuristically looks like an XPath
// expression: at least 3 characters and at least one known indicator token.
func IsExpression(text string) bool {
	if utf8.RuneCountInString(text) < 3 {
		return false
	}
	for _, indicator := range expressionIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

// Parser extracts XPath-like expressions and process metadata from
// process-definition XML documents. Stateless after construction; one
// Parser may serve concurrent Parse calls.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads one XML document and returns its metadata and every
// discovered candidate expression. Each discovered expression carries a
// fresh unique id.
func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	root, err := decodeTree(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	return &ParseResult{
		Metadata:    extractMetadata(root),
		Expressions: extractExpressions(root),
	}, nil
}

// element is a minimal generic XML tree node. Namespace prefixes are
// dropped from element and attribute names so that process files with or
// without prefixes discover the same expressions.
type element struct {
	tag      string
	attrs    map[string]string
	text     string
	children []*element
}

// attr returns the named attribute, or fallback when it is absent.
// An attribute present with an empty value is returned as-is.
func (e *element) attr(name, fallback string) string {
	if v, ok := e.attrs[name]; ok {
		return v
	}
	return fallback
}

// decodeTree builds an element tree from a token stream. Only text that
// appears before an element's first child is recorded as that element's
// direct text, matching the usual DOM ".text" notion.
func decodeTree(r io.Reader) (*element, error) {
	decoder := xml.NewDecoder(r)

	var root *element
	var stack []*element

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			el := &element{
				tag:   t.Name.Local,
				attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, fmt.Errorf("multiple root elements")
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

		case xml.CharData:
			if len(stack) > 0 {
				current := stack[len(stack)-1]
				if len(current.children) == 0 {
					current.text += string(t)
				}
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// walk visits every element in pre-order, root included.
func walk(e *element, visit func(*element)) {
	visit(e)
	for _, child := range e.children {
		walk(child, visit)
	}
}

// descendants returns every element below root (root excluded) whose tag
// matches, in pre-order.
func descendants(root *element, tag string) []*element {
	var matched []*element
	for _, child := range root.children {
		walk(child, func(e *element) {
			if e.tag == tag {
				matched = append(matched, e)
			}
		})
	}
	return matched
}

// firstDescendant returns the first pre-order element below root with the
// given tag, or nil.
func firstDescendant(root *element, tag string) *element {
	for _, e := range descendants(root, tag) {
		return e
	}
	return nil
}

// extractMetadata performs straight attribute/child lookups. Missing
// values become defaults, never errors.
func extractMetadata(root *element) ProcessMetadata {
	md := ProcessMetadata{
		ProcessName: root.attr("name", UnknownActivity),
		Variables:   []ProcessVariable{},
		Schemas:     []string{},
	}

	if desc := firstDescendant(root, "description"); desc != nil {
		md.Description = strings.TrimSpace(desc.text)
	}

	for _, v := range descendants(root, "processVariables") {
		name := v.attr("name", "")
		if name == "" {
			continue
		}
		md.Variables = append(md.Variables, ProcessVariable{
			Name: name,
			Type: v.attr("type", ""),
		})
	}

	return md
}

// extractExpressions runs the four discovery strategies in fixed order,
// each appending to the same list. Only the final generic text scan
// deduplicates, and it compares expression text against the whole
// accumulated list; records emitted by the first three strategies are
// never suppressed.
func extractExpressions(root *element) []Expression {
	expressions := []Expression{}

	// Mapping activities: expression attribute.
	for _, m := range descendants(root, "mapping") {
		expr := strings.TrimSpace(m.attr("expression", ""))
		if expr == "" || !IsExpression(expr) {
			continue
		}
		ctx := map[string]string{
			"source": m.attr("source", ""),
			"target": m.attr("target", ""),
			"type":   m.attr("type", "mapping"),
		}
		if ref := m.attr("schemaRef", ""); ref != "" {
			ctx["schema"] = ref
		}
		expressions = append(expressions, Expression{
			ID:         uuid.NewString(),
			Expression: expr,
			Location:   LocationMapper,
			Activity:   m.attr("target", UnknownActivity),
			Context:    ctx,
		})
	}

	// Transition conditions: condition attribute.
	for _, tr := range descendants(root, "transition") {
		cond := strings.TrimSpace(tr.attr("condition", ""))
		if cond == "" || !IsExpression(cond) {
			continue
		}
		expressions = append(expressions, Expression{
			ID:         uuid.NewString(),
			Expression: cond,
			Location:   LocationTransition,
			Activity:   tr.attr("to", UnknownActivity),
			Context:    map[string]string{"type": "condition"},
		})
	}

	// Activity configuration bodies: inline text.
	for _, cfg := range descendants(root, "config") {
		text := strings.TrimSpace(cfg.text)
		if text == "" || !IsExpression(text) {
			continue
		}
		expressions = append(expressions, Expression{
			ID:         uuid.NewString(),
			Expression: text,
			Location:   LocationConfig,
			Activity:   cfg.attr("name", UnknownActivity),
			Context:    map[string]string{},
		})
	}

	// Generic text scan over every element, root included.
	walk(root, func(e *element) {
		text := strings.TrimSpace(e.text)
		if text == "" || !IsExpression(text) {
			return
		}
		for _, existing := range expressions {
			if existing.Expression == text {
				return
			}
		}
		expressions = append(expressions, Expression{
			ID:         uuid.NewString(),
			Expression: text,
			Location:   e.tag,
			Activity:   e.attr("name", UnknownActivity),
			Context:    map[string]string{},
		})
	})

	return expressions
}
