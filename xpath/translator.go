package xpath

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultMaxDepth bounds recursive rendering of nested condition and
// predicate expressions. Beyond the limit the generic fallback sentence is
// returned instead of recursing further.
const DefaultMaxDepth = 32

// operatorEntry maps a comparison or logical token to its rendered phrase.
// Declaration order carries first-match semantics: condition splitting
// scans the comparison entries in order, so `a >= b` splits at `=`.
type operatorEntry struct {
	token  string
	phrase string
}

// comparisonOperatorCount is how many leading operator table entries are
// comparison tokens usable for condition splitting. The trailing logical
// entries participate only in the confidence heuristic.
const comparisonOperatorCount = 6

var operatorTable = []operatorEntry{
	{"=", "equals"},
	{"!=", "does not equal"},
	{">", "is greater than"},
	{">=", "is greater than or equal to"},
	{"<", "is less than"},
	{"<=", "is less than or equal to"},
	{"and", "AND"},
	{"or", "OR"},
	{"not", "NOT"},
}

// functionEntry maps an XPath function name to its verb phrase plus a
// precompiled argument matcher (`name(` up to the first `)`).
type functionEntry struct {
	name    string
	phrase  string
	pattern *regexp.Regexp
}

var functionTable = buildFunctionTable()

func buildFunctionTable() []functionEntry {
	// Order matters: rendering scans this list and stops at the first
	// function name found in the expression.
	entries := []functionEntry{
		{name: "count", phrase: "count the number of"},
		{name: "sum", phrase: "calculate the sum of"},
		{name: "concat", phrase: "combine"},
		{name: "substring", phrase: "extract part of"},
		{name: "string", phrase: "convert to text"},
		{name: "number", phrase: "convert to number"},
		{name: "boolean", phrase: "convert to true/false"},
		{name: "contains", phrase: "contains"},
		{name: "starts-with", phrase: "starts with"},
		{name: "string-length", phrase: "get the length of"},
		{name: "normalize-space", phrase: "remove extra spaces from"},
		{name: "translate", phrase: "replace characters in"},
		{name: "upper-case", phrase: "convert to uppercase"},
		{name: "lower-case", phrase: "convert to lowercase"},
	}
	for i := range entries {
		entries[i].pattern = regexp.MustCompile(regexp.QuoteMeta(entries[i].name) + `\(([^)]+)\)`)
	}
	return entries
}

var (
	camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)
	andSplitter   = regexp.MustCompile(`(?i)\s+and\s+`)
	orSplitter    = regexp.MustCompile(`(?i)\s+or\s+`)
)

// Translator renders XPath-like expressions as approximate plain-language
// sentences. Pure and stateless after construction; safe for concurrent
// use. Translation never fails: any input yields at least a fallback
// sentence.
type Translator struct {
	operators []operatorEntry
	functions []functionEntry
	maxDepth  int
}

// NewTranslator creates a Translator with the default recursion limit.
func NewTranslator() *Translator {
	return NewTranslatorWithLimit(DefaultMaxDepth)
}

// NewTranslatorWithLimit creates a Translator whose recursive rendering of
// nested conditions and predicates stops at maxDepth levels.
func NewTranslatorWithLimit(maxDepth int) *Translator {
	return &Translator{
		operators: operatorTable,
		functions: functionTable,
		maxDepth:  maxDepth,
	}
}

// Translate renders one expression. ctx is informational and only feeds
// the data-flow summary; nil is fine.
func (t *Translator) Translate(expr string, ctx map[string]string) *Translation {
	expr = strings.TrimSpace(expr)
	exprType := t.Classify(expr)

	var description string
	switch exprType {
	case TypeVariable:
		description = t.renderVariable(expr)
	case TypeCondition:
		description = t.renderCondition(expr, 0)
	case TypeFunction:
		description = t.renderFunction(expr)
	default:
		description = t.renderSelection(expr)
	}

	return &Translation{
		Description: description,
		Steps:       t.Steps(expr),
		Confidence:  t.Confidence(expr),
		Type:        exprType,
		DataFlow:    t.dataFlow(expr, ctx),
	}
}

// Classify assigns the coarse expression category. Precedence: variable
// marker, then comparison/logical condition, then known function call,
// then path selection as the default.
func (t *Translator) Classify(expr string) ExprType {
	if strings.HasPrefix(expr, "$") {
		return TypeVariable
	}
	for _, op := range t.operators[:comparisonOperatorCount] {
		if strings.Contains(expr, op.token) {
			return TypeCondition
		}
	}
	if strings.Contains(expr, " and ") || strings.Contains(expr, " or ") {
		return TypeCondition
	}
	for _, fn := range t.functions {
		if strings.Contains(expr, fn.name+"(") {
			return TypeFunction
		}
	}
	return TypeSelection
}

// renderVariable renders `$name` and `$name/path/segments` references.
func (t *Translator) renderVariable(expr string) string {
	name := strings.TrimLeft(expr, "$")
	if !strings.Contains(name, "/") {
		return fmt.Sprintf("Use the value of variable '%s'", name)
	}

	parts := strings.Split(name, "/")
	segments := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		segments = append(segments, humanize(p))
	}
	return fmt.Sprintf("Get %s from variable '%s'", strings.Join(segments, " → "), parts[0])
}

// renderCondition renders comparisons and and/or chains, recursing into
// sub-conditions with a depth guard.
func (t *Translator) renderCondition(expr string, depth int) string {
	if depth >= t.maxDepth {
		return t.renderGeneric(expr)
	}

	for _, op := range t.operators[:comparisonOperatorCount] {
		idx := strings.Index(expr, op.token)
		if idx < 0 {
			continue
		}
		left := t.renderOperand(expr[:idx])
		right := t.renderOperand(expr[idx+len(op.token):])
		return fmt.Sprintf("Check if %s %s %s", left, op.phrase, right)
	}

	lower := strings.ToLower(expr)
	if strings.Contains(lower, " and ") {
		return t.renderLogicalChain(expr, andSplitter, " AND ", depth)
	}
	if strings.Contains(lower, " or ") {
		return t.renderLogicalChain(expr, orSplitter, " OR ", depth)
	}

	return "Evaluate condition: " + expr
}

func (t *Translator) renderLogicalChain(expr string, splitter *regexp.Regexp, joiner string, depth int) string {
	parts := splitter.Split(expr, -1)
	rendered := make([]string, 0, len(parts))
	for _, part := range parts {
		rendered = append(rendered, t.renderCondition(strings.TrimSpace(part), depth+1))
	}
	return strings.Join(rendered, joiner)
}

// renderOperand renders one side of a comparison: quoted string literals
// become the bare literal, numbers pass through, variables are named, and
// anything else is treated as a path name.
func (t *Translator) renderOperand(operand string) string {
	operand = strings.TrimSpace(operand)

	if len(operand) >= 2 {
		if (strings.HasPrefix(operand, "'") && strings.HasSuffix(operand, "'")) ||
			(strings.HasPrefix(operand, `"`) && strings.HasSuffix(operand, `"`)) {
			return strings.Trim(operand, `'"`)
		}
	}
	if isNumeric(operand) {
		return operand
	}
	if strings.HasPrefix(operand, "$") {
		return "variable " + operand[1:]
	}
	return humanize(operand)
}

// isNumeric reports digits with at most one decimal point.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	dots := 0
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// renderFunction renders the first tabled function call found in the
// expression. Two-argument families (contains, starts-with) require both
// arguments; otherwise scanning continues to later table entries.
func (t *Translator) renderFunction(expr string) string {
	for _, fn := range t.functions {
		match := fn.pattern.FindStringSubmatch(expr)
		if match == nil {
			continue
		}
		args := match[1]

		switch fn.name {
		case "count", "sum", "string-length":
			return capitalizeFirst(fn.phrase) + " " + humanizeArgs(args)
		case "concat":
			parts := strings.Split(args, ",")
			cleaned := make([]string, 0, len(parts))
			for _, p := range parts {
				cleaned = append(cleaned, strings.Trim(strings.TrimSpace(p), `'"`))
			}
			return "Combine: " + strings.Join(cleaned, " + ")
		case "substring":
			return "Extract part of " + humanizeArgs(args)
		case "contains", "starts-with":
			parts := strings.SplitN(args, ",", 2)
			if len(parts) != 2 {
				continue
			}
			subject := strings.Trim(strings.TrimSpace(parts[0]), `'"`)
			needle := strings.Trim(strings.TrimSpace(parts[1]), `'"`)
			return fmt.Sprintf("Check if %s %s '%s'", subject, fn.phrase, needle)
		default:
			return capitalizeFirst(fn.phrase) + " " + humanizeArgs(args)
		}
	}
	return "Apply function: " + expr
}

// renderSelection renders path expressions segment by segment.
func (t *Translator) renderSelection(expr string) string {
	segments := splitPath(expr)
	if len(segments) == 0 {
		return "Select the root element"
	}

	rendered := make([]string, 0, len(segments))
	for _, segment := range segments {
		switch {
		case strings.Contains(segment, "["):
			base, predicate, _ := strings.Cut(segment, "[")
			predicate = strings.TrimRight(predicate, "]")
			rendered = append(rendered, fmt.Sprintf("%s where %s", humanize(base), t.renderPredicate(predicate, 0)))
		case strings.HasPrefix(segment, "@"):
			rendered = append(rendered, fmt.Sprintf("the %s attribute", humanize(segment[1:])))
		case segment == "text()":
			rendered = append(rendered, "the text content")
		default:
			rendered = append(rendered, humanize(segment))
		}
	}

	if len(rendered) == 1 {
		return "Select " + rendered[0]
	}
	return "Navigate to: " + strings.Join(rendered, " → ")
}

// renderPredicate renders the text inside `[...]`: positions, last(), and
// embedded conditions. Unrecognized predicates pass through unchanged.
func (t *Translator) renderPredicate(predicate string, depth int) string {
	if depth >= t.maxDepth {
		return t.renderGeneric(predicate)
	}
	if isAllDigits(predicate) {
		return "position " + predicate
	}
	if predicate == "last()" {
		return "the last item"
	}
	for _, op := range t.operators[:comparisonOperatorCount] {
		if strings.Contains(predicate, op.token) {
			return t.renderCondition(predicate, depth+1)
		}
	}
	return predicate
}

// renderGeneric is the fallback sentence, reachable only from the depth
// guard on recursive rendering.
func (t *Translator) renderGeneric(expr string) string {
	return "XPath expression: " + humanize(expr)
}

// Steps breaks a path expression into numbered navigation instructions.
// Non-path expressions (no slash, or variable references) produce an empty
// list.
func (t *Translator) Steps(expr string) []string {
	steps := []string{}
	expr = strings.TrimSpace(expr)
	if !strings.Contains(expr, "/") || strings.HasPrefix(expr, "$") {
		return steps
	}

	for i, segment := range splitPath(expr) {
		switch {
		case strings.HasPrefix(segment, "@"):
			steps = append(steps, fmt.Sprintf("Step %d: Access the %s attribute", i+1, humanize(segment[1:])))
		case strings.Contains(segment, "["):
			base, _, _ := strings.Cut(segment, "[")
			steps = append(steps, fmt.Sprintf("Step %d: Select %s with specific criteria", i+1, humanize(base)))
		default:
			steps = append(steps, fmt.Sprintf("Step %d: Navigate to %s", i+1, humanize(segment)))
		}
	}
	return steps
}

// Confidence maps syntactic complexity to high/medium/low. The bands are
// evaluated in order and are mutually exclusive: the high check first,
// then the low check, with medium as the default. The "no operator" clause
// tests every operator-table token as a plain substring, bare and/or/not
// included; that imprecision is frozen for output compatibility.
func (t *Translator) Confidence(expr string) string {
	hasOperator := false
	for _, op := range t.operators {
		if strings.Contains(expr, op.token) {
			hasOperator = true
			break
		}
	}

	if strings.Count(expr, "/") <= 2 && !strings.Contains(expr, "[") && !hasOperator {
		return ConfidenceHigh
	}
	if strings.Count(expr, "[") > 2 || strings.Count(expr, "(") > 3 {
		return ConfidenceLow
	}
	return ConfidenceMedium
}

// dataFlow derives the coarse source/target/operation summary from context
// and classification.
func (t *Translator) dataFlow(expr string, ctx map[string]string) DataFlow {
	flow := DataFlow{
		Source:    UnknownActivity,
		Target:    UnknownActivity,
		Operation: t.Classify(expr),
	}
	if s := ctx["source"]; s != "" {
		flow.Source = s
	}
	if target := ctx["target"]; target != "" {
		flow.Target = target
	}
	return flow
}

// splitPath splits on '/', discarding empty segments so leading `//`
// collapses away.
func splitPath(expr string) []string {
	var segments []string
	for _, part := range strings.Split(strings.TrimLeft(expr, "/"), "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// humanize normalizes a technical identifier into lowercase
// space-separated words: namespace prefix dropped, camelCase boundaries
// split, underscores and hyphens become spaces.
func humanize(name string) string {
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	name = camelBoundary.ReplaceAllString(name, "$1 $2")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return "unknown"
	}
	return name
}

// humanizeArgs humanizes a function argument. Path arguments are rendered
// segment by segment so `//Items/Item` reads "items item".
func humanizeArgs(args string) string {
	if !strings.Contains(args, "/") {
		return humanize(args)
	}
	segments := splitPath(args)
	humanized := make([]string, 0, len(segments))
	for _, s := range segments {
		humanized = append(humanized, humanize(s))
	}
	if len(humanized) == 0 {
		return humanize(args)
	}
	return strings.Join(humanized, " ")
}

// capitalizeFirst uppercases the first ASCII letter only; table phrases
// are already lowercase.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// isAllDigits reports a non-empty all-digit string.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
