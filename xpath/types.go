package xpath

// ExprType is the coarse category assigned to an expression before rendering.
// Classification is closed: Classify only ever returns one of the four
// concrete categories. TypeGeneric labels the depth-guard fallback sentence
// and is never a classifier outcome.
type ExprType string

const (
	TypeVariable  ExprType = "variable"
	TypeCondition ExprType = "condition"
	TypeFunction  ExprType = "function"
	TypeSelection ExprType = "selection"
	TypeGeneric   ExprType = "generic"
)

// Confidence bands for a translation. Heuristic and complexity-derived,
// not a statistical measure.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Expression is one discovered candidate XPath-like string plus its
// location metadata.
type Expression struct {
	ID         string            `json:"id"`
	Expression string            `json:"expression"`
	Location   string            `json:"location"`
	Activity   string            `json:"activity"`
	Context    map[string]string `json:"context"`
}

// DataFlow is the coarse source/target/operation triple attached to a
// translation for downstream display.
type DataFlow struct {
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Operation ExprType `json:"operation"`
}

// Translation is the rendered plain-language form of one expression.
type Translation struct {
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
	Confidence  string   `json:"confidence"`
	Type        ExprType `json:"type"`
	DataFlow    DataFlow `json:"data_flow"`
}

// ProcessVariable is a declared process-level variable.
type ProcessVariable struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ProcessMetadata is descriptive process-level information. It is not
// consumed by the translator.
type ProcessMetadata struct {
	ProcessName string            `json:"process_name"`
	Description string            `json:"description"`
	Variables   []ProcessVariable `json:"variables"`
	Schemas     []string          `json:"schemas"`
}

// ParseResult is the outcome of one extraction pass over a document.
type ParseResult struct {
	Metadata    ProcessMetadata `json:"metadata"`
	Expressions []Expression    `json:"expressions"`
}
