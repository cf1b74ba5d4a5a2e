package sqlstrategy

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/rl-optimizer/internal/objective"
)

func salesObjective() objective.Objective {
	return objective.Objective{
		Intent: "sales by region",
		Scope: objective.Scope{
			Table:     "sales",
			Filters:   map[string]string{"region": "EMEA"},
			Timeframe: "order_date >= '2026-01-01'",
			Entities:  map[string]string{"customer": "customer_id"},
		},
		Constraints: objective.Constraints{
			RequiredFields:  []string{"region", "amount"},
			ForbiddenFields: []string{"ssn"},
		},
	}
}

func TestWantedAggregation(t *testing.T) {
	cases := []struct {
		intent string
		want   string
	}{
		{"how many orders last month", "COUNT"},
		{"number of customers", "COUNT"},
		{"total sales by region", "SUM"},
		{"average order value", "AVG"},
		{"list all orders", ""},
	}
	for _, c := range cases {
		if got := wantedAggregation(c.intent); got != c.want {
			t.Fatalf("wantedAggregation(%q) = %q, want %q", c.intent, got, c.want)
		}
	}
}

func TestAddField(t *testing.T) {
	o := salesObjective()
	got := addField("SELECT region FROM sales", o)
	if got != "SELECT region, amount FROM sales" {
		t.Fatalf("unexpected result: %q", got)
	}

	// Nothing missing: unchanged.
	if out := addField(got, o); out != got {
		t.Fatalf("complete candidate should pass through, got %q", out)
	}

	// SELECT * already covers everything worth adding to.
	star := "SELECT * FROM sales"
	if out := addField(star, o); out != star {
		t.Fatalf("star select should pass through, got %q", out)
	}

	// Missing structural anchor: unchanged.
	bad := "UPDATE sales SET x = 1"
	if out := addField(bad, o); out != bad {
		t.Fatalf("anchorless candidate should pass through, got %q", out)
	}
}

func TestRemoveField(t *testing.T) {
	o := salesObjective()
	got := removeField("SELECT region, ssn, amount FROM sales", o)
	if got != "SELECT region, amount FROM sales" {
		t.Fatalf("unexpected result: %q", got)
	}

	// Never empties the select list.
	only := "SELECT ssn FROM sales"
	if out := removeField(only, o); out != only {
		t.Fatalf("sole field must survive, got %q", out)
	}
}

func TestTransformsPreserveSpacing(t *testing.T) {
	o := salesObjective()
	o.Intent = "how many sales"

	for name, got := range map[string]string{
		"add_field":       addField("SELECT region FROM sales", o),
		"remove_field":    removeField("SELECT region, ssn, amount FROM sales", o),
		"add_aggregation": addAggregation("SELECT region FROM sales", o),
		"add_filter":      addFilter("SELECT region, amount FROM sales", o),
	} {
		if strings.Contains(got, "  ") {
			t.Fatalf("%s emitted a double space: %q", name, got)
		}
	}
}

func TestAddFilter(t *testing.T) {
	o := salesObjective()

	got := addFilter("SELECT region, amount FROM sales", o)
	want := "SELECT region, amount FROM sales WHERE region = 'EMEA' AND order_date >= '2026-01-01'"
	if got != want {
		t.Fatalf("unexpected result:\n got %q\nwant %q", got, want)
	}

	// Existing WHERE: unchanged.
	if out := addFilter(got, o); out != got {
		t.Fatalf("filtered candidate should pass through, got %q", out)
	}

	// Inserts before trailing clauses.
	got = addFilter("SELECT region FROM sales GROUP BY region", o)
	want = "SELECT region FROM sales WHERE region = 'EMEA' AND order_date >= '2026-01-01' GROUP BY region"
	if got != want {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestAddAggregation(t *testing.T) {
	o := salesObjective()
	o.Intent = "how many sales"
	got := addAggregation("SELECT region FROM sales", o)
	if got != "SELECT COUNT(*) FROM sales" {
		t.Fatalf("unexpected count: %q", got)
	}

	o.Intent = "total amount by region"
	got = addAggregation("SELECT region FROM sales", o)
	if got != "SELECT SUM(region) FROM sales" {
		t.Fatalf("unexpected sum: %q", got)
	}

	o.Intent = "list orders"
	plain := "SELECT region FROM sales"
	if out := addAggregation(plain, o); out != plain {
		t.Fatalf("no wanted aggregation should pass through, got %q", out)
	}
}

func TestFixEntityMapping(t *testing.T) {
	o := salesObjective()
	got := fixEntityMapping("SELECT customer FROM sales WHERE customer = 'Acme'", o)
	if got != "SELECT customer_id FROM sales WHERE customer_id = 'Acme'" {
		t.Fatalf("unexpected result: %q", got)
	}

	// Quoted occurrences stay as data.
	got = fixEntityMapping("SELECT customer_id FROM sales WHERE name = 'customer'", o)
	if got != "SELECT customer_id FROM sales WHERE name = 'customer'" {
		t.Fatalf("quoted literal rewritten: %q", got)
	}
}

func TestTransformsArePure(t *testing.T) {
	o := salesObjective()
	in := "SELECT region FROM sales"
	first := addField(in, o)
	second := addField(in, o)
	if first != second {
		t.Fatalf("same input must give same output: %q != %q", first, second)
	}
	if in != "SELECT region FROM sales" {
		t.Fatal("input mutated")
	}
}
