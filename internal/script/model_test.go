package script

import (
	"reflect"
	"testing"
)

const sampleDoc = `{
  "sections": [
    {"id": "rapport", "title": "Building Rapport", "order": 2, "content": [
      {"type": "input_field", "id": "marital_status", "label": "Marital status", "inputType": "select", "options": ["Married", "Single", "Widowed"]}
    ]},
    {"id": "intro", "title": "Introduction", "order": 1, "content": [
      {"type": "agent_line", "text": "Hi, this is (agent's first name)."},
      {"type": "input_field", "id": "customer_first_name", "label": "First name", "inputType": "text", "required": true,
        "branching": {"": []}}
    ]}
  ]
}`

func TestParseSortsSectionsByOrder(t *testing.T) {
	doc, problems := Parse([]byte(sampleDoc))
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
	if doc.Sections[0].ID != "intro" || doc.Sections[1].ID != "rapport" {
		t.Fatalf("sections not sorted by order: %s, %s", doc.Sections[0].ID, doc.Sections[1].ID)
	}
}

func TestParseReportsDuplicateAndMissingIDs(t *testing.T) {
	bad := `{"sections": [{"id": "s1", "title": "S1", "order": 1, "content": [
		{"type": "input_field", "id": "age", "label": "Age"},
		{"type": "input_field", "id": "age", "label": "Age again"},
		{"type": "input_field", "label": "No id"},
		{"type": "mystery", "text": "?"}
	]}]}`
	doc, problems := Parse([]byte(bad))
	if doc == nil {
		t.Fatalf("document must still load despite config errors")
	}
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", problems)
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	doc, problems := Parse([]byte(`{"sections": [`))
	if doc != nil || len(problems) == 0 {
		t.Fatalf("expected decode failure")
	}
}

func TestFieldIDsWalksBranches(t *testing.T) {
	doc := &Document{Sections: []Section{{ID: "s", Content: []Node{
		{Type: NodeInputField, ID: "a", Branching: map[string][]Node{
			"Yes": {{Type: NodeInputField, ID: "b"}},
			"No":  {{Type: NodeInputField, ID: "c"}},
		}},
	}}}}
	got := doc.FieldIDs()
	want := []string{"a", "c", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSectionLookup(t *testing.T) {
	doc, _ := Parse([]byte(sampleDoc))
	if _, ok := doc.Section("rapport"); !ok {
		t.Fatalf("expected rapport section")
	}
	if _, ok := doc.Section("nope"); ok {
		t.Fatalf("unexpected section")
	}
}
