package script

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type NodeType string

const (
	NodeAgentLine        NodeType = "agent_line"
	NodeInstruction      NodeType = "instruction"
	NodeInputField       NodeType = "input_field"
	NodeCustomerResponse NodeType = "customer_response"
)

type InputKind string

const (
	InputText     InputKind = "text"
	InputNumber   InputKind = "number"
	InputDate     InputKind = "date"
	InputSelect   InputKind = "select"
	InputRadio    InputKind = "radio"
	InputCheckbox InputKind = "checkbox"
	InputTextarea InputKind = "textarea"
)

// Node is one entry in the script tree. Which fields are meaningful depends
// on Type: agent_line/instruction/customer_response carry Text, input_field
// carries the id/label/input metadata plus optional branching.
type Node struct {
	Type        NodeType          `json:"type"`
	Text        string            `json:"text,omitempty"`
	ID          string            `json:"id,omitempty"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Required    bool              `json:"required,omitempty"`
	InputKind   InputKind         `json:"inputType,omitempty"`
	Options     []string          `json:"options,omitempty"`
	Branching   map[string][]Node `json:"branching,omitempty"`
}

type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Order   int    `json:"order"`
	Content []Node `json:"content"`
}

type Document struct {
	Sections []Section `json:"sections"`
}

// Parse decodes and validates a script document. Sections come back sorted by
// their declared order. Validation problems are returned alongside the
// document: the script is untrusted static content and a document with
// configuration mistakes still has to render, so callers log the problems and
// keep going.
func Parse(b []byte) (*Document, []error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, []error{err}
	}
	sort.SliceStable(doc.Sections, func(i, j int) bool {
		return doc.Sections[i].Order < doc.Sections[j].Order
	})
	return &doc, validate(&doc)
}

func Load(path string) (*Document, []error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{err}
	}
	return Parse(b)
}

func validate(doc *Document) []error {
	var problems []error
	seen := map[string]string{}

	var walk func(sectionID string, nodes []Node)
	walk = func(sectionID string, nodes []Node) {
		for _, n := range nodes {
			switch n.Type {
			case NodeAgentLine, NodeInstruction, NodeCustomerResponse:
			case NodeInputField:
				if n.ID == "" {
					problems = append(problems, fmt.Errorf("section %s: input_field without id", sectionID))
					continue
				}
				if prev, ok := seen[n.ID]; ok {
					problems = append(problems, fmt.Errorf("duplicate field id %q in sections %s and %s", n.ID, prev, sectionID))
				} else {
					seen[n.ID] = sectionID
				}
				for _, key := range sortedBranchKeys(n.Branching) {
					walk(sectionID, n.Branching[key])
				}
			default:
				problems = append(problems, fmt.Errorf("section %s: unknown node type %q", sectionID, n.Type))
			}
		}
	}
	for _, s := range doc.Sections {
		walk(s.ID, s.Content)
	}
	return problems
}

func (d *Document) Section(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// FieldIDs lists every input field id, branches included. Branch keys are
// visited in sorted order so the result is stable.
func (d *Document) FieldIDs() []string {
	var ids []string
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			if n.Type == NodeInputField && n.ID != "" {
				ids = append(ids, n.ID)
			}
			for _, key := range sortedBranchKeys(n.Branching) {
				walk(n.Branching[key])
			}
		}
	}
	for _, s := range d.Sections {
		walk(s.Content)
	}
	return ids
}

func sortedBranchKeys(branching map[string][]Node) []string {
	if len(branching) == 0 {
		return nil
	}
	keys := make([]string, 0, len(branching))
	for k := range branching {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
