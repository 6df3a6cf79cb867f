package script

import (
	"github.com/fe-select/backend/internal/customer"
)

// Item is one displayable entry of a rendered section. Level is 0 for
// top-level nodes and grows by one for every expanded branch.
type Item struct {
	Type        NodeType  `json:"type"`
	Level       int       `json:"level"`
	Text        string    `json:"text,omitempty"`
	FieldID     string    `json:"field_id,omitempty"`
	Label       string    `json:"label,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required,omitempty"`
	InputKind   InputKind `json:"input_type,omitempty"`
	Options     []string  `json:"options,omitempty"`
	Value       any       `json:"value,omitempty"`
}

type RenderResult struct {
	Items              []Item   `json:"items"`
	RequiredIncomplete []string `json:"required_incomplete"`
	Complete           bool     `json:"complete"`
}

// Render flattens a section against the current customer data snapshot.
// For an answered input field exactly one branch is expanded: the one keyed
// by the field's current value (membership for multi-select answers). Nothing
// is cached on the nodes; every call re-derives visibility from the snapshot,
// so the result is deterministic for a given (section, data) pair.
//
// Required fields are collected only over visible nodes: a required field
// inside an unmatched branch does not block completion.
func Render(section Section, data customer.Data, resolve func(string) string) RenderResult {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}
	res := RenderResult{Items: []Item{}, RequiredIncomplete: []string{}}
	renderNodes(section.Content, 0, data, resolve, &res)
	res.Complete = len(res.RequiredIncomplete) == 0
	return res
}

func renderNodes(nodes []Node, level int, data customer.Data, resolve func(string) string, res *RenderResult) {
	for _, n := range nodes {
		switch n.Type {
		case NodeAgentLine, NodeInstruction, NodeCustomerResponse:
			res.Items = append(res.Items, Item{
				Type:  n.Type,
				Level: level,
				Text:  resolve(n.Text),
			})
		case NodeInputField:
			if n.ID == "" {
				// Config error in the document; degrade, never fail a render.
				continue
			}
			res.Items = append(res.Items, Item{
				Type:        NodeInputField,
				Level:       level,
				FieldID:     n.ID,
				Label:       resolve(n.Label),
				Placeholder: n.Placeholder,
				Required:    n.Required,
				InputKind:   n.InputKind,
				Options:     n.Options,
				Value:       data[n.ID],
			})
			if n.Required && !data.Answered(n.ID) {
				res.RequiredIncomplete = append(res.RequiredIncomplete, n.ID)
			}
			if branch, ok := matchBranch(n, data); ok {
				renderNodes(branch, level+1, data, resolve, res)
			}
		}
	}
}

// matchBranch picks the branch keyed by the field's current value. An
// unanswered field never matches; neither does a value with no branch key.
func matchBranch(n Node, data customer.Data) ([]Node, bool) {
	if len(n.Branching) == 0 || !data.Answered(n.ID) {
		return nil, false
	}
	if list := data.List(n.ID); list != nil {
		for _, key := range sortedBranchKeys(n.Branching) {
			for _, v := range list {
				if v == key {
					return n.Branching[key], true
				}
			}
		}
		return nil, false
	}
	branch, ok := n.Branching[data.String(n.ID)]
	return branch, ok
}

// VisibleRequired reports the currently required-but-unanswered fields across
// the whole document.
func VisibleRequired(doc *Document, data customer.Data) []string {
	var out []string
	for _, s := range doc.Sections {
		r := Render(s, data, nil)
		out = append(out, r.RequiredIncomplete...)
	}
	return out
}
