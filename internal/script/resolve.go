package script

import (
	"regexp"
	"strings"

	"github.com/fe-select/backend/internal/customer"
)

// Context carries the values the resolver may substitute into script text.
// Empty fields fall back to visible bracketed labels so the agent sees the
// gap instead of reading a silently blank line.
type Context struct {
	AgentName         string
	AgentNPN          string
	CustomerFirstName string
	CustomerLastName  string
	CustomerState     string
	CustomerPhone     string
}

// ContextFrom builds a resolver context from the agent profile and the
// current customer snapshot.
func ContextFrom(agentName, agentNPN string, data customer.Data) Context {
	return Context{
		AgentName:         agentName,
		AgentNPN:          agentNPN,
		CustomerFirstName: data.String("customer_first_name"),
		CustomerLastName:  data.String("customer_last_name"),
		CustomerState:     data.String("customer_state"),
		CustomerPhone:     data.String("customer_phone"),
	}
}

var blankRun = regexp.MustCompile(`_{3,}`)

// blankWindow is how far back Resolve looks for a keyword that disambiguates
// a bare underscore run.
const blankWindow = 40

// Resolve substitutes the script's placeholder vocabulary into text. Tokens
// are matched case-insensitively. Unrecognized text passes through untouched,
// and resolving already-resolved text is a no-op: no substituted value ever
// contains a token from the vocabulary.
func Resolve(text string, ctx Context) string {
	agentFirst := firstWord(ctx.AgentName)

	// Longer tokens first so "Mr/Mrs (customer's last name)" wins over the
	// bare last-name token it contains.
	replacements := []struct {
		token string
		value string
	}{
		{"mr/mrs (customer's last name)", honorific(ctx.CustomerLastName)},
		{"mr./mrs. (customer's last name)", honorific(ctx.CustomerLastName)},
		{"(customer's first name)", orLabel(ctx.CustomerFirstName, "[Customer First Name]")},
		{"(customer's last name)", orLabel(ctx.CustomerLastName, "[Customer Last Name]")},
		{"(customer's state)", orLabel(ctx.CustomerState, "[State]")},
		{"(customer name)", orLabel(ctx.CustomerFirstName, "[Customer First Name]")},
		{"(agent's full name)", orLabel(ctx.AgentName, "[Agent Name]")},
		{"(agent's first name)", orLabel(agentFirst, "[Agent First Name]")},
		{"(your name)", orLabel(ctx.AgentName, "[Agent Name]")},
		{"(state)", orLabel(ctx.CustomerState, "[State]")},
	}

	out := text
	for _, r := range replacements {
		out = replaceFold(out, r.token, r.value)
	}
	return resolveBlanks(out, ctx)
}

// resolveBlanks handles underscore runs with no explicit token. The preceding
// window of text decides what the blank stands for; with no keyword match the
// run is left alone rather than guessed at.
func resolveBlanks(text string, ctx Context) string {
	matches := blankRun.FindAllStringIndex(text, -1)
	if matches == nil {
		return text
	}
	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(text[prev:m[0]])
		start := m[0] - blankWindow
		if start < 0 {
			start = 0
		}
		window := strings.ToLower(text[start:m[0]])
		switch {
		case strings.Contains(window, "producer number") || strings.Contains(window, "npn"):
			b.WriteString(orLabel(ctx.AgentNPN, "[Producer Number]"))
		case strings.Contains(window, "telephone") || strings.Contains(window, "phone"):
			b.WriteString(orLabel(ctx.CustomerPhone, "[Customer Phone]"))
		default:
			b.WriteString(text[m[0]:m[1]])
		}
		prev = m[1]
	}
	b.WriteString(text[prev:])
	return b.String()
}

// replaceFold replaces every case-insensitive occurrence of token in s.
// The token vocabulary is ASCII, so folding is done bytewise against s
// itself; offsets taken from a strings.ToLower copy go stale when a rune's
// lowercase form has a different byte length.
func replaceFold(s, token, value string) string {
	idx := foldIndex(s, token)
	if idx < 0 {
		return s
	}
	var b strings.Builder
	for idx >= 0 {
		b.WriteString(s[:idx])
		b.WriteString(value)
		s = s[idx+len(token):]
		idx = foldIndex(s, token)
	}
	b.WriteString(s)
	return b.String()
}

// foldIndex is strings.Index with ASCII case folding on s. token must
// already be lowercase.
func foldIndex(s, token string) int {
	if len(token) == 0 || len(s) < len(token) {
		return -1
	}
	for i := 0; i+len(token) <= len(s); i++ {
		j := 0
		for j < len(token) && lowerASCII(s[i+j]) == token[j] {
			j++
		}
		if j == len(token) {
			return i
		}
	}
	return -1
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func orLabel(value, label string) string {
	if strings.TrimSpace(value) == "" {
		return label
	}
	return value
}

func honorific(lastName string) string {
	return "Mr./Mrs. " + orLabel(lastName, "[Customer Last Name]")
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
