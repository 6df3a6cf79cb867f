package script

import (
	"testing"
	"unicode/utf8"

	"github.com/fe-select/backend/internal/customer"
)

func fullContext() Context {
	return Context{
		AgentName:         "John Carter",
		AgentNPN:          "18834421",
		CustomerFirstName: "Mary",
		CustomerLastName:  "Johnson",
		CustomerState:     "Texas",
		CustomerPhone:     "(555) 123-4567",
	}
}

func TestResolveKnownTokens(t *testing.T) {
	ctx := fullContext()
	cases := []struct{ in, want string }{
		{"Hi, this is (agent's full name) calling.", "Hi, this is John Carter calling."},
		{"Hi, this is (agent's first name).", "Hi, this is John."},
		{"Am I speaking with (customer's first name)?", "Am I speaking with Mary?"},
		{"Thank you Mr/Mrs (customer's last name).", "Thank you Mr./Mrs. Johnson."},
		{"You're calling from (state), right?", "You're calling from Texas, right?"},
	}
	for _, c := range cases {
		if got := Resolve(c.in, ctx); got != c.want {
			t.Fatalf("Resolve(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestResolveMissingValueUsesBracketedLabel(t *testing.T) {
	got := Resolve("(customer's first name)", Context{})
	if got != "[Customer First Name]" {
		t.Fatalf("expected bracketed fallback, got %q", got)
	}
	if got == "" {
		t.Fatalf("fallback must never be empty")
	}
	got = Resolve("Thank you Mr/Mrs (customer's last name).", Context{})
	if got != "Thank you Mr./Mrs. [Customer Last Name]." {
		t.Fatalf("unexpected honorific fallback: %q", got)
	}
}

func TestResolveBlankUsesPrecedingKeywordWindow(t *testing.T) {
	ctx := fullContext()

	got := Resolve("My producer number is _____.", ctx)
	if got != "My producer number is 18834421." {
		t.Fatalf("NPN blank: %q", got)
	}
	got = Resolve("I have your telephone number as _______.", ctx)
	if got != "I have your telephone number as (555) 123-4567." {
		t.Fatalf("phone blank: %q", got)
	}
	// No keyword in the window: pass through unchanged, never guess.
	got = Resolve("Please sign here: ______", ctx)
	if got != "Please sign here: ______" {
		t.Fatalf("ambiguous blank should pass through, got %q", got)
	}
}

func TestResolveBlankKeywordOutsideWindowIgnored(t *testing.T) {
	ctx := fullContext()
	padding := "filler words that push the keyword well out of range "
	in := "phone " + padding + "____"
	if got := Resolve(in, ctx); got != in {
		t.Fatalf("keyword outside window must not trigger, got %q", got)
	}
}

func TestResolveIdempotent(t *testing.T) {
	ctx := fullContext()
	empty := Context{}
	inputs := []string{
		"Hi (customer's first name), this is (agent's full name) with Final Expense Select.",
		"My NPN is _____ and your phone is _______.",
		"Thank you Mr/Mrs (customer's last name), you're in (state).",
		"Nothing to resolve here.",
		"Please sign here: ______",
	}
	for _, in := range inputs {
		for _, c := range []Context{ctx, empty} {
			once := Resolve(in, c)
			twice := Resolve(once, c)
			if once != twice {
				t.Fatalf("not idempotent for %q: %q vs %q", in, once, twice)
			}
		}
	}
}

func TestResolveCaseInsensitiveTokens(t *testing.T) {
	got := Resolve("HI (CUSTOMER'S FIRST NAME)!", fullContext())
	if got != "HI Mary!" {
		t.Fatalf("case-insensitive match failed: %q", got)
	}
}

func TestResolveMultibyteRunesNearToken(t *testing.T) {
	ctx := Context{CustomerState: "Texas"}
	in := "İİİİİİİİİİ you live in (state) right?"
	got := Resolve(in, ctx)
	want := "İİİİİİİİİİ you live in Texas right?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("output is not valid UTF-8: %q", got)
	}
	if again := Resolve(got, ctx); again != got {
		t.Fatalf("second resolve changed text: %q vs %q", again, got)
	}
}

func TestContextFrom(t *testing.T) {
	data := customer.Data{
		"customer_first_name": "Mary",
		"customer_last_name":  "Johnson",
		"customer_state":      "Texas",
		"customer_phone":      "555-0100",
	}
	ctx := ContextFrom("John Carter", "18834421", data)
	if ctx.CustomerFirstName != "Mary" || ctx.AgentNPN != "18834421" || ctx.CustomerPhone != "555-0100" {
		t.Fatalf("unexpected context: %+v", ctx)
	}
}
