package forms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/fe-select/backend/internal/customer"
)

func sampleData() customer.Data {
	return customer.Data{
		"customer_first_name": "Mary",
		"customer_last_name":  "Johnson",
		"customer_phone":      "555-0100",
		"customer_state":      "TX",
		"customer_age":        float64(67),
		"tobacco_use":         "Yes",
		"heart_problems":      "Yes",
		"diabetes":            "No",
		"height":              "5'4",
		"weight":              float64(150),
		"medications":         []any{"Lisinopril", "Metformin"},
		"coverage_amount":     float64(10000),
	}
}

func TestTransformBasics(t *testing.T) {
	got := Transform(sampleData(), "REF-1")

	cases := map[string]string{
		"reference_id":      "REF-1",
		"insured_name":      "Mary Johnson",
		"telephone_number":  "555-0100",
		"tobacco_y_or_n":    "Y",
		"plan_type":         "TBD",
		"age":               "67",
		"face_amount":       "10000",
		"summary_ht_wt":     "5'4 / 150",
		"summary_meds":      "Lisinopril, Metformin",
		"rop_yes_questions": "Q1: Tobacco Use, Q2: Heart Problems",
		"summary_health":    "Heart",
	}
	for k, want := range cases {
		if got[k] != want {
			t.Fatalf("%s = %q, want %q", k, got[k], want)
		}
	}
}

func TestTransformEmptyData(t *testing.T) {
	got := Transform(customer.New(), "REF-2")
	if got["rop_yes_questions"] != "None" {
		t.Fatalf("expected None, got %q", got["rop_yes_questions"])
	}
	if got["summary_health"] != "No major conditions" {
		t.Fatalf("expected no conditions, got %q", got["summary_health"])
	}
	if got["tobacco_y_or_n"] != "N" {
		t.Fatalf("unanswered tobacco maps to N, got %q", got["tobacco_y_or_n"])
	}
	if got["insured_name"] != "" {
		t.Fatalf("expected empty name, got %q", got["insured_name"])
	}
}

func TestPrefilledURLSkipsEmptyValues(t *testing.T) {
	fields := map[string]string{"insured_name": "Mary Johnson", "age": ""}
	mappings := map[string]string{"insured_name": "100", "age": "200"}

	got, err := PrefilledURL("https://forms.example.com/d/e/abc/viewform", mappings, fields)
	if err != nil {
		t.Fatalf("prefill: %v", err)
	}
	u, _ := url.Parse(got)
	if u.Query().Get("entry.100") != "Mary Johnson" {
		t.Fatalf("missing mapped entry in %q", got)
	}
	if u.Query().Has("entry.200") {
		t.Fatalf("empty value must be skipped: %q", got)
	}
}

func TestMissingFields(t *testing.T) {
	data := customer.Data{"tobacco_use": "No", "height": "5'4"}
	missing := MissingFields(data, MedicalFields)
	for _, id := range missing {
		if id == "tobacco_use" || id == "height" {
			t.Fatalf("answered field reported missing: %s", id)
		}
	}
	if len(missing) != len(MedicalFields)-2 {
		t.Fatalf("expected %d missing, got %v", len(MedicalFields)-2, missing)
	}
}

func TestHTTPSubmitterPostsMappedEntries(t *testing.T) {
	var posted url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := readForm(r)
		posted = body
	}))
	defer srv.Close()

	sub := HTTPSubmitter{FormURL: srv.URL, Mappings: map[string]string{"insured_name": "100"}}
	res, err := sub.Submit(context.Background(), map[string]string{"insured_name": "Mary Johnson"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Success || res.SubmissionID == "" {
		t.Fatalf("unexpected submission: %+v", res)
	}
	if posted.Get("entry.100") != "Mary Johnson" {
		t.Fatalf("entry not posted: %v", posted)
	}
}

func TestHTTPSubmitterSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sub := HTTPSubmitter{FormURL: srv.URL}
	if _, err := sub.Submit(context.Background(), map[string]string{}); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestMockSubmitterDeterministic(t *testing.T) {
	fields := map[string]string{"reference_id": "REF-1", "insured_name": "Mary Johnson"}
	a, err := MockSubmitter{}.Submit(context.Background(), fields)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	b, _ := MockSubmitter{}.Submit(context.Background(), fields)
	if a.SubmissionID != b.SubmissionID {
		t.Fatalf("mock ids should be stable: %s vs %s", a.SubmissionID, b.SubmissionID)
	}
}

func readForm(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}
