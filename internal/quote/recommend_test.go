package quote

import (
	"math"
	"testing"

	"github.com/fe-select/backend/internal/customer"
)

func TestRecommendHealthyMidSixties(t *testing.T) {
	data := customer.Data{"customer_age": float64(65)}
	recs := Recommend(data)
	if len(recs) == 0 {
		t.Fatalf("expected recommendations")
	}
	// All standard-health carriers should show up, sorted best first.
	if recs[0].Suitability != SuitabilityExcellent {
		t.Fatalf("expected excellent first, got %s", recs[0].Suitability)
	}
	names := map[string]bool{}
	for _, r := range recs {
		names[r.Carrier] = true
	}
	for _, want := range []string{"Mutual of Omaha", "Baltimore Life", "Pioneer American", "AIG (American General)", "Liberty Bankers"} {
		if !names[want] {
			t.Fatalf("missing %s in %v", want, names)
		}
	}
	if names["Foresters"] {
		t.Fatalf("Foresters is a high-risk pick, not for clean health at 65")
	}
}

func TestRecommendHighRiskRoutesToGuaranteedIssue(t *testing.T) {
	data := customer.Data{
		"customer_age":   float64(68),
		"cancer_history": "Yes",
	}
	recs := Recommend(data)
	var foresters, pioneer *Recommendation
	for i := range recs {
		switch recs[i].Carrier {
		case "Foresters":
			foresters = &recs[i]
		case "Pioneer American":
			pioneer = &recs[i]
		case "Mutual of Omaha", "Baltimore Life", "AIG (American General)", "Liberty Bankers":
			t.Fatalf("standard carrier %s offered to high-risk profile", recs[i].Carrier)
		}
	}
	if foresters == nil {
		t.Fatalf("expected Foresters for high-risk profile")
	}
	if pioneer == nil || pioneer.Suitability != SuitabilityFair {
		t.Fatalf("expected Pioneer American rated fair, got %+v", pioneer)
	}
	if recs[0].Carrier != "Foresters" {
		t.Fatalf("good should sort ahead of fair, got %s first", recs[0].Carrier)
	}
}

func TestRecommendDiabetesComplicationsCountAsHighRisk(t *testing.T) {
	data := customer.Data{
		"customer_age":           float64(60),
		"diabetes":               "Yes",
		"diabetes_complications": "Yes",
	}
	for _, r := range Recommend(data) {
		if r.Carrier == "Mutual of Omaha" {
			t.Fatalf("diabetes with complications must exclude standard underwriting")
		}
	}
}

func TestRecommendInsulinNote(t *testing.T) {
	data := customer.Data{
		"customer_age":       float64(60),
		"diabetes":           "Yes",
		"diabetes_treatment": "Insulin",
	}
	for _, r := range Recommend(data) {
		if r.Carrier == "Baltimore Life" {
			if r.Notes == "" {
				t.Fatalf("expected insulin note on Baltimore Life")
			}
			return
		}
	}
	t.Fatalf("Baltimore Life missing")
}

func TestParseHeightInches(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"5'8", 68},
		{`5'8"`, 68},
		{"6'", 72},
		{"68", 68},
		{" 5' 11 ", 71},
		{"tall", 0},
	}
	for _, c := range cases {
		if got := ParseHeightInches(c.in); got != c.want {
			t.Fatalf("ParseHeightInches(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestBMI(t *testing.T) {
	got := BMI(68, 180)
	if math.Abs(got-27.37) > 0.01 {
		t.Fatalf("BMI(68, 180) = %v, want ~27.37", got)
	}
	if BMI(0, 180) != 0 || BMI(68, 0) != 0 {
		t.Fatalf("missing inputs must yield 0")
	}
}
