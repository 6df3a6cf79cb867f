package carrier

import "testing"

func sample() []Carrier {
	return []Carrier{
		{ID: "mutual-of-omaha", Name: "Mutual of Omaha", Location: "Omaha, Nebraska", CoverageTypes: CoverageTypes{Immediate: true}},
		{ID: "foresters", Name: "Foresters Financial", Location: "Toronto, Canada", CoverageTypes: CoverageTypes{Graded: true}},
		{ID: "baltimore-life", Name: "Baltimore Life", Location: "Owings Mills, Maryland", CoverageTypes: CoverageTypes{Immediate: true, Graded: true}},
	}
}

func TestSearchMatchesNameAndLocation(t *testing.T) {
	carriers := sample()
	if got := Search(carriers, "omaha"); len(got) != 1 || got[0].ID != "mutual-of-omaha" {
		t.Fatalf("name search failed: %v", got)
	}
	if got := Search(carriers, "MARYLAND"); len(got) != 1 || got[0].ID != "baltimore-life" {
		t.Fatalf("location search failed: %v", got)
	}
	if got := Search(carriers, ""); len(got) != 3 {
		t.Fatalf("empty query should return all, got %d", len(got))
	}
	if got := Search(carriers, "zzz"); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestParse(t *testing.T) {
	b := []byte(`{"carriers": [{"id": "c1", "name": "Test Life", "location": "Austin, Texas",
		"coverage_types": {"immediate": true, "graded": false, "return_of_premium": true},
		"graded_details": {"year1": "30%", "year2": "70%", "year3_plus": "100%", "accidental": "100%"}}]}`)
	carriers, err := Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(carriers) != 1 || !carriers[0].CoverageTypes.ReturnOfPremium {
		t.Fatalf("unexpected carriers: %+v", carriers)
	}
	if carriers[0].GradedDetails == nil || carriers[0].GradedDetails.Year2 != "70%" {
		t.Fatalf("graded details not decoded")
	}
	if _, ok := ByID(carriers, "c1"); !ok {
		t.Fatalf("ByID failed")
	}
}
