package quote

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/fe-select/backend/internal/customer"
)

type Suitability string

const (
	SuitabilityExcellent Suitability = "excellent"
	SuitabilityGood      Suitability = "good"
	SuitabilityFair      Suitability = "fair"
	SuitabilityPoor      Suitability = "poor"
)

var suitabilityRank = map[Suitability]int{
	SuitabilityExcellent: 4,
	SuitabilityGood:      3,
	SuitabilityFair:      2,
	SuitabilityPoor:      1,
}

type Recommendation struct {
	Carrier     string      `json:"carrier"`
	Suitability Suitability `json:"suitability"`
	Reasons     []string    `json:"reasons"`
	Notes       string      `json:"notes,omitempty"`
}

// Recommend scores carriers against the customer's health profile using the
// underwriting rules of thumb the script is written around. Empty or partial
// data just narrows the list; it is never an error.
func Recommend(data customer.Data) []Recommendation {
	heart := data.YesNo("heart_problems")
	stroke := data.YesNo("stroke_history")
	cancer := data.YesNo("cancer_history")
	terminal := data.YesNo("aids_hiv_terminal")
	diabetes := data.YesNo("diabetes")
	bloodPressure := data.YesNo("blood_pressure")
	copd := data.YesNo("emphysema_copd")
	autoimmune := data.YesNo("autoimmune_disorders")
	liverKidney := data.YesNo("liver_kidney_disease")
	disability := data.YesNo("disability_status")
	homeCare := data.YesNo("home_health_care")
	insulin := strings.EqualFold(data.String("diabetes_treatment"), "Insulin")

	age, _ := data.Int("customer_age")

	highRisk := terminal || cancer || stroke ||
		(diabetes && data.YesNo("diabetes_complications")) ||
		liverKidney || autoimmune || homeCare

	var recs []Recommendation

	if !highRisk && !copd && age >= 50 && age <= 80 {
		s := SuitabilityExcellent
		if bloodPressure || diabetes {
			s = SuitabilityGood
		}
		ageReason := "Good age range coverage"
		if age >= 65 {
			ageReason = "Senior-friendly underwriting"
		}
		r := Recommendation{
			Carrier:     "Mutual of Omaha",
			Suitability: s,
			Reasons: []string{
				"Competitive rates for standard health",
				"Good underwriting for controlled diabetes",
				"Accepts blood pressure with medication",
				ageReason,
			},
		}
		if bloodPressure {
			r.Notes = "May require stable medication for 12 months"
		}
		recs = append(recs, r)
	}

	if !highRisk && age >= 45 && age <= 85 {
		s := SuitabilityExcellent
		if (bloodPressure || diabetes) && !heart {
			s = SuitabilityGood
		}
		r := Recommendation{
			Carrier:     "Baltimore Life",
			Suitability: s,
			Reasons: []string{
				"Lenient underwriting for mild conditions",
				"Good for controlled diabetes (pills only)",
				"Accepts stable blood pressure",
				"Competitive pricing",
			},
		}
		if diabetes && insulin {
			r.Notes = "May be challenging for insulin-dependent diabetes"
		}
		recs = append(recs, r)
	}

	if age >= 50 && age <= 80 {
		s := SuitabilityExcellent
		switch {
		case highRisk:
			s = SuitabilityFair
		case heart || copd:
			s = SuitabilityGood
		}
		r := Recommendation{
			Carrier:     "Pioneer American",
			Suitability: s,
			Reasons: []string{
				"More lenient health questions",
				"Good for heart conditions (stable)",
				"Accepts COPD with treatment",
				"Flexible underwriting",
			},
		}
		if highRisk {
			r.Notes = "May require guaranteed issue product"
		}
		recs = append(recs, r)
	}

	if !highRisk && !heart && !copd && age >= 18 && age <= 75 {
		s := SuitabilityExcellent
		if bloodPressure || diabetes {
			s = SuitabilityFair
		}
		r := Recommendation{
			Carrier:     "AIG (American General)",
			Suitability: s,
			Reasons: []string{
				"Excellent rates for healthy applicants",
				"Strong financial ratings",
				"Good customer service",
				"Competitive term conversion options",
			},
		}
		if bloodPressure || diabetes {
			r.Notes = "Stricter underwriting for health conditions"
		}
		recs = append(recs, r)
	}

	if highRisk || age >= 75 || disability {
		recs = append(recs, Recommendation{
			Carrier:     "Foresters",
			Suitability: SuitabilityGood,
			Reasons: []string{
				"Guaranteed issue options available",
				"No medical exam required",
				"Good for high-risk applicants",
				"Member benefits included",
			},
			Notes: "Graded death benefit for first 2-3 years",
		})
	}

	if !highRisk && age >= 18 && age <= 80 {
		s := SuitabilityExcellent
		if bloodPressure || diabetes {
			s = SuitabilityGood
		}
		recs = append(recs, Recommendation{
			Carrier:     "Liberty Bankers",
			Suitability: s,
			Reasons: []string{
				"Competitive pricing",
				"Good underwriting flexibility",
				"Fast approval process",
				"Good customer service",
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return suitabilityRank[recs[i].Suitability] > suitabilityRank[recs[j].Suitability]
	})
	return recs
}

var heightFeetInches = regexp.MustCompile(`^(\d+)'\s*(\d+)?"?$`)

// ParseHeightInches accepts feet-and-inches notation ("5'8", `5'8"`) or a
// plain inch count ("68").
func ParseHeightInches(height string) int {
	height = strings.TrimSpace(height)
	if m := heightFeetInches.FindStringSubmatch(height); m != nil {
		feet, _ := strconv.Atoi(m[1])
		inches := 0
		if m[2] != "" {
			inches, _ = strconv.Atoi(m[2])
		}
		return feet*12 + inches
	}
	n, err := strconv.Atoi(height)
	if err != nil {
		return 0
	}
	return n
}

// BMI uses the imperial formula; zero when either measure is missing.
func BMI(heightInches int, weightPounds float64) float64 {
	if heightInches <= 0 || weightPounds <= 0 {
		return 0
	}
	h := float64(heightInches)
	return weightPounds / (h * h) * 703
}
