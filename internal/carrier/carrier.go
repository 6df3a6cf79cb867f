package carrier

import (
	"encoding/json"
	"os"
	"strings"
)

type CoverageTypes struct {
	Immediate       bool `json:"immediate"`
	Graded          bool `json:"graded"`
	ReturnOfPremium bool `json:"return_of_premium"`
}

type GradedDetails struct {
	Year1      string `json:"year1"`
	Year2      string `json:"year2"`
	Year3Plus  string `json:"year3_plus"`
	Accidental string `json:"accidental"`
}

// Carrier is static reference data; the core never mutates it.
type Carrier struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	Location               string         `json:"location"`
	Description            string         `json:"description"`
	Rating                 string         `json:"rating"`
	RatingAgency           string         `json:"rating_agency,omitempty"`
	YearsInBusiness        int            `json:"years_in_business"`
	Founded                int            `json:"founded,omitempty"`
	Assets                 string         `json:"assets,omitempty"`
	Customers              string         `json:"customers,omitempty"`
	Members                string         `json:"members,omitempty"`
	Specialties            []string       `json:"specialties"`
	CoverageTypes          CoverageTypes  `json:"coverage_types"`
	GradedDetails          *GradedDetails `json:"graded_details,omitempty"`
	ReturnOfPremiumDetails string         `json:"return_of_premium_details,omitempty"`
}

type document struct {
	Carriers []Carrier `json:"carriers"`
}

func Load(path string) ([]Carrier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) ([]Carrier, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc.Carriers, nil
}

// Search filters by name or location, case-insensitive substring match.
func Search(carriers []Carrier, q string) []Carrier {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return carriers
	}
	out := make([]Carrier, 0, len(carriers))
	for _, c := range carriers {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Location), q) {
			out = append(out, c)
		}
	}
	return out
}

func ByID(carriers []Carrier, id string) (Carrier, bool) {
	for _, c := range carriers {
		if c.ID == id {
			return c, true
		}
	}
	return Carrier{}, false
}
