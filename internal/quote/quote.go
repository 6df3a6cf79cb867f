package quote

import (
	"errors"
	"math"

	"github.com/fe-select/backend/internal/carrier"
	"github.com/fe-select/backend/internal/customer"
)

// ErrInsufficientData is returned when age or tobacco use is unanswered.
// The heuristic never fills in silent defaults; an explicit AssumeAge is the
// only fallback and it is echoed back so the caller can flag the estimate.
var ErrInsufficientData = errors.New("insufficient data for quote")

type Mode string

const (
	ModeCoverageFirst Mode = "coverage_first"
	ModeBudgetFirst   Mode = "budget_first"
)

type PlanType string

const (
	PlanImmediate       PlanType = "immediate"
	PlanGraded          PlanType = "graded"
	PlanReturnOfPremium PlanType = "return_of_premium"
)

type Option struct {
	CoverageAmount int      `json:"coverage_amount"`
	MonthlyPremium int      `json:"monthly_premium"`
	DailyCost      float64  `json:"daily_cost"`
	Carrier        string   `json:"carrier"`
	PlanType       PlanType `json:"plan_type"`
}

type Input struct {
	Mode      Mode
	Target    float64
	AssumeAge int
}

type Result struct {
	Options    []Option `json:"options"`
	AssumedAge int      `json:"assumed_age,omitempty"`
}

const (
	coverageFloor = 5000
	premiumFloor  = 25
)

// highRiskFields carry the 1.4 health surcharge when answered "Yes".
var highRiskFields = []string{
	"heart_problems",
	"stroke_history",
	"cancer_history",
	"diabetes_complications",
	"emphysema_copd",
	"liver_kidney_disease",
}

func hasHealthIssues(data customer.Data) bool {
	for _, f := range highRiskFields {
		if data.YesNo(f) {
			return true
		}
	}
	return false
}

func baseRate(age int) float64 {
	switch {
	case age < 50:
		return 0.8
	case age < 60:
		return 1.0
	case age < 70:
		return 1.3
	case age < 80:
		return 1.8
	}
	return 2.5
}

// premium applies the base formula plus surcharges and rounds to whole dollars.
func premium(coverage float64, rate float64, health, tobacco bool) int {
	p := coverage / 1000 * rate * 8
	if health {
		p *= 1.4
	}
	if tobacco {
		p *= 1.5
	}
	return int(math.Round(p))
}

func surcharge(health, tobacco bool) float64 {
	m := 1.0
	if health {
		m *= 1.4
	}
	if tobacco {
		m *= 1.5
	}
	return m
}

func roundTo100(v float64) int {
	return int(math.Round(v/100)) * 100
}

// Compute produces three illustrative coverage/premium tiers. This is a talk
// track aid, not underwriting: the only guarantee is that the numbers stay
// consistent with the formula.
func Compute(data customer.Data, carriers []carrier.Carrier, in Input) (Result, error) {
	age, ok := data.Int("customer_age")
	assumed := 0
	if !ok || age <= 0 {
		if in.AssumeAge <= 0 {
			return Result{}, ErrInsufficientData
		}
		age = in.AssumeAge
		assumed = in.AssumeAge
	}
	if !data.Answered("tobacco_use") {
		return Result{}, ErrInsufficientData
	}
	if in.Target <= 0 {
		return Result{}, ErrInsufficientData
	}

	health := hasHealthIssues(data)
	tobacco := data.YesNo("tobacco_use")
	rate := baseRate(age)

	name := pickCarrier(carriers, health)
	plan := PlanImmediate
	if health {
		plan = PlanGraded
	}

	var options []Option
	switch in.Mode {
	case ModeBudgetFirst:
		// Invert the formula: divide the surcharges back out, then solve
		// premium = coverage/1000 * rate * 8 for coverage.
		baseCoverage := in.Target / surcharge(health, tobacco) / rate / 8 * 1000
		for _, f := range []float64{0.8, 1.0, 1.25} {
			options = append(options, Option{
				CoverageAmount: roundTo100(baseCoverage * f),
				MonthlyPremium: int(math.Round(in.Target * f)),
				Carrier:        name,
				PlanType:       plan,
			})
		}
	default:
		for _, f := range []float64{0.75, 1.0, 1.333} {
			coverage := roundTo100(in.Target * f)
			options = append(options, Option{
				CoverageAmount: coverage,
				MonthlyPremium: premium(float64(coverage), rate, health, tobacco),
				Carrier:        name,
				PlanType:       plan,
			})
		}
	}

	for i := range options {
		if options[i].CoverageAmount < coverageFloor {
			options[i].CoverageAmount = coverageFloor
		}
		if options[i].MonthlyPremium < premiumFloor {
			options[i].MonthlyPremium = premiumFloor
		}
		options[i].DailyCost = math.Round(float64(options[i].MonthlyPremium)/30*100) / 100
	}
	return Result{Options: options, AssumedAge: assumed}, nil
}

// pickCarrier prefers graded-capable carriers for impaired health and
// immediate-capable carriers otherwise, falling back to the first in the list.
func pickCarrier(carriers []carrier.Carrier, health bool) string {
	if len(carriers) == 0 {
		return ""
	}
	for _, c := range carriers {
		if health && c.CoverageTypes.Graded {
			return c.Name
		}
		if !health && c.CoverageTypes.Immediate {
			return c.Name
		}
	}
	return carriers[0].Name
}
