package leads

import (
	"fmt"
	"strings"
	"time"

	"github.com/fe-select/backend/internal/customer"
	"github.com/fe-select/backend/internal/models"
)

// Triggers for post-call lead creation.
const (
	TriggerCallCompleted      = "call_completed"
	TriggerQuoteProvided      = "quote_provided"
	TriggerApplicationStarted = "application_started"
	TriggerCallbackScheduled  = "callback_scheduled"
	TriggerManual             = "manual_trigger"
)

// HasContact reports whether the snapshot identifies a reachable person:
// some name plus some way to contact them.
func HasContact(data customer.Data) bool {
	hasName := data.Answered("customer_first_name") || data.Answered("customer_last_name")
	hasContact := data.Answered("customer_phone") || data.Answered("email")
	return hasName && hasContact
}

// Qualifies decides whether the call collected enough to be worth a lead:
// contact details plus either insurance interest or health information.
func Qualifies(data customer.Data) bool {
	if !HasContact(data) {
		return false
	}
	interest := data.Answered("coverage_amount") ||
		data.Answered("monthly_premium") ||
		data.Answered("premium_budget") ||
		data.Answered("main_concern") ||
		data.Answered("protection_for")
	health := data.Answered("tobacco_use") ||
		data.Answered("heart_problems") ||
		data.Answered("diabetes") ||
		data.Answered("blood_pressure") ||
		data.Answered("other_health_problems")
	return interest || health
}

var healthConditionFields = []struct {
	field string
	label string
}{
	{"heart_problems", "Heart problems"},
	{"stroke_history", "Stroke"},
	{"cancer_history", "Cancer"},
	{"aids_hiv_terminal", "AIDS/HIV/Terminal"},
	{"diabetes", "Diabetes"},
	{"blood_pressure", "High blood pressure"},
	{"emphysema_copd", "Emphysema/COPD"},
	{"autoimmune_disorders", "Autoimmune disorder"},
	{"liver_kidney_disease", "Liver/Kidney disease"},
}

// FromCustomerData maps a call snapshot onto a lead record for persistence.
func FromCustomerData(agentID string, data customer.Data) models.Lead {
	lead := models.Lead{
		AgentID:          agentID,
		FirstName:        data.String("customer_first_name"),
		LastName:         data.String("customer_last_name"),
		Email:            data.String("email"),
		Phone:            data.String("customer_phone"),
		TobaccoUse:       data.YesNo("tobacco_use"),
		CoverageType:     data.String("selected_plan"),
		HealthConditions: []string{},
	}
	for _, c := range healthConditionFields {
		if data.YesNo(c.field) {
			lead.HealthConditions = append(lead.HealthConditions, c.label)
		}
	}
	if v, ok := data.Number("coverage_amount"); ok {
		lead.CoverageAmount = &v
	}
	if v, ok := data.Number("premium_budget"); ok {
		lead.PremiumBudget = &v
	}
	lead.DateOfBirth = parseDOB(data.String("customer_dob"))
	return lead
}

// parseDOB accepts the date formats agents actually type; nil when none fit.
func parseDOB(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", "01/02/2006", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// Summary builds the confirmation text shown before a lead is saved.
func Summary(data customer.Data) string {
	var lines []string
	name := strings.TrimSpace(data.String("customer_first_name") + " " + data.String("customer_last_name"))
	if name != "" {
		lines = append(lines, "Name: "+name)
	}
	if data.Answered("customer_phone") {
		lines = append(lines, "Phone: "+data.String("customer_phone"))
	}
	if data.Answered("email") {
		lines = append(lines, "Email: "+data.String("email"))
	}
	if age, ok := data.Int("customer_age"); ok {
		lines = append(lines, fmt.Sprintf("Age: %d", age))
	}
	if v, ok := data.Number("coverage_amount"); ok {
		lines = append(lines, fmt.Sprintf("Coverage: $%.0f", v))
	}
	if v, ok := data.Number("monthly_premium"); ok {
		lines = append(lines, fmt.Sprintf("Premium: $%.0f/month", v))
	}
	return strings.Join(lines, "\n")
}
