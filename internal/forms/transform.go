package forms

import (
	"net/url"
	"strings"

	"github.com/fe-select/backend/internal/customer"
)

// yesQuestion pairs a health field with its label on the downstream form.
type yesQuestion struct {
	field string
	label string
}

var yesQuestions = []yesQuestion{
	{"tobacco_use", "Q1: Tobacco Use"},
	{"heart_problems", "Q2: Heart Problems"},
	{"stroke_history", "Q3: Stroke"},
	{"cancer_history", "Q4: Cancer"},
	{"aids_hiv_terminal", "Q5: AIDS/HIV/Terminal"},
	{"diabetes", "Q6: Diabetes"},
	{"blood_pressure", "Q7: High Blood Pressure"},
	{"emphysema_copd", "Q8: Emphysema/COPD"},
	{"autoimmune_disorders", "Q9: Autoimmune Disorders"},
	{"liver_kidney_disease", "Q10: Liver/Kidney Disease"},
	{"alcohol_drug_treatment", "Q11: Alcohol/Drug Treatment"},
	{"disability_status", "Q12: Disability"},
	{"mobility_aids", "Q13: Mobility Aids"},
	{"home_health_care", "Q14: Home Health Care"},
}

var healthSummaryFields = []yesQuestion{
	{"heart_problems", "Heart"},
	{"stroke_history", "Stroke"},
	{"cancer_history", "Cancer"},
	{"diabetes", "Diabetes"},
	{"blood_pressure", "HBP"},
	{"emphysema_copd", "COPD"},
	{"autoimmune_disorders", "Autoimmune"},
	{"liver_kidney_disease", "Liver/Kidney"},
	{"disability_status", "Disability"},
}

// Transform flattens a customer snapshot into the field map the third-party
// application form expects. Missing answers become empty strings; the form is
// the place where gaps are visible, not failures here.
func Transform(data customer.Data, referenceID string) map[string]string {
	fullName := strings.TrimSpace(strings.TrimSpace(data.String("customer_first_name")) + " " + strings.TrimSpace(data.String("customer_last_name")))

	return map[string]string{
		"reference_id":      referenceID,
		"company_name":      "Final Expense Select",
		"plan_type":         orDefault(data.String("selected_plan"), "TBD"),
		"rop_yes_questions": collectYesQuestions(data),

		"insured_name":     fullName,
		"address":          data.String("address"),
		"city":             data.String("customer_city"),
		"state":            data.String("customer_state"),
		"zip_code":         "",
		"telephone_number": data.String("customer_phone"),
		"email_address":    data.String("email"),
		"gender":           "",
		"dob":              data.String("customer_dob"),
		"age":              data.String("customer_age"),
		"state_of_birth":   "",
		"ss_number":        "",
		"height":           data.String("height"),
		"weight":           data.String("weight"),

		"owner_if_other": "",
		"owner_ss":       "",
		"payor_if_other": "",
		"payor_ss":       "",
		"payor_dob":      "",

		"primary_beneficiary":    data.String("primary_beneficiary"),
		"contingent_beneficiary": data.String("contingent_beneficiary"),

		"face_amount":     orDefault(data.String("coverage_amount"), data.String("selected_plan")),
		"riders":          "",
		"monthly_premium": data.String("monthly_premium"),
		"tobacco_y_or_n":  yesNoLetter(data, "tobacco_use"),

		"physician_name":             data.String("primary_doctor"),
		"name_of_bank":               "",
		"name_as_appears_on_account": fullName,
		"routing":                    "",
		"account":                    "",
		"account_type":               data.String("account_type"),
		"draft_day":                  data.String("draft_date"),

		"summary_state":   data.String("customer_state"),
		"summary_age":     data.String("customer_age"),
		"summary_dob":     data.String("customer_dob"),
		"summary_tobacco": yesNoLetter(data, "tobacco_use"),
		"summary_ht_wt":   data.String("height") + " / " + data.String("weight"),
		"summary_health":  summarizeHealth(data),
		"summary_meds":    orDefault(strings.Join(data.List("medications"), ", "), orDefault(data.String("medications"), "None")),
		"summary_current": data.String("current_occupation"),
		"summary_concern": data.String("main_concern"),
	}
}

func collectYesQuestions(data customer.Data) string {
	var out []string
	for _, q := range yesQuestions {
		if data.YesNo(q.field) {
			out = append(out, q.label)
		}
	}
	if len(out) == 0 {
		return "None"
	}
	return strings.Join(out, ", ")
}

func summarizeHealth(data customer.Data) string {
	var out []string
	for _, q := range healthSummaryFields {
		if data.YesNo(q.field) {
			out = append(out, q.label)
		}
	}
	if len(out) == 0 {
		return "No major conditions"
	}
	return strings.Join(out, ", ")
}

func yesNoLetter(data customer.Data, field string) string {
	if data.YesNo(field) {
		return "Y"
	}
	return "N"
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// PrefilledURL builds the form link with entry.<id> query parameters for
// every mapped, non-empty field.
func PrefilledURL(formURL string, mappings map[string]string, fields map[string]string) (string, error) {
	u, err := url.Parse(formURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for fieldID, entryID := range mappings {
		v, ok := fields[fieldID]
		if !ok || v == "" {
			continue
		}
		q.Set("entry."+entryID, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// MissingFields reports which of the required field ids have no answer yet.
func MissingFields(data customer.Data, required []string) []string {
	var missing []string
	for _, id := range required {
		if !data.Answered(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// MedicalFields are the answers the downstream form insists on before a
// submission is attempted.
var MedicalFields = []string{
	"tobacco_use", "height", "weight", "heart_problems", "stroke_history",
	"cancer_history", "aids_hiv_terminal", "diabetes",
}

// DefaultFieldMappings maps our field ids to the form's entry ids. Real
// deployments override these through configuration.
var DefaultFieldMappings = map[string]string{
	"insured_name":     "123456789",
	"telephone_number": "111111111",
	"email_address":    "222222222",
	"age":              "333333333",
	"dob":              "444444444",
	"tobacco_y_or_n":   "555555555",
	"height":           "666666666",
	"weight":           "777777777",
	"face_amount":      "101010101",
	"monthly_premium":  "121212121",
	"summary_health":   "131313131",
}
