package models

import (
	"time"

	"github.com/fe-select/backend/internal/customer"
)

type Agent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NPNNumber string    `json:"npn_number"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Lead struct {
	ID               string     `json:"id"`
	AgentID          string     `json:"agent_id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	TobaccoUse       bool       `json:"tobacco_use"`
	HealthConditions []string   `json:"health_conditions"`
	CoverageAmount   *float64   `json:"coverage_amount,omitempty"`
	CoverageType     string     `json:"coverage_type,omitempty"`
	PremiumBudget    *float64   `json:"premium_budget,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type SavedQuote struct {
	ID             string    `json:"id"`
	LeadID         string    `json:"lead_id"`
	AgentID        string    `json:"agent_id"`
	Carrier        string    `json:"carrier"`
	ProductName    string    `json:"product_name"`
	CoverageAmount float64   `json:"coverage_amount"`
	MonthlyPremium float64   `json:"monthly_premium"`
	AnnualPremium  float64   `json:"annual_premium"`
	QuoteData      []byte    `json:"quote_data,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type CallSession struct {
	ID                string        `json:"id"`
	AgentID           string        `json:"agent_id"`
	CustomerData      customer.Data `json:"customer_data"`
	CompletedSections []string      `json:"completed_sections"`
	Outcome           string        `json:"outcome,omitempty"`
	Notes             string        `json:"notes,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	EndedAt           *time.Time    `json:"ended_at,omitempty"`
}
