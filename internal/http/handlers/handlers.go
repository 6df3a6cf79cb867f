package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/fe-select/backend/internal/carrier"
	"github.com/fe-select/backend/internal/customer"
	"github.com/fe-select/backend/internal/db"
	"github.com/fe-select/backend/internal/forms"
	"github.com/fe-select/backend/internal/leads"
	"github.com/fe-select/backend/internal/models"
	"github.com/fe-select/backend/internal/quote"
	"github.com/fe-select/backend/internal/script"
)

type Handler struct {
	Store     *db.Store
	Script    *script.Document
	Carriers  []carrier.Carrier
	Submitter forms.Submitter
	FormURL   string
	Validator *validator.Validate
	Logger    zerolog.Logger
	AgentKey  string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List script sections
// @Tags script
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/script [get]
func (h *Handler) ScriptSections(c *gin.Context) {
	type sectionSummary struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Order  int    `json:"order"`
		Fields int    `json:"fields"`
	}
	items := make([]sectionSummary, 0, len(h.Script.Sections))
	for _, s := range h.Script.Sections {
		items = append(items, sectionSummary{ID: s.ID, Title: s.Title, Order: s.Order, Fields: countInputFields(s.Content)})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// countInputFields counts input fields including those nested in branches.
func countInputFields(nodes []script.Node) int {
	n := 0
	for _, node := range nodes {
		if node.Type == script.NodeInputField {
			n++
		}
		for _, branch := range node.Branching {
			n += countInputFields(branch)
		}
	}
	return n
}

type RenderRequest struct {
	SessionID string        `json:"session_id"`
	Data      customer.Data `json:"data"`
	AgentName string        `json:"agent_name"`
	AgentNPN  string        `json:"agent_npn"`
}

// @Summary Render a script section
// @Description Flattens a section against the current customer data, expanding matched branches and substituting placeholders
// @Tags script
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/script/{id}/render [post]
func (h *Handler) RenderSection(c *gin.Context) {
	section, ok := h.Script.Section(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Section not found", nil)
		return
	}

	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}

	data, agentName, agentNPN, err := h.resolveSnapshot(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}

	ctx := script.ContextFrom(agentName, agentNPN, data)
	res := script.Render(section, data, func(s string) string { return script.Resolve(s, ctx) })
	c.JSON(http.StatusOK, res)
}

// resolveSnapshot merges inline data over the session snapshot when a session
// id is given; the stored snapshot is never mutated by a render.
func (h *Handler) resolveSnapshot(ctx context.Context, req RenderRequest) (customer.Data, string, string, error) {
	agentName, agentNPN := req.AgentName, req.AgentNPN
	data := customer.New()
	if req.SessionID != "" {
		sess, err := h.Store.GetSession(ctx, req.SessionID)
		if err != nil {
			return nil, "", "", err
		}
		data = sess.CustomerData.Clone()
		if sess.AgentID != "" && agentName == "" {
			if agent, err := h.Store.GetAgent(ctx, sess.AgentID); err == nil {
				agentName, agentNPN = agent.Name, agent.NPNNumber
			}
		}
	}
	data.Merge(req.Data)
	return data, agentName, agentNPN, nil
}

type ResolveRequest struct {
	Text      string        `json:"text" validate:"required"`
	AgentName string        `json:"agent_name"`
	AgentNPN  string        `json:"agent_npn"`
	Data      customer.Data `json:"data"`
}

func (h *Handler) ResolveText(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	ctx := script.ContextFrom(req.AgentName, req.AgentNPN, req.Data)
	c.JSON(http.StatusOK, gin.H{"text": script.Resolve(req.Text, ctx)})
}

type QuoteRequest struct {
	SessionID string        `json:"session_id"`
	Data      customer.Data `json:"data"`
	Mode      string        `json:"mode" validate:"omitempty,oneof=coverage_first budget_first"`
	Target    float64       `json:"target" validate:"required,gt=0"`
	AssumeAge int           `json:"assume_age" validate:"omitempty,gt=0"`
}

// @Summary Compute quote options
// @Description Three illustrative coverage/premium tiers from age, health, and budget inputs
// @Tags quotes
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 422 {object} map[string]any
// @Router /api/quotes [post]
func (h *Handler) ComputeQuotes(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	data, _, _, err := h.resolveSnapshot(c.Request.Context(), RenderRequest{SessionID: req.SessionID, Data: req.Data})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}

	mode := quote.ModeCoverageFirst
	if req.Mode == string(quote.ModeBudgetFirst) {
		mode = quote.ModeBudgetFirst
	}
	res, err := quote.Compute(data, h.Carriers, quote.Input{Mode: mode, Target: req.Target, AssumeAge: req.AssumeAge})
	if err != nil {
		if errors.Is(err, quote.ErrInsufficientData) {
			writeError(c, http.StatusUnprocessableEntity, "INSUFFICIENT_DATA", "Age and tobacco use are required before quoting", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "QUOTE_ERROR", "Quote computation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CarriersList(c *gin.Context) {
	q := c.Query("q")
	c.JSON(http.StatusOK, gin.H{"items": carrier.Search(h.Carriers, q)})
}

func (h *Handler) CarrierDetails(c *gin.Context) {
	found, ok := carrier.ByID(h.Carriers, c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Carrier not found", nil)
		return
	}
	c.JSON(http.StatusOK, found)
}

type RecommendationsRequest struct {
	SessionID string        `json:"session_id"`
	Data      customer.Data `json:"data"`
}

func (h *Handler) CarrierRecommendations(c *gin.Context) {
	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	data, _, _, err := h.resolveSnapshot(c.Request.Context(), RenderRequest{SessionID: req.SessionID, Data: req.Data})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}
	resp := gin.H{"items": quote.Recommend(data)}
	if weight, ok := data.Number("weight"); ok {
		if inches := quote.ParseHeightInches(data.String("height")); inches > 0 {
			resp["bmi"] = quote.BMI(inches, weight)
		}
	}
	c.JSON(http.StatusOK, resp)
}

type CreateSessionRequest struct {
	AgentID string `json:"agent_id"`
}

func (h *Handler) SessionCreate(c *gin.Context) {
	var req CreateSessionRequest
	// Empty bodies are fine: a session can start before the agent is known.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
			return
		}
	}
	sess, err := h.Store.CreateSession(c.Request.Context(), req.AgentID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create session", err.Error())
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) SessionGet(c *gin.Context) {
	sess, err := h.Store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}
	c.JSON(http.StatusOK, sess)
}

type SessionDataPatch struct {
	Data customer.Data `json:"data" validate:"required"`
}

// @Summary Merge fields into the session snapshot
// @Description Last write wins per field; returns the fresh completeness summary for every section
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]any
// @Router /api/sessions/{id}/data [patch]
func (h *Handler) SessionPatchData(c *gin.Context) {
	var req SessionDataPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	sess, err := h.Store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}

	sess.CustomerData.Merge(req.Data)

	// Completeness is re-derived from the merged snapshot, never cached.
	var completed []string
	sections := make([]gin.H, 0, len(h.Script.Sections))
	for _, s := range h.Script.Sections {
		r := script.Render(s, sess.CustomerData, nil)
		if r.Complete {
			completed = append(completed, s.ID)
		}
		sections = append(sections, gin.H{
			"id":                  s.ID,
			"complete":            r.Complete,
			"required_incomplete": r.RequiredIncomplete,
		})
	}

	if err := h.Store.SaveSessionData(c.Request.Context(), sess.ID, sess.CustomerData, completed); err != nil {
		// The merged snapshot is still returned: persistence is best effort
		// and the caller must be able to retry without losing answers.
		h.Logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to save session data")
		c.JSON(http.StatusOK, gin.H{
			"customer_data":       sess.CustomerData,
			"sections":            sections,
			"required_incomplete": script.VisibleRequired(h.Script, sess.CustomerData),
			"persisted":           false,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer_data":       sess.CustomerData,
		"sections":            sections,
		"required_incomplete": script.VisibleRequired(h.Script, sess.CustomerData),
		"persisted":           true,
	})
}

type FinishSessionRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=completed incomplete no_sale callback"`
	Notes   string `json:"notes"`
	Trigger string `json:"trigger" validate:"omitempty,oneof=call_completed quote_provided application_started callback_scheduled manual_trigger"`
}

// @Summary Finish a call session
// @Description Records the outcome and creates a lead when the collected data qualifies
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]any
// @Router /api/sessions/{id}/finish [post]
func (h *Handler) SessionFinish(c *gin.Context) {
	var req FinishSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	sess, err := h.Store.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}

	if err := h.Store.FinishSession(c.Request.Context(), sess.ID, req.Outcome, req.Notes); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to finish session", err.Error())
		return
	}

	trigger := req.Trigger
	if trigger == "" {
		trigger = leads.TriggerCallCompleted
		if req.Outcome == "callback" {
			trigger = leads.TriggerCallbackScheduled
		}
	}

	resp := gin.H{
		"session_id": sess.ID,
		"outcome":    req.Outcome,
		"trigger":    trigger,
		"summary":    leads.Summary(sess.CustomerData),
	}

	if leads.Qualifies(sess.CustomerData) {
		lead := leads.FromCustomerData(sess.AgentID, sess.CustomerData)
		id, err := h.Store.CreateLead(c.Request.Context(), lead)
		if err != nil {
			// Lead creation failing never loses the session; surface it and
			// let the agent retry through the leads endpoint.
			h.Logger.Error().Err(err).Str("session_id", sess.ID).Msg("post-call lead creation failed")
			resp["lead_error"] = err.Error()
		} else {
			resp["lead_id"] = id
		}
	}
	c.JSON(http.StatusOK, resp)
}

type AgentRequest struct {
	Name      string `json:"name" validate:"required"`
	NPNNumber string `json:"npn_number" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// AgentUpsert registers or refreshes an agent profile keyed by email. The
// resulting id is what sessions and leads reference.
func (h *Handler) AgentUpsert(c *gin.Context) {
	var req AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	agent, err := h.Store.UpsertAgent(c.Request.Context(), models.Agent{
		Name:      req.Name,
		NPNNumber: req.NPNNumber,
		Email:     req.Email,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to save agent", err.Error())
		return
	}
	c.JSON(http.StatusOK, agent)
}

type LeadRequest struct {
	AgentID          string   `json:"agent_id"`
	FirstName        string   `json:"first_name" validate:"required"`
	LastName         string   `json:"last_name" validate:"required"`
	Email            string   `json:"email" validate:"omitempty,email"`
	Phone            string   `json:"phone"`
	Gender           string   `json:"gender"`
	TobaccoUse       bool     `json:"tobacco_use"`
	HealthConditions []string `json:"health_conditions"`
	CoverageAmount   *float64 `json:"coverage_amount" validate:"omitempty,gt=0"`
	CoverageType     string   `json:"coverage_type"`
	PremiumBudget    *float64 `json:"premium_budget" validate:"omitempty,gt=0"`
}

func (r LeadRequest) toModel() models.Lead {
	conditions := r.HealthConditions
	if conditions == nil {
		conditions = []string{}
	}
	return models.Lead{
		AgentID:          r.AgentID,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		Gender:           r.Gender,
		TobaccoUse:       r.TobaccoUse,
		HealthConditions: conditions,
		CoverageAmount:   r.CoverageAmount,
		CoverageType:     r.CoverageType,
		PremiumBudget:    r.PremiumBudget,
	}
}

func (h *Handler) LeadCreate(c *gin.Context) {
	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	id, err := h.Store.CreateLead(c.Request.Context(), req.toModel())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create lead", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) LeadsList(c *gin.Context) {
	agentID := c.Query("agent_id")
	q := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListLeads(c.Request.Context(), agentID, q, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list leads", err.Error())
		return
	}
	if items == nil {
		items = []models.Lead{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) LeadGet(c *gin.Context) {
	lead, err := h.Store.GetLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Lead not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get lead", err.Error())
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *Handler) LeadUpdate(c *gin.Context) {
	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	lead := req.toModel()
	lead.ID = c.Param("id")
	if err := h.Store.UpdateLead(c.Request.Context(), lead); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Lead not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update lead", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) LeadDelete(c *gin.Context) {
	if err := h.Store.DeleteLead(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Lead not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete lead", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type SaveQuoteRequest struct {
	AgentID        string  `json:"agent_id"`
	Carrier        string  `json:"carrier" validate:"required"`
	ProductName    string  `json:"product_name" validate:"required"`
	CoverageAmount float64 `json:"coverage_amount" validate:"required,gt=0"`
	MonthlyPremium float64 `json:"monthly_premium" validate:"required,gt=0"`
	QuoteData      any     `json:"quote_data"`
}

func (h *Handler) LeadQuoteSave(c *gin.Context) {
	var req SaveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	var raw []byte
	if req.QuoteData != nil {
		raw, _ = json.Marshal(req.QuoteData)
	}
	id, err := h.Store.SaveQuote(c.Request.Context(), models.SavedQuote{
		LeadID:         c.Param("id"),
		AgentID:        req.AgentID,
		Carrier:        req.Carrier,
		ProductName:    req.ProductName,
		CoverageAmount: req.CoverageAmount,
		MonthlyPremium: req.MonthlyPremium,
		AnnualPremium:  req.MonthlyPremium * 12,
		QuoteData:      raw,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to save quote", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) LeadQuotesList(c *gin.Context) {
	items, err := h.Store.ListQuotesForLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list quotes", err.Error())
		return
	}
	if items == nil {
		items = []models.SavedQuote{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type PrefillRequest struct {
	SessionID string        `json:"session_id"`
	Data      customer.Data `json:"data"`
}

func (h *Handler) FormPrefill(c *gin.Context) {
	if h.FormURL == "" {
		writeError(c, http.StatusConflict, "NOT_CONFIGURED", "Form URL not configured", nil)
		return
	}
	var req PrefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	data, _, _, err := h.resolveSnapshot(c.Request.Context(), RenderRequest{SessionID: req.SessionID, Data: req.Data})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}

	fields := forms.Transform(data, referenceID())
	link, err := forms.PrefilledURL(h.FormURL, forms.DefaultFieldMappings, fields)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "FORM_ERROR", "Failed to build form URL", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// @Summary Submit collected data to the third-party form
// @Description Fire-and-forget from the session's point of view; a failure never rolls back collected answers
// @Tags forms
// @Accept json
// @Produce json
// @Success 200 {object} forms.Submission
// @Failure 422 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/forms/submit [post]
func (h *Handler) FormSubmit(c *gin.Context) {
	var req PrefillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	data, _, _, err := h.resolveSnapshot(c.Request.Context(), RenderRequest{SessionID: req.SessionID, Data: req.Data})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load session", err.Error())
		return
	}

	if missing := forms.MissingFields(data, forms.MedicalFields); len(missing) > 0 {
		writeError(c, http.StatusUnprocessableEntity, "MISSING_MEDICAL_FIELDS",
			"Missing required medical information: "+strings.Join(missing, ", "), missing)
		return
	}

	fields := forms.Transform(data, referenceID())
	sub, err := h.Submitter.Submit(c.Request.Context(), fields)
	if err != nil {
		h.Logger.Error().Err(err).Msg("form submission failed")
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Form submission failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, sub)
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func referenceID() string {
	return fmt.Sprintf("REF-%d", time.Now().UnixMilli())
}
