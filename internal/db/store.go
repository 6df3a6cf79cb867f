package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fe-select/backend/internal/customer"
	"github.com/fe-select/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) UpsertAgent(ctx context.Context, a models.Agent) (models.Agent, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO agents (name, npn_number, email, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			npn_number = EXCLUDED.npn_number,
			updated_at = NOW()
		RETURNING id, name, npn_number, email, created_at, updated_at
	`, a.Name, a.NPNNumber, a.Email)
	var out models.Agent
	err := row.Scan(&out.ID, &out.Name, &out.NPNNumber, &out.Email, &out.CreatedAt, &out.UpdatedAt)
	return out, err
}

func (s *Store) GetAgent(ctx context.Context, id string) (models.Agent, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, npn_number, email, created_at, updated_at FROM agents WHERE id = $1`, id)
	var a models.Agent
	err := row.Scan(&a.ID, &a.Name, &a.NPNNumber, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) CreateLead(ctx context.Context, l models.Lead) (string, error) {
	var id string
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO leads (agent_id, first_name, last_name, email, phone, date_of_birth, gender,
			tobacco_use, health_conditions, coverage_amount, coverage_type, premium_budget, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
		RETURNING id
	`, nullable(l.AgentID), l.FirstName, l.LastName, nullable(l.Email), nullable(l.Phone), l.DateOfBirth, nullable(l.Gender),
		l.TobaccoUse, l.HealthConditions, l.CoverageAmount, nullable(l.CoverageType), l.PremiumBudget).Scan(&id)
	return id, err
}

const leadColumns = `id, COALESCE(agent_id::text, ''), first_name, last_name, COALESCE(email, ''), COALESCE(phone, ''),
	date_of_birth, COALESCE(gender, ''), tobacco_use, COALESCE(health_conditions, '{}'),
	coverage_amount, COALESCE(coverage_type, ''), premium_budget, created_at, updated_at`

func scanLead(row pgx.Row) (models.Lead, error) {
	var l models.Lead
	err := row.Scan(&l.ID, &l.AgentID, &l.FirstName, &l.LastName, &l.Email, &l.Phone,
		&l.DateOfBirth, &l.Gender, &l.TobaccoUse, &l.HealthConditions,
		&l.CoverageAmount, &l.CoverageType, &l.PremiumBudget, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (s *Store) GetLead(ctx context.Context, id string) (models.Lead, error) {
	return scanLead(s.Pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

func (s *Store) ListLeads(ctx context.Context, agentID, q string, limit, offset int) ([]models.Lead, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	var wheres []string
	if agentID != "" {
		args = append(args, agentID)
		wheres = append(wheres, fmt.Sprintf("agent_id = $%d", len(args)))
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR phone ILIKE $%d)", len(args), len(args), len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) UpdateLead(ctx context.Context, l models.Lead) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE leads SET first_name = $1, last_name = $2, email = $3, phone = $4,
			date_of_birth = $5, gender = $6, tobacco_use = $7, health_conditions = $8,
			coverage_amount = $9, coverage_type = $10, premium_budget = $11, updated_at = NOW()
		WHERE id = $12
	`, l.FirstName, l.LastName, nullable(l.Email), nullable(l.Phone), l.DateOfBirth, nullable(l.Gender),
		l.TobaccoUse, l.HealthConditions, l.CoverageAmount, nullable(l.CoverageType), l.PremiumBudget, l.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) DeleteLead(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SaveQuote inserts the quote and touches the lead's updated_at in one
// transaction, so lead listings sort recently-quoted leads first.
func (s *Store) SaveQuote(ctx context.Context, q models.SavedQuote) (string, error) {
	var id string
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO quotes (lead_id, agent_id, carrier, product_name, coverage_amount, monthly_premium, annual_premium, quote_data, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
			RETURNING id
		`, q.LeadID, nullable(q.AgentID), q.Carrier, q.ProductName, q.CoverageAmount, q.MonthlyPremium, q.AnnualPremium, q.QuoteData).Scan(&id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE leads SET updated_at = NOW() WHERE id = $1`, q.LeadID)
		return err
	})
	return id, err
}

func (s *Store) ListQuotesForLead(ctx context.Context, leadID string) ([]models.SavedQuote, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, lead_id, COALESCE(agent_id::text, ''), carrier, product_name, coverage_amount, monthly_premium, annual_premium, quote_data, created_at
		FROM quotes WHERE lead_id = $1 ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SavedQuote
	for rows.Next() {
		var q models.SavedQuote
		if err := rows.Scan(&q.ID, &q.LeadID, &q.AgentID, &q.Carrier, &q.ProductName,
			&q.CoverageAmount, &q.MonthlyPremium, &q.AnnualPremium, &q.QuoteData, &q.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) CreateSession(ctx context.Context, agentID string) (models.CallSession, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO call_sessions (agent_id, customer_data, completed_sections, notes, started_at)
		VALUES ($1, '{}'::jsonb, '{}', '', NOW())
		RETURNING id, started_at
	`, nullable(agentID))
	sess := models.CallSession{
		AgentID:           agentID,
		CustomerData:      customer.New(),
		CompletedSections: []string{},
	}
	err := row.Scan(&sess.ID, &sess.StartedAt)
	return sess, err
}

func (s *Store) GetSession(ctx context.Context, id string) (models.CallSession, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, COALESCE(agent_id::text, ''), customer_data, completed_sections, COALESCE(outcome, ''), notes, started_at, ended_at
		FROM call_sessions WHERE id = $1
	`, id)

	var (
		sess models.CallSession
		raw  []byte
	)
	if err := row.Scan(&sess.ID, &sess.AgentID, &raw, &sess.CompletedSections, &sess.Outcome, &sess.Notes, &sess.StartedAt, &sess.EndedAt); err != nil {
		return models.CallSession{}, err
	}
	sess.CustomerData = customer.New()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &sess.CustomerData); err != nil {
			return models.CallSession{}, err
		}
	}
	return sess, nil
}

// SaveSessionData persists the current snapshot. Best effort from the
// caller's point of view: a failure must not invalidate the in-memory data.
func (s *Store) SaveSessionData(ctx context.Context, id string, data customer.Data, completed []string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if completed == nil {
		completed = []string{}
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE call_sessions SET customer_data = $1, completed_sections = $2 WHERE id = $3
	`, raw, completed, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *Store) FinishSession(ctx context.Context, id, outcome, notes string) error {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE call_sessions SET outcome = $1, notes = $2, ended_at = NOW() WHERE id = $3
	`, outcome, notes, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
