package db

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-matcher/internal/ranking"
	"github.com/jonathan/candidate-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

// InsertCandidate creates a candidate row and returns its id. The raw
// experience JSON is stored verbatim alongside the normalized skill rows.
func (db *DB) InsertCandidate(ctx context.Context, fullName, email string, experienceJSON []byte) (int64, error) {
	if len(experienceJSON) == 0 {
		experienceJSON = []byte("[]")
	}

	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (full_name, email, experience_json)
		 VALUES ($1, $2, $3)
		 RETURNING candidate_id`,
		fullName, email, string(experienceJSON),
	).Scan(&id)
	if err != nil {
		return 0, &types.ErrPersistence{Op: "insert candidate", Err: err}
	}
	return id, nil
}

// GetCandidate retrieves a candidate row by id, or nil if unknown.
func (db *DB) GetCandidate(ctx context.Context, candidateID int64) (*Candidate, error) {
	var c Candidate
	var experienceJSON string
	err := db.pool.QueryRow(ctx,
		`SELECT candidate_id, full_name, email, experience_json, created_at
		 FROM candidates WHERE candidate_id = $1`,
		candidateID,
	).Scan(&c.ID, &c.FullName, &c.Email, &experienceJSON, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &types.ErrPersistence{Op: "get candidate", Err: err}
	}
	c.ExperienceJSON = []byte(experienceJSON)
	return &c, nil
}

// UpsertCandidateSkills replaces the candidate's skill rows with the given
// metrics inside one transaction. Metrics arrive sorted by skill code, so the
// insert order is deterministic. A metric whose skill code is not in the
// taxonomy is logged and skipped; re-ingesting a resume after a taxonomy
// update picks it up.
func (db *DB) UpsertCandidateSkills(ctx context.Context, candidateID int64, metrics []types.SkillMetrics) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return &types.ErrPersistence{Op: "begin candidate skills", Err: err}
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			log.Printf("[DB] rollback failed for candidate %d: %v", candidateID, rErr)
		}
	}()

	if _, err := tx.Exec(ctx,
		`DELETE FROM candidate_skills WHERE candidate_id = $1`, candidateID); err != nil {
		return &types.ErrPersistence{Op: "clear candidate skills", Err: err}
	}

	for i := range metrics {
		m := &metrics[i]
		tag, err := tx.Exec(ctx,
			`INSERT INTO candidate_skills
			     (candidate_id, master_skill_id, total_months, junior_months, mid_months,
			      senior_months, first_used_date, last_used_date, evidence_score,
			      evidence_sources, max_evidence_strength, match_confidence,
			      normalization_confidence, normalization_method, has_presence)
			 SELECT $1, ms.skill_id, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
			 FROM master_skills ms WHERE ms.skill_code = $2`,
			candidateID, m.SkillCode, m.TotalMonths, m.JuniorMonths, m.MidMonths,
			m.SeniorMonths, nullIfZeroTime(m.FirstUsed), nullIfZeroTime(m.LastUsed),
			m.EvidenceScore, m.EvidenceSources, m.MaxEvidenceStrength,
			m.MatchConfidence, m.NormalizationConfidence, m.NormalizationMethod,
			m.HasPresence)
		if err != nil {
			return &types.ErrPersistence{Op: "insert candidate skill", Err: err}
		}
		if tag.RowsAffected() == 0 {
			log.Printf("[DB] skipping unknown skill code %q for candidate %d", m.SkillCode, candidateID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &types.ErrPersistence{Op: "commit candidate skills", Err: err}
	}
	return nil
}

// GetCandidateSkills returns the candidate's skill rows joined with their
// master skill, ordered by skill code.
func (db *DB) GetCandidateSkills(ctx context.Context, candidateID int64) ([]ranking.CandidateSkillRow, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT cs.candidate_id, cs.master_skill_id, ms.skill_code, ms.skill_type,
		        ms.category, cs.total_months, cs.mid_months, cs.senior_months,
		        cs.last_used_date, cs.max_evidence_strength, cs.evidence_sources,
		        cs.normalization_method
		 FROM candidate_skills cs
		 JOIN master_skills ms ON ms.skill_id = cs.master_skill_id
		 WHERE cs.candidate_id = $1
		 ORDER BY ms.skill_code`,
		candidateID)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "get candidate skills", Err: err}
	}
	defer rows.Close()

	var result []ranking.CandidateSkillRow
	for rows.Next() {
		var row ranking.CandidateSkillRow
		var lastUsed *time.Time
		if err := rows.Scan(&row.CandidateID, &row.MasterSkillID, &row.SkillCode,
			&row.SkillType, &row.Category, &row.TotalMonths, &row.MidMonths,
			&row.SeniorMonths, &lastUsed, &row.MaxEvidenceStrength,
			&row.EvidenceSources, &row.NormalizationMethod); err != nil {
			return nil, &types.ErrPersistence{Op: "scan candidate skill", Err: err}
		}
		if lastUsed != nil {
			row.LastUsed = *lastUsed
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "get candidate skills", Err: err}
	}
	return result, nil
}

// GetCandidateNames resolves display names for a set of candidate ids.
// Missing ids are simply absent from the returned map.
func (db *DB) GetCandidateNames(ctx context.Context, candidateIDs []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return names, nil
	}

	rows, err := db.pool.Query(ctx,
		`SELECT candidate_id, full_name FROM candidates WHERE candidate_id = ANY($1)`,
		candidateIDs)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "get candidate names", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, &types.ErrPersistence{Op: "scan candidate name", Err: err}
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "get candidate names", Err: err}
	}
	return names, nil
}

// -----------------------------------------------------------------------------
// Eligibility Queries
// -----------------------------------------------------------------------------

// QueryEligibleCandidates returns the ids of candidates holding at least one
// row over the acceptable skills that meets the evidence, seniority, and
// recency predicates. Rows without a last-used date fail the recency check.
func (db *DB) QueryEligibleCandidates(ctx context.Context, filter ranking.SkillFilter) (map[int64]bool, error) {
	eligible := make(map[int64]bool)
	if len(filter.AcceptableIDs) == 0 {
		return eligible, nil
	}

	ids := make([]int64, 0, len(filter.AcceptableIDs))
	for id := range filter.AcceptableIDs {
		ids = append(ids, id)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT candidate_id
		 FROM candidate_skills
		 WHERE master_skill_id = ANY($1)
		   AND (total_months >= $2 OR max_evidence_strength >= $3)
		   AND mid_months >= $4
		   AND senior_months >= $5
		   AND last_used_date >= $6`,
		ids, filter.MinMonths, filter.RequiredStrength,
		filter.MinMidMonths, filter.MinSeniorMonths, filter.RecencyCutoff)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "query eligible candidates", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &types.ErrPersistence{Op: "scan eligible candidate", Err: err}
		}
		eligible[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "query eligible candidates", Err: err}
	}
	return eligible, nil
}

// QueryCategoryCandidates returns the ids of candidates holding at least
// min_required distinct skills in the category, each meeting the evidence,
// seniority, and recency predicates.
func (db *DB) QueryCategoryCandidates(ctx context.Context, filter ranking.CategoryFilter) (map[int64]bool, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT cs.candidate_id
		 FROM candidate_skills cs
		 JOIN master_skills ms ON ms.skill_id = cs.master_skill_id
		 WHERE ms.category = $1
		   AND (cs.total_months > 0 OR cs.max_evidence_strength >= $2)
		   AND cs.mid_months >= $3
		   AND cs.senior_months >= $4
		   AND cs.last_used_date >= $5
		 GROUP BY cs.candidate_id
		 HAVING COUNT(DISTINCT cs.master_skill_id) >= $6`,
		filter.Category, filter.RequiredStrength, filter.MinMidMonths,
		filter.MinSeniorMonths, filter.RecencyCutoff, filter.MinRequired)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "query category candidates", Err: err}
	}
	defer rows.Close()

	eligible := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, &types.ErrPersistence{Op: "scan category candidate", Err: err}
		}
		eligible[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "query category candidates", Err: err}
	}
	return eligible, nil
}

// nullIfZeroTime converts a zero time to SQL NULL
func nullIfZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
