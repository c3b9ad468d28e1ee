package db

import (
	"context"
	"fmt"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// -----------------------------------------------------------------------------
// Taxonomy Load Methods
// -----------------------------------------------------------------------------

// LoadMasterSkills returns every master skill in id order, embeddings
// included. The taxonomy index is built from this list once at engine
// construction.
func (db *DB) LoadMasterSkills(ctx context.Context) ([]types.MasterSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_id, skill_code, skill_name, skill_type, category,
		        parent_skill_id, aliases, skill_tokens, disambiguation_rules, embedding
		 FROM master_skills ORDER BY skill_id`)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "load master skills", Err: err}
	}
	defer rows.Close()

	var skills []types.MasterSkill
	for rows.Next() {
		var s types.MasterSkill
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.SkillType, &s.Category,
			&s.ParentID, &s.Aliases, &s.Tokens, &s.Rules, &s.Embedding); err != nil {
			return nil, &types.ErrPersistence{Op: "scan master skill", Err: err}
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "load master skills", Err: err}
	}
	return skills, nil
}

// LoadSkillImplications returns all implication edges in deterministic order.
func (db *DB) LoadSkillImplications(ctx context.Context) ([]types.SkillImplication, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT from_skill_code, to_skill_code
		 FROM skill_implications ORDER BY from_skill_code, to_skill_code`)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "load skill implications", Err: err}
	}
	defer rows.Close()

	var implications []types.SkillImplication
	for rows.Next() {
		var imp types.SkillImplication
		if err := rows.Scan(&imp.FromCode, &imp.ToCode); err != nil {
			return nil, &types.ErrPersistence{Op: "scan skill implication", Err: err}
		}
		implications = append(implications, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "load skill implications", Err: err}
	}
	return implications, nil
}

// LoadVectorEntries returns the skills that carry an embedding. The master
// back-reference is attached when the taxonomy index is built; entries here
// carry code, type, and vector only.
func (db *DB) LoadVectorEntries(ctx context.Context) ([]types.VectorEntry, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_code, skill_type, embedding
		 FROM master_skills WHERE embedding IS NOT NULL ORDER BY skill_id`)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "load vector entries", Err: err}
	}
	defer rows.Close()

	var entries []types.VectorEntry
	for rows.Next() {
		var entry types.VectorEntry
		if err := rows.Scan(&entry.SkillCode, &entry.SkillType, &entry.Embedding); err != nil {
			return nil, &types.ErrPersistence{Op: "scan vector entry", Err: err}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "load vector entries", Err: err}
	}
	return entries, nil
}

// LoadCategories returns the distinct non-empty skill categories, sorted.
// Injected into the JD extraction prompt as the category vocabulary.
func (db *DB) LoadCategories(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT category FROM master_skills
		 WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "load categories", Err: err}
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, &types.ErrPersistence{Op: "scan category", Err: err}
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "load categories", Err: err}
	}
	return categories, nil
}

// -----------------------------------------------------------------------------
// Taxonomy Seeding Methods
// -----------------------------------------------------------------------------

// UpsertMasterSkill inserts or updates a skill by code and returns its id.
// Embeddings and parent links are managed separately so a re-seed does not
// wipe them.
func (db *DB) UpsertMasterSkill(ctx context.Context, skill *types.MasterSkill) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO master_skills
		     (skill_code, skill_name, skill_type, category, aliases, skill_tokens, disambiguation_rules)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (skill_code) DO UPDATE SET
		     skill_name = EXCLUDED.skill_name,
		     skill_type = EXCLUDED.skill_type,
		     category = EXCLUDED.category,
		     aliases = EXCLUDED.aliases,
		     skill_tokens = EXCLUDED.skill_tokens,
		     disambiguation_rules = EXCLUDED.disambiguation_rules
		 RETURNING skill_id`,
		skill.Code, skill.Name, skill.SkillType, skill.Category,
		skill.Aliases, skill.Tokens, skill.Rules,
	).Scan(&id)
	if err != nil {
		return 0, &types.ErrPersistence{Op: "upsert master skill", Err: err}
	}
	return id, nil
}

// SetSkillParent links a skill to its parent by code. Parent links are set in
// a second seeding pass, after every code has a row. An unknown parent code
// clears the link.
func (db *DB) SetSkillParent(ctx context.Context, skillCode, parentCode string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE master_skills
		 SET parent_skill_id = (SELECT skill_id FROM master_skills WHERE skill_code = $2)
		 WHERE skill_code = $1`,
		skillCode, parentCode)
	if err != nil {
		return &types.ErrPersistence{Op: "set skill parent", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &types.ErrPersistence{Op: "set skill parent", Err: fmt.Errorf("unknown skill code %q", skillCode)}
	}
	return nil
}

// UpsertSkillImplication records a directed implication edge. Duplicate edges
// are ignored.
func (db *DB) UpsertSkillImplication(ctx context.Context, fromCode, toCode string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO skill_implications (from_skill_code, to_skill_code)
		 VALUES ($1, $2)
		 ON CONFLICT (from_skill_code, to_skill_code) DO NOTHING`,
		fromCode, toCode)
	if err != nil {
		return &types.ErrPersistence{Op: "upsert skill implication", Err: err}
	}
	return nil
}

// SetSkillEmbedding stores the vector for a skill.
func (db *DB) SetSkillEmbedding(ctx context.Context, skillCode string, embedding []float32) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE master_skills SET embedding = $2 WHERE skill_code = $1`,
		skillCode, embedding)
	if err != nil {
		return &types.ErrPersistence{Op: "set skill embedding", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &types.ErrPersistence{Op: "set skill embedding", Err: fmt.Errorf("unknown skill code %q", skillCode)}
	}
	return nil
}
