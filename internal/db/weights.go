package db

import (
	"context"
	"sort"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// LoadBaseWeights returns the global skill-type weight table.
func (db *DB) LoadBaseWeights(ctx context.Context) (map[string]float64, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_type, weight FROM skill_type_weights`)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "load base weights", Err: err}
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var skillType string
		var weight float64
		if err := rows.Scan(&skillType, &weight); err != nil {
			return nil, &types.ErrPersistence{Op: "scan base weight", Err: err}
		}
		weights[skillType] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "load base weights", Err: err}
	}
	return weights, nil
}

// GetRoleSkillTypeWeights returns the per-role multipliers for a
// (primary domain, seniority) pair. Rows declared for the "any" seniority
// level apply first so a seniority-specific row overrides them.
func (db *DB) GetRoleSkillTypeWeights(ctx context.Context, domain, seniority string) (map[string]float64, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill_type, multiplier
		 FROM role_skill_type_weights
		 WHERE primary_domain = $1
		   AND (seniority_level = $2 OR seniority_level = 'any')
		 ORDER BY CASE WHEN seniority_level = 'any' THEN 0 ELSE 1 END`,
		domain, seniority)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "load role weights", Err: err}
	}
	defer rows.Close()

	multipliers := make(map[string]float64)
	for rows.Next() {
		var skillType string
		var multiplier float64
		if err := rows.Scan(&skillType, &multiplier); err != nil {
			return nil, &types.ErrPersistence{Op: "scan role weight", Err: err}
		}
		multipliers[skillType] = multiplier
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "load role weights", Err: err}
	}
	return multipliers, nil
}

// LoadPrimaryDomains returns the distinct primary domains that have role
// weight rows, sorted. This is the whitelist the JD post-processor validates
// against.
func (db *DB) LoadPrimaryDomains(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT primary_domain FROM role_skill_type_weights
		 WHERE primary_domain <> ''`)
	if err != nil {
		return nil, &types.ErrPersistence{Op: "load primary domains", Err: err}
	}
	defer rows.Close()

	var domains []string
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return nil, &types.ErrPersistence{Op: "scan primary domain", Err: err}
		}
		domains = append(domains, domain)
	}
	if err := rows.Err(); err != nil {
		return nil, &types.ErrPersistence{Op: "load primary domains", Err: err}
	}

	sort.Strings(domains)
	return domains, nil
}

// UpsertBaseWeight sets the global weight for a skill type.
func (db *DB) UpsertBaseWeight(ctx context.Context, skillType string, weight float64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO skill_type_weights (skill_type, weight)
		 VALUES ($1, $2)
		 ON CONFLICT (skill_type) DO UPDATE SET weight = EXCLUDED.weight`,
		skillType, weight)
	if err != nil {
		return &types.ErrPersistence{Op: "upsert base weight", Err: err}
	}
	return nil
}

// UpsertRoleWeight sets the multiplier for a (domain, seniority, skill type)
// triple. Seniority "any" declares a domain-wide default.
func (db *DB) UpsertRoleWeight(ctx context.Context, domain, seniority, skillType string, multiplier float64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO role_skill_type_weights (primary_domain, seniority_level, skill_type, multiplier)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (primary_domain, seniority_level, skill_type)
		 DO UPDATE SET multiplier = EXCLUDED.multiplier`,
		domain, seniority, skillType, multiplier)
	if err != nil {
		return &types.ErrPersistence{Op: "upsert role weight", Err: err}
	}
	return nil
}
