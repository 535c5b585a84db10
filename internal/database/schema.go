package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type table struct {
	model       any
	foreignKeys []string
}

// tables lists models in dependency order.
var tables = []table{
	{model: (*Major)(nil)},
	{model: (*Skill)(nil)},
	{model: (*Company)(nil)},
	{
		model:       (*User)(nil),
		foreignKeys: []string{`("major_id") REFERENCES "majors" ("id") ON DELETE SET NULL`},
	},
	{
		model: (*UserSkill)(nil),
		foreignKeys: []string{
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
			`("skill_id") REFERENCES "skills" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*SkillRequirement)(nil),
		foreignKeys: []string{
			`("company_id") REFERENCES "companies" ("id") ON DELETE CASCADE`,
			`("skill_id") REFERENCES "skills" ("id") ON DELETE CASCADE`,
		},
	},
	{model: (*PasswordReset)(nil)},
	{
		model:       (*JobMatchResult)(nil),
		foreignKeys: []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
	},
}

type index struct {
	model   any
	name    string
	columns []string
}

var indexes = []index{
	{model: (*PasswordReset)(nil), name: "password_resets_email_idx", columns: []string{"email"}},
	{model: (*JobMatchResult)(nil), name: "job_match_results_user_id_idx", columns: []string{"user_id"}},
	{model: (*UserSkill)(nil), name: "user_skills_user_id_idx", columns: []string{"user_id"}},
}

// CreateSchema creates every table and index that does not exist yet.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", t.model, err)
		}
	}

	for _, idx := range indexes {
		_, err := db.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
