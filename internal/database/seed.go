package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

var seedMajors = []string{
	"Accounting",
	"Architecture",
	"Civil Engineering",
	"Communication Studies",
	"Computer Science",
	"Economics",
	"Electrical Engineering",
	"Graphic Design",
	"History",
	"Information Systems",
	"Law",
	"Management",
	"Mathematics",
	"Mechanical Engineering",
	"Medicine",
	"Psychology",
}

var seedSkills = []Skill{
	{Name: "Python", Type: "Programming"},
	{Name: "Go", Type: "Programming"},
	{Name: "JavaScript", Type: "Programming"},
	{Name: "Java", Type: "Programming"},
	{Name: "SQL", Type: "Database"},
	{Name: "Data Analysis", Type: "Analytics"},
	{Name: "Machine Learning", Type: "Analytics"},
	{Name: "Microsoft Excel", Type: "Office"},
	{Name: "Financial Reporting", Type: "Finance"},
	{Name: "Bookkeeping", Type: "Finance"},
	{Name: "AutoCAD", Type: "Engineering"},
	{Name: "Circuit Design", Type: "Engineering"},
	{Name: "Adobe Photoshop", Type: "Design"},
	{Name: "UI/UX Design", Type: "Design"},
	{Name: "Archival Research", Type: "Research"},
	{Name: "Academic Writing", Type: "Research"},
	{Name: "Legal Drafting", Type: "Legal"},
	{Name: "Public Speaking", Type: "Soft Skill"},
	{Name: "Project Management", Type: "Soft Skill"},
	{Name: "Teamwork", Type: "Soft Skill"},
}

// SeedReferenceData inserts the majors and skills catalogues. Existing rows
// are left untouched, so it can run on every deploy.
func SeedReferenceData(ctx context.Context, db bun.IDB) error {
	majors := make([]Major, 0, len(seedMajors))
	for _, name := range seedMajors {
		majors = append(majors, Major{Name: name})
	}

	if _, err := db.NewInsert().Model(&majors).On("CONFLICT (name) DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed majors: %w", err)
	}

	skills := make([]Skill, len(seedSkills))
	copy(skills, seedSkills)
	if _, err := db.NewInsert().Model(&skills).On("CONFLICT (name) DO NOTHING").Exec(ctx); err != nil {
		return fmt.Errorf("failed to seed skills: %w", err)
	}

	return nil
}
