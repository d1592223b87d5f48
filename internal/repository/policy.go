package repository

import (
	"fmt"
	"shift-planner/internal/apperr"

	"gorm.io/gorm"
)

// DeleteAction is what happens to dependent rows when a parent is deleted.
type DeleteAction int

const (
	// Block refuses the delete while dependents exist.
	Block DeleteAction = iota
	// Cascade deletes dependents together with the parent.
	Cascade
	// Nullify keeps dependents and clears their reference column.
	Nullify
)

func (a DeleteAction) String() string {
	switch a {
	case Cascade:
		return "cascade"
	case Nullify:
		return "nullify"
	}
	return "block"
}

// Dependency links a parent table to a child table through a column.
type Dependency struct {
	Parent string
	Child  string
	Column string
	Action DeleteAction
}

// DeletePolicies is the full referential-integrity rule set. Tables are
// created without foreign keys, so this table is the only enforcement.
var DeletePolicies = []Dependency{
	{Parent: "roles", Child: "team_members", Column: "role_id", Action: Block},
	{Parent: "responsibilities", Child: "shift_assignments", Column: "responsibility_id", Action: Block},
	{Parent: "team_members", Child: "shift_assignments", Column: "team_member_id", Action: Cascade},
	{Parent: "team_members", Child: "absences", Column: "team_member_id", Action: Cascade},
	{Parent: "teams", Child: "team_members", Column: "team_id", Action: Nullify},
}

// PoliciesFor returns the dependencies whose parent is table.
func PoliciesFor(table string) []Dependency {
	var deps []Dependency
	for _, d := range DeletePolicies {
		if d.Parent == table {
			deps = append(deps, d)
		}
	}
	return deps
}

// deleteWithPolicy removes row id of table inside one transaction, applying
// every dependency rule first. Blocking rules are all checked before any
// cascade or nullify runs.
func deleteWithPolicy(db *gorm.DB, table string, model any, id uint) error {
	deps := PoliciesFor(table)

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, dep := range deps {
			if dep.Action != Block {
				continue
			}
			var count int64
			if err := tx.Table(dep.Child).Where(dep.Column+" = ?", id).Count(&count).Error; err != nil {
				return apperr.Storage(err, "count "+dep.Child)
			}
			if count > 0 {
				return apperr.New(apperr.ReferentialConflict,
					"cannot delete %s: %d %s still reference it", entityName(table), count, pluralName(dep.Child)).
					WithDetail("table", dep.Child).
					WithDetail("count", count)
			}
		}

		for _, dep := range deps {
			var query string
			switch dep.Action {
			case Cascade:
				query = fmt.Sprintf("DELETE FROM %s WHERE %s = ?", dep.Child, dep.Column)
			case Nullify:
				query = fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s = ?", dep.Child, dep.Column, dep.Column)
			default:
				continue
			}
			if err := tx.Exec(query, id).Error; err != nil {
				return apperr.Storage(err, dep.Action.String()+" "+dep.Child)
			}
		}

		result := tx.Delete(model, id)
		if result.Error != nil {
			return apperr.Storage(result.Error, "delete "+table)
		}
		if result.RowsAffected == 0 {
			return apperr.New(apperr.MissingReference, "%s %d not found", entityName(table), id)
		}
		return nil
	})
	return err
}

var tableNames = map[string][2]string{
	"roles":             {"role", "roles"},
	"responsibilities":  {"responsibility", "responsibilities"},
	"team_members":      {"team member", "team members"},
	"shift_assignments": {"shift assignment", "shift assignments"},
	"absences":          {"absence", "absences"},
	"teams":             {"team", "teams"},
}

func entityName(table string) string {
	if n, ok := tableNames[table]; ok {
		return n[0]
	}
	return table
}

func pluralName(table string) string {
	if n, ok := tableNames[table]; ok {
		return n[1]
	}
	return table
}
