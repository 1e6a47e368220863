package models

import (
	"fmt"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

/*
Query helper generation:

1. Set the environment variable: GENERATE_MODELS=true
2. Run either service binary.

Typed query helpers for every persisted model are written to ./generated and the
process exits. The schema itself is owned by the SQL migrations in database/migrations;
CheckSchema reports drift between those migrations and the structs in this package.
*/

// Persisted lists every model backed by a table.
func Persisted() []any {
	return []any{User{}, Blog{}, Comment{}}
}

// GenerateQueries writes gorm/gen query helpers for the persisted models into outPath.
func GenerateQueries(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Persisted()...)
	g.Execute()

	return nil
}

// CheckSchema compares each persisted model's columns with the live table and returns,
// per table, the model columns the database is missing. An empty map means no drift.
func CheckSchema(db *gorm.DB) (map[string][]string, error) {
	drift := make(map[string][]string)

	for _, model := range Persisted() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}

		dbColumns, err := getTableColumns(db, stmt.Schema.Table)
		if err != nil {
			return nil, err
		}

		if missing := findColumnMismatches(modelColumns(stmt.Schema), dbColumns); len(missing) > 0 {
			drift[stmt.Schema.Table] = missing
		}
	}

	return drift, nil
}

// getTableColumns retrieves column names from a database table
func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`

	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", tableName)
	}

	return columns, nil
}

func modelColumns(s *schema.Schema) []string {
	var columns []string
	for _, field := range s.Fields {
		if field.DBName != "" {
			columns = append(columns, field.DBName)
		}
	}
	return columns
}

// findColumnMismatches returns the entries of want that are absent from have, sorted.
func findColumnMismatches(want, have []string) []string {
	haveSet := make(map[string]bool, len(have))
	for _, col := range have {
		haveSet[col] = true
	}

	var mismatches []string
	for _, col := range want {
		if !haveSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)

	return mismatches
}
