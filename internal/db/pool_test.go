package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://postgres@localhost:5432/hoosfit",
		ConnString(NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "hoosfit"}),
	)
	assert.Equal(t,
		"postgres://fit:p%40ss@db:5433/hoosfit_test",
		ConnString(NewDBPoolParams{DBHost: "db", DBPort: "5433", DBName: "hoosfit_test", DBUser: "fit", DBPassword: "p@ss"}),
	)
}

func TestSchema(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"account", "profile", "exercise_definition", "workout", "workout_exercise", "exercise_log", "award"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table+"\n")
	}
	assert.Equal(t, strings.Count(schema, "CREATE TABLE"), strings.Count(schema, "IF NOT EXISTS")-strings.Count(schema, "INDEX IF NOT EXISTS"))
}
