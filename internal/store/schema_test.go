package store

import (
	"slices"
	"testing"

	"entgo.io/ent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlab/arlab/ent/schema"
)

func entColumns(s ent.Interface) []string {
	var fields []ent.Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, s.Fields()...)

	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Descriptor().Name
	}
	return names
}

func TestDDLMatchesEntSchema(t *testing.T) {
	db := openTestStore(t).DB()

	tables := map[string]ent.Interface{
		tableProgress:      schema.Progress{},
		tableProgressSteps: schema.ProgressStep{},
		tableQuizAttempts:  schema.QuizAttempt{},
		tableLLMRequests:   schema.LLMRequestEvent{},
	}
	for table, s := range tables {
		t.Run(table, func(t *testing.T) {
			rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
			require.NoError(t, err)
			defer rows.Close()

			var columns []string
			for rows.Next() {
				var name string
				require.NoError(t, rows.Scan(&name))
				columns = append(columns, name)
			}
			require.NoError(t, rows.Err())
			require.NotEmpty(t, columns, "table missing")

			want := entColumns(s)
			for _, f := range want {
				assert.Contains(t, columns, f)
			}
			for _, c := range columns {
				if c == "id" {
					continue
				}
				assert.True(t, slices.Contains(want, c), "column %s has no schema field", c)
			}
		})
	}
}
