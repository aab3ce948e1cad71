package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ProgressStep is one completed step of a Progress record. Deleting the
// record deletes its steps.
type ProgressStep struct {
	ent.Schema
}

func (ProgressStep) Fields() []ent.Field {
	return []ent.Field{
		field.String("lesson_id"),
		field.String("user_id"),
		field.Int("step_number").
			Positive().
			Comment("1-based step number"),
	}
}

func (ProgressStep) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id", "user_id", "step_number").Unique(),
	}
}
