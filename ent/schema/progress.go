package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Progress is one learner's state for one lesson, keyed by
// (lesson_id, user_id). Completed steps live in ProgressStep.
type Progress struct {
	ent.Schema
}

func (Progress) Fields() []ent.Field {
	return []ent.Field{
		field.String("lesson_id").
			Immutable(),
		field.String("user_id").
			Immutable(),
		field.Int("quiz_score").
			Default(0).
			Comment("Latest quiz score, 0..100"),
		field.Int("quiz_attempts").
			Default(0),
		field.Bool("is_completed").
			Default(false).
			Comment("Follows the latest quiz result"),
		field.Int64("last_accessed_ms").
			Default(0).
			Comment("Unix milliseconds"),
		field.Int64("time_spent_ms").
			Default(0),
		field.Bool("bookmarked").
			Default(false),
	}
}

func (Progress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id", "user_id").Unique(),
		index.Fields("user_id"),
	}
}
