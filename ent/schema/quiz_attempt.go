package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizAttempt is one submitted quiz, kept for history.
type QuizAttempt struct {
	ent.Schema
}

func (QuizAttempt) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizAttempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID assigned at submit time"),
		field.String("lesson_id"),
		field.String("user_id"),
		field.String("quiz_id"),
		field.Int("score"),
		field.Int("correct"),
		field.Int("total"),
		field.Bool("passed"),
		field.Strings("answers").
			Comment("Given answers in question order, JSON encoded"),
		field.Int64("submitted_at_ms"),
	}
}

func (QuizAttempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("lesson_id", "user_id", "sequence"),
	}
}
