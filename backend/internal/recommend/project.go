package recommend

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"lingograph/backend/internal/graph"
)

// Row projection from raw query records into output records. Rows missing
// both a lesson id and a topic carry no identity at all and are dropped
// silently; sparse seed data makes such rows expected, not exceptional.

func hasIdentity(lessonID, topic string) bool {
	return lessonID != "" || topic != ""
}

func projectStruggle(record *neo4j.Record) (StruggleRecord, bool) {
	rec := StruggleRecord{
		LessonID:    graph.StringValue(record, "lesson"),
		Topic:       graph.StringValue(record, "topic"),
		Difficulty:  graph.OptionalInt(record, "difficulty"),
		Description: graph.StringValue(record, "description"),
	}
	return rec, hasIdentity(rec.LessonID, rec.Topic)
}

func projectSimilarity(record *neo4j.Record) (SimilarityRecord, bool) {
	rec := SimilarityRecord{
		LessonID:    graph.StringValue(record, "lesson"),
		Topic:       graph.StringValue(record, "topic"),
		Description: graph.StringValue(record, "description"),
		Similarity:  graph.OptionalFloat(record, "similarity"),
	}
	return rec, hasIdentity(rec.LessonID, rec.Topic)
}

func projectCollaborative(record *neo4j.Record) (CollaborativeRecord, bool) {
	rec := CollaborativeRecord{
		LessonID:    graph.StringValue(record, "lesson"),
		Topic:       graph.StringValue(record, "topic"),
		Description: graph.StringValue(record, "description"),
		Votes:       graph.CountInt(record, "votes"),
	}
	return rec, hasIdentity(rec.LessonID, rec.Topic)
}

func projectSocial(record *neo4j.Record) (SocialRecord, bool) {
	count := graph.CountInt(record, "friend_count")
	rec := SocialRecord{
		LessonID:         graph.StringValue(record, "lesson"),
		Topic:            graph.StringValue(record, "topic"),
		Description:      graph.StringValue(record, "description"),
		FriendCount:      count,
		FriendsCompleted: count,
	}
	return rec, hasIdentity(rec.LessonID, rec.Topic)
}
