package recommend

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"lingograph/backend/pkg/logger"
)

// RowSource issues read-only pattern queries against the property graph
type RowSource interface {
	ReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// Engine computes lesson recommendations from the current graph state.
// All strategies are pure reads; a syntactically valid user id that matches
// nothing in the graph yields empty results, never an error.
type Engine struct {
	store RowSource
	log   *zap.Logger
}

// NewEngine creates a recommendation engine on top of a graph row source
func NewEngine(store RowSource) *Engine {
	return &Engine{
		store: store,
		log:   logger.Get(),
	}
}

const strugglesQuery = `
	MATCH (u:User {user_id: $uid})-[:STRUGGLES_WITH]->(s:Skill)<-[:TEACHES]-(l:Lesson)
	RETURN l.lesson_id AS lesson,
	       l.topic AS topic,
	       l.difficulty AS difficulty,
	       l.description AS description
	ORDER BY coalesce(l.difficulty, 1) DESC, l.lesson_id ASC
	LIMIT 5
`

// Struggles recommends lessons that teach skills the user struggles with,
// hardest first. Missing difficulty sorts as 1 but is reported as null.
func (e *Engine) Struggles(ctx context.Context, userID string) ([]StruggleRecord, error) {
	records, err := e.store.ReadQuery(ctx, strugglesQuery, map[string]any{"uid": userID})
	if err != nil {
		return nil, err
	}

	recommendations := make([]StruggleRecord, 0, len(records))
	for _, record := range records {
		if rec, ok := projectStruggle(record); ok {
			recommendations = append(recommendations, rec)
		}
	}

	e.log.Debug("struggle recommendations computed",
		zap.String("user_id", userID),
		zap.Int("count", len(recommendations)),
	)
	return recommendations, nil
}

const similarQuery = `
	MATCH (u:User {user_id: $uid})-[c:COMPLETED]->(l:Lesson)
	WITH l, c.last_completed_at AS completed_at
	ORDER BY completed_at DESC, l.lesson_id ASC
	LIMIT 1
	MATCH (l)-[r:SIMILAR_TO]->(l2:Lesson)
	RETURN l2.lesson_id AS lesson,
	       l2.topic AS topic,
	       l2.description AS description,
	       r.weight AS similarity
	ORDER BY r.weight DESC, l2.lesson_id ASC
	LIMIT 5
`

// Similar recommends lessons linked by SIMILAR_TO edges from the user's most
// recently completed lesson. A user with no completions gets an empty list.
func (e *Engine) Similar(ctx context.Context, userID string) ([]SimilarityRecord, error) {
	records, err := e.store.ReadQuery(ctx, similarQuery, map[string]any{"uid": userID})
	if err != nil {
		return nil, err
	}

	recommendations := make([]SimilarityRecord, 0, len(records))
	for _, record := range records {
		if rec, ok := projectSimilarity(record); ok {
			recommendations = append(recommendations, rec)
		}
	}

	e.log.Debug("similarity recommendations computed",
		zap.String("user_id", userID),
		zap.Int("count", len(recommendations)),
	)
	return recommendations, nil
}

const collaborativeQuery = `
	MATCH (u:User {user_id: $uid})-[:STRUGGLES_WITH]->(s:Skill)<-[:STRUGGLES_WITH]-(o:User),
	      (o)-[:COMPLETED]->(l:Lesson)
	WHERE NOT (u)-[:COMPLETED]->(l)
	RETURN l.lesson_id AS lesson,
	       l.topic AS topic,
	       l.description AS description,
	       count(*) AS votes
	ORDER BY votes DESC, l.lesson_id ASC
	LIMIT 5
`

// Collaborative recommends lessons completed by users who share a struggled
// skill with the target user, excluding lessons the user already completed.
// Votes counts matching paths: one peer struggling with two shared skills
// contributes two votes to each of their completed lessons.
func (e *Engine) Collaborative(ctx context.Context, userID string) ([]CollaborativeRecord, error) {
	records, err := e.store.ReadQuery(ctx, collaborativeQuery, map[string]any{"uid": userID})
	if err != nil {
		return nil, err
	}

	recommendations := make([]CollaborativeRecord, 0, len(records))
	for _, record := range records {
		if rec, ok := projectCollaborative(record); ok {
			recommendations = append(recommendations, rec)
		}
	}

	e.log.Debug("collaborative recommendations computed",
		zap.String("user_id", userID),
		zap.Int("count", len(recommendations)),
	)
	return recommendations, nil
}

const socialQuery = `
	MATCH (u:User {user_id: $uid})-[:FRIEND_WITH]-(friend:User)-[:COMPLETED]->(l:Lesson)
	WHERE NOT (u)-[:COMPLETED]->(l)
	RETURN l.lesson_id AS lesson,
	       l.topic AS topic,
	       l.description AS description,
	       count(DISTINCT friend) AS friend_count
	ORDER BY friend_count DESC, l.lesson_id ASC
	LIMIT 5
`

// Social recommends lessons completed by the user's friends, ranked by the
// number of distinct friends who completed each one. FRIEND_WITH is matched
// without direction; the edge is symmetric by construction.
func (e *Engine) Social(ctx context.Context, userID string) ([]SocialRecord, error) {
	records, err := e.store.ReadQuery(ctx, socialQuery, map[string]any{"uid": userID})
	if err != nil {
		return nil, err
	}

	recommendations := make([]SocialRecord, 0, len(records))
	for _, record := range records {
		if rec, ok := projectSocial(record); ok {
			recommendations = append(recommendations, rec)
		}
	}

	e.log.Debug("social recommendations computed",
		zap.String("user_id", userID),
		zap.Int("count", len(recommendations)),
	)
	return recommendations, nil
}
