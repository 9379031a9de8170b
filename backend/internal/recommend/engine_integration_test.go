package recommend

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lingograph/backend/internal/graph"
	"lingograph/backend/pkg/config"
)

// Integration tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.

// Fixture nodes carry this prefix so cleanup cannot touch seeded data.
const fixturePrefix = "itest_"

func newIntegrationEngine(t *testing.T) (*Engine, neo4j.SessionWithContext) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	store, err := graph.NewStore(context.Background(), cfg)
	require.NoError(t, err)

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	require.NoError(t, err)

	session := driver.NewSession(context.Background(), neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: cfg.Neo4jDatabase,
	})

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = session.Run(ctx, `
			MATCH (n)
			WHERE n.user_id STARTS WITH $p
			   OR n.lesson_id STARTS WITH $p
			   OR n.skill_id STARTS WITH $p
			DETACH DELETE n
		`, map[string]any{"p": fixturePrefix})
		_ = session.Close(ctx)
		_ = driver.Close(ctx)
		_ = store.Close(ctx)
	})

	return NewEngine(store), session
}

func seedFixture(t *testing.T, session neo4j.SessionWithContext, cypher string) {
	t.Helper()
	_, err := session.Run(context.Background(), cypher, nil)
	require.NoError(t, err)
}

func TestCollaborativeExcludesCompletedLessons(t *testing.T) {
	engine, session := newIntegrationEngine(t)

	seedFixture(t, session, `
		CREATE (a:User {user_id: 'itest_u1', name: 'Ana'})
		CREATE (b:User {user_id: 'itest_u2', name: 'Beto'})
		CREATE (s:Skill {skill_id: 'itest_sk1', name: 'subjuntivo'})
		CREATE (l1:Lesson {lesson_id: 'itest_L1', topic: 'subjuntivo_1', difficulty: 3, description: 'one'})
		CREATE (l2:Lesson {lesson_id: 'itest_L2', topic: 'subjuntivo_2', difficulty: 3, description: 'two'})
		CREATE (a)-[:STRUGGLES_WITH]->(s)
		CREATE (b)-[:STRUGGLES_WITH]->(s)
		CREATE (b)-[:COMPLETED]->(l1)
		CREATE (b)-[:COMPLETED]->(l2)
		CREATE (a)-[:COMPLETED]->(l1)
	`)

	recs, err := engine.Collaborative(context.Background(), "itest_u1")
	require.NoError(t, err)

	// l1 is completed by the target user and must never resurface
	require.Len(t, recs, 1)
	assert.Equal(t, "itest_L2", recs[0].LessonID)
	assert.Equal(t, 1, recs[0].Votes)
}

func TestSocialExcludesCompletedAndMatchesEitherDirection(t *testing.T) {
	engine, session := newIntegrationEngine(t)

	// the friendship edge is stored pointing AT the target user; the
	// undirected match must still find it
	seedFixture(t, session, `
		CREATE (a:User {user_id: 'itest_u1', name: 'Ana'})
		CREATE (c:User {user_id: 'itest_u2', name: 'Carlos'})
		CREATE (l1:Lesson {lesson_id: 'itest_L1', topic: 'articles_1', description: 'one'})
		CREATE (l2:Lesson {lesson_id: 'itest_L2', topic: 'articles_2', description: 'two'})
		CREATE (c)-[:FRIEND_WITH]->(a)
		CREATE (c)-[:COMPLETED]->(l1)
		CREATE (c)-[:COMPLETED]->(l2)
		CREATE (a)-[:COMPLETED]->(l1)
	`)

	recs, err := engine.Social(context.Background(), "itest_u1")
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "itest_L2", recs[0].LessonID)
	assert.Equal(t, 1, recs[0].FriendCount)
	assert.Equal(t, 1, recs[0].FriendsCompleted)
}

func TestNetworkDistancesOverLiveGraph(t *testing.T) {
	engine, session := newIntegrationEngine(t)

	// both edges stored against the traversal direction
	seedFixture(t, session, `
		CREATE (a:User {user_id: 'itest_u1', name: 'Ana'})
		CREATE (c:User {user_id: 'itest_u2', name: 'Carlos'})
		CREATE (d:User {user_id: 'itest_u3', name: 'Dana'})
		CREATE (c)-[:FRIEND_WITH]->(a)
		CREATE (d)-[:FRIEND_WITH]->(c)
	`)

	peers, err := engine.Network(context.Background(), "itest_u1")
	require.NoError(t, err)

	require.Len(t, peers, 2)
	assert.Equal(t, "itest_u2", peers[0].UserID)
	assert.Equal(t, 1, peers[0].Distance)
	assert.Equal(t, "direct friend", peers[0].Relationship)
	assert.Equal(t, "itest_u3", peers[1].UserID)
	assert.Equal(t, 2, peers[1].Distance)
	assert.Equal(t, "friend of a friend", peers[1].Relationship)
}

func TestStrugglesOrdersTiesByLessonID(t *testing.T) {
	engine, session := newIntegrationEngine(t)

	seedFixture(t, session, `
		CREATE (a:User {user_id: 'itest_u1', name: 'Ana'})
		CREATE (s:Skill {skill_id: 'itest_sk1', name: 'ser_estar'})
		CREATE (l3:Lesson {lesson_id: 'itest_L3', topic: 'ser_estar_3', difficulty: 2, description: 'three'})
		CREATE (l1:Lesson {lesson_id: 'itest_L1', topic: 'ser_estar_1', difficulty: 2, description: 'one'})
		CREATE (l2:Lesson {lesson_id: 'itest_L2', topic: 'ser_estar_2', difficulty: 2, description: 'two'})
		CREATE (a)-[:STRUGGLES_WITH]->(s)
		CREATE (l1)-[:TEACHES]->(s)
		CREATE (l2)-[:TEACHES]->(s)
		CREATE (l3)-[:TEACHES]->(s)
	`)

	recs, err := engine.Struggles(context.Background(), "itest_u1")
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, "itest_L1", recs[0].LessonID)
	assert.Equal(t, "itest_L2", recs[1].LessonID)
	assert.Equal(t, "itest_L3", recs[2].LessonID)
}
