package catalog

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lingograph/backend/internal/graph"
	apperrors "lingograph/backend/pkg/errors"
	"lingograph/backend/pkg/logger"
)

// RowSource issues read-only pattern queries against the property graph
type RowSource interface {
	ReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// Service answers the plain data queries around the recommendation engine:
// user profiles, course listings and aggregate graph statistics.
type Service struct {
	store RowSource
	log   *zap.Logger
}

// NewService creates a catalog service on top of a graph row source
func NewService(store RowSource) *Service {
	return &Service{
		store: store,
		log:   logger.Get(),
	}
}

// UserProfile aggregates a user node with its immediate relationships
type UserProfile struct {
	UserID           string   `json:"user_id"`
	Name             string   `json:"name"`
	Level            int      `json:"level"`
	XPTotal          int      `json:"xp_total"`
	Streak           int      `json:"streak"`
	Courses          []string `json:"courses"`
	LessonsCompleted int      `json:"lessons_completed"`
	Struggles        []string `json:"struggles"`
	FriendsCount     int      `json:"friends_count"`
}

const userProfileQuery = `
	MATCH (u:User {user_id: $uid})
	OPTIONAL MATCH (u)-[:ENROLLED_IN]->(c:Course)
	OPTIONAL MATCH (u)-[:COMPLETED]->(l:Lesson)
	OPTIONAL MATCH (u)-[:STRUGGLES_WITH]->(s:Skill)
	OPTIONAL MATCH (u)-[:FRIEND_WITH]-(friend:User)
	RETURN u,
	       collect(DISTINCT c.course_id) AS courses,
	       count(DISTINCT l) AS lessons_completed,
	       collect(DISTINCT s.name) AS struggles,
	       count(DISTINCT friend) AS friends_count
`

// GetUser returns a single user's profile, or ErrGraphUserNotFound
func (s *Service) GetUser(ctx context.Context, userID string) (*UserProfile, error) {
	records, err := s.store.ReadQuery(ctx, userProfileQuery, map[string]any{"uid": userID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NewGraphUserNotFound(userID)
	}

	record := records[0]
	profile := &UserProfile{
		Courses:          graph.StringSlice(record, "courses"),
		LessonsCompleted: graph.CountInt(record, "lessons_completed"),
		Struggles:        graph.StringSlice(record, "struggles"),
		FriendsCount:     graph.CountInt(record, "friends_count"),
	}

	val, ok := record.Get("u")
	if !ok {
		return nil, apperrors.NewGraphUserNotFound(userID)
	}
	node, ok := val.(neo4j.Node)
	if !ok {
		return nil, apperrors.NewGraphUserNotFound(userID)
	}
	profile.UserID = graph.PropString(node.Props, "user_id")
	profile.Name = graph.PropString(node.Props, "name")
	profile.Level = graph.PropInt(node.Props, "level")
	profile.XPTotal = graph.PropInt(node.Props, "xp_total")
	profile.Streak = graph.PropInt(node.Props, "streak")

	return profile, nil
}

// UserSummary is one row of the user listing
type UserSummary struct {
	UserID  string   `json:"user_id"`
	Name    string   `json:"name"`
	Level   int      `json:"level"`
	XPTotal int      `json:"xp_total"`
	Streak  int      `json:"streak"`
	Courses []string `json:"courses"`
}

const listUsersQuery = `
	MATCH (u:User)
	OPTIONAL MATCH (u)-[:ENROLLED_IN]->(c:Course)
	RETURN u, collect(DISTINCT c.course_id) AS courses
	ORDER BY u.user_id
	LIMIT 50
`

// ListUsers returns up to 50 users ordered by id
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	records, err := s.store.ReadQuery(ctx, listUsersQuery, nil)
	if err != nil {
		return nil, err
	}

	users := make([]UserSummary, 0, len(records))
	for _, record := range records {
		val, ok := record.Get("u")
		if !ok {
			continue
		}
		node, ok := val.(neo4j.Node)
		if !ok {
			continue
		}
		users = append(users, UserSummary{
			UserID:  graph.PropString(node.Props, "user_id"),
			Name:    graph.PropString(node.Props, "name"),
			Level:   graph.PropInt(node.Props, "level"),
			XPTotal: graph.PropInt(node.Props, "xp_total"),
			Streak:  graph.PropInt(node.Props, "streak"),
			Courses: graph.StringSlice(record, "courses"),
		})
	}
	return users, nil
}

// CourseSummary is one row of the course listing
type CourseSummary struct {
	CourseID      string `json:"course_id"`
	LanguageFrom  string `json:"language_from"`
	LanguageTo    string `json:"language_to"`
	EnrolledCount int    `json:"enrolled_count"`
	LessonsCount  int    `json:"lessons_count"`
}

const listCoursesQuery = `
	MATCH (c:Course)
	OPTIONAL MATCH (c)<-[:ENROLLED_IN]-(u:User)
	OPTIONAL MATCH (l:Lesson {course_id: c.course_id})
	RETURN c.course_id AS course_id,
	       c.language_from AS language_from,
	       c.language_to AS language_to,
	       count(DISTINCT u) AS enrolled_count,
	       count(DISTINCT l) AS lessons_count
	ORDER BY c.course_id
`

// ListCourses returns all courses with enrollment and lesson counts
func (s *Service) ListCourses(ctx context.Context) ([]CourseSummary, error) {
	records, err := s.store.ReadQuery(ctx, listCoursesQuery, nil)
	if err != nil {
		return nil, err
	}

	courses := make([]CourseSummary, 0, len(records))
	for _, record := range records {
		courses = append(courses, CourseSummary{
			CourseID:      graph.StringValue(record, "course_id"),
			LanguageFrom:  graph.StringValue(record, "language_from"),
			LanguageTo:    graph.StringValue(record, "language_to"),
			EnrolledCount: graph.CountInt(record, "enrolled_count"),
			LessonsCount:  graph.CountInt(record, "lessons_count"),
		})
	}
	return courses, nil
}

// LessonDetail is one row of a course's lesson listing
type LessonDetail struct {
	LessonID    string   `json:"lesson_id"`
	Topic       string   `json:"topic"`
	Difficulty  *int     `json:"difficulty"`
	UnitID      string   `json:"unit_id"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Completions int      `json:"completions"`
}

const courseLessonsQuery = `
	MATCH (l:Lesson {course_id: $cid})
	OPTIONAL MATCH (l)-[:TEACHES]->(s:Skill)
	OPTIONAL MATCH (u:User)-[:COMPLETED]->(l)
	RETURN l.lesson_id AS lesson_id,
	       l.topic AS topic,
	       l.difficulty AS difficulty,
	       l.unit_id AS unit_id,
	       l.description AS description,
	       collect(DISTINCT s.name) AS skills,
	       count(DISTINCT u) AS completions
	ORDER BY l.lesson_id
`

// CourseLessons returns the lessons of a course with taught skills and
// completion counts
func (s *Service) CourseLessons(ctx context.Context, courseID string) ([]LessonDetail, error) {
	records, err := s.store.ReadQuery(ctx, courseLessonsQuery, map[string]any{"cid": courseID})
	if err != nil {
		return nil, err
	}

	lessons := make([]LessonDetail, 0, len(records))
	for _, record := range records {
		lessons = append(lessons, LessonDetail{
			LessonID:    graph.StringValue(record, "lesson_id"),
			Topic:       graph.StringValue(record, "topic"),
			Difficulty:  graph.OptionalInt(record, "difficulty"),
			UnitID:      graph.StringValue(record, "unit_id"),
			Description: graph.StringValue(record, "description"),
			Skills:      graph.StringSlice(record, "skills"),
			Completions: graph.CountInt(record, "completions"),
		})
	}
	return lessons, nil
}

// Stats aggregates node and relationship totals. Friendships reports the
// undirected FRIEND_WITH relation once per pair: the raw match counts every
// edge twice, so the total is halved.
type Stats struct {
	Users            int `json:"users"`
	Courses          int `json:"courses"`
	Lessons          int `json:"lessons"`
	Skills           int `json:"skills"`
	Friendships      int `json:"friendships"`
	LessonsCompleted int `json:"lessons_completed"`
}

// GetStats runs the count queries concurrently and assembles the totals
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(cypher string, dest *int) func() error {
		return func() error {
			records, err := s.store.ReadQuery(gctx, cypher, nil)
			if err != nil {
				return err
			}
			if len(records) > 0 {
				*dest = graph.CountInt(records[0], "count")
			}
			return nil
		}
	}

	g.Go(count(`MATCH (u:User) RETURN count(u) AS count`, &stats.Users))
	g.Go(count(`MATCH (c:Course) RETURN count(c) AS count`, &stats.Courses))
	g.Go(count(`MATCH (l:Lesson) RETURN count(l) AS count`, &stats.Lessons))
	g.Go(count(`MATCH (s:Skill) RETURN count(s) AS count`, &stats.Skills))
	g.Go(count(`MATCH ()-[r:FRIEND_WITH]-() RETURN count(r) AS count`, &stats.Friendships))
	g.Go(count(`MATCH ()-[r:COMPLETED]->() RETURN count(r) AS count`, &stats.LessonsCompleted))

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.Friendships /= 2
	return stats, nil
}
