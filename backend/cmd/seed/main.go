package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"lingograph/backend/pkg/config"
	"lingograph/backend/pkg/logger"
)

const userCount = 50

var courses = []string{"es_en", "fr_en", "de_en"}

var skillsData = map[string][]string{
	"es_en": {"presente", "ser_estar", "subjuntivo", "preposiciones", "preterito"},
	"fr_en": {"articles", "passe_compose", "subjonctif", "pronouns"},
	"de_en": {"cases", "separable_verbs", "word_order", "adjective_endings"},
}

var skillDescriptions = map[string]string{
	"presente":          "Simple present tense: actions happening now or habits.",
	"ser_estar":         "The difference between \"ser\" and \"estar\": identity vs temporary state.",
	"subjuntivo":        "Subjunctive mood: expressions of doubt, desire or emotion.",
	"preposiciones":     "Prepositions of place, time and direction (en, a, de, con, por, ...).",
	"preterito":         "Past tense (preterite): actions completed in the past.",
	"articles":          "Definite and indefinite articles (le, la, les, un, une, des).",
	"passe_compose":     "Compound past tense: completed actions.",
	"subjonctif":        "Subjunctive mood: expressions of doubt, desire and emotion.",
	"pronouns":          "Personal, possessive and demonstrative pronouns.",
	"cases":             "Grammatical cases: nominative, accusative, dative and genitive.",
	"separable_verbs":   "Separable verbs: verbs with prefixes that split off.",
	"word_order":        "Word order: verb position within sentences.",
	"adjective_endings": "Adjective endings by case and gender.",
}

var tagsData = []string{"beginner", "intermediate", "advanced", "grammar", "vocabulary", "conversation"}

var achievementsData = []string{"first_lesson", "week_streak", "perfect_score", "polyglot", "dedicated_learner"}

var names = []string{
	"Ana García", "Carlos López", "María Rodríguez", "Juan Martínez", "Laura Fernández",
	"Pedro Sánchez", "Sofía González", "Diego Torres", "Carmen Ruiz", "Miguel Álvarez",
	"Elena Díaz", "Javier Moreno", "Paula Jiménez", "Alberto Castro", "Lucía Romero",
	"Fernando Navarro", "Isabel Ramos", "Roberto Gil", "Natalia Ortiz", "Daniel Serrano",
	"Marta Molina", "Andrés Delgado", "Cristina Vega", "Raúl Herrera", "Beatriz Mendoza",
	"Francisco Iglesias", "Sandra Campos", "Manuel Flores", "Alicia Vargas", "Jorge Cruz",
	"Patricia Herrero", "Ricardo Cabrera", "Silvia Márquez", "Antonio Soto", "Rosa Domínguez",
	"Luis Rubio", "Clara Montero", "Sergio Méndez", "Pilar Guerrero", "Óscar León",
	"Julia Pascual", "Alejandro Blanco", "Teresa Santana", "Víctor Ibáñez", "Irene Peña",
	"Pablo Nieto", "Marina Aguilar", "Enrique Cortés", "Eva Medina", "Rafael Reyes",
}

func main() {
	randSeed := flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible data")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...", zap.Int64("seed", *randSeed))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	ctx := context.Background()
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: cfg.Neo4jDatabase,
	})
	defer session.Close(ctx)

	rng := rand.New(rand.NewSource(*randSeed))
	s := &seeder{ctx: ctx, session: session, rng: rng, log: log}

	if err := s.run(); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	log.Info("Database fully populated")
}

type seeder struct {
	ctx     context.Context
	session neo4j.SessionWithContext
	rng     *rand.Rand
	log     *zap.Logger
}

func (s *seeder) run() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"wipe", s.wipe},
		{"constraints", s.constraints},
		{"users", s.createUsers},
		{"courses", s.createCourses},
		{"skills", s.createSkills},
		{"lessons", s.createLessons},
		{"tags", s.createTags},
		{"achievements", s.createAchievements},
		{"enrollments", s.relateEnrollments},
		{"teaches", s.relateTeaches},
		{"completions", s.relateCompletions},
		{"struggles", s.relateStruggles},
		{"similarities", s.relateSimilarities},
		{"tagged", s.relateTagged},
		{"friendships", s.relateFriendships},
		{"unlocked", s.relateUnlocked},
	}
	for _, step := range steps {
		s.log.Info("Seeding step", zap.String("step", step.name))
		if err := step.fn(); err != nil {
			return fmt.Errorf("step %s: %w", step.name, err)
		}
	}
	return s.report()
}

func (s *seeder) exec(cypher string, params map[string]any) error {
	result, err := s.session.Run(s.ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(s.ctx)
	return err
}

func (s *seeder) wipe() error {
	return s.exec(`MATCH (n) DETACH DELETE n`, nil)
}

func (s *seeder) constraints() error {
	statements := []string{
		`CREATE CONSTRAINT user_id_unique IF NOT EXISTS FOR (u:User) REQUIRE u.user_id IS UNIQUE`,
		`CREATE CONSTRAINT course_id_unique IF NOT EXISTS FOR (c:Course) REQUIRE c.course_id IS UNIQUE`,
		`CREATE CONSTRAINT skill_id_unique IF NOT EXISTS FOR (s:Skill) REQUIRE s.skill_id IS UNIQUE`,
		`CREATE CONSTRAINT lesson_id_unique IF NOT EXISTS FOR (l:Lesson) REQUIRE l.lesson_id IS UNIQUE`,
		`CREATE CONSTRAINT tag_name_unique IF NOT EXISTS FOR (t:Tag) REQUIRE t.name IS UNIQUE`,
		`CREATE CONSTRAINT achievement_id_unique IF NOT EXISTS FOR (a:Achievement) REQUIRE a.achievement_id IS UNIQUE`,
	}
	for _, stmt := range statements {
		if err := s.exec(stmt, nil); err != nil {
			s.log.Warn("Constraint creation failed (may already exist)", zap.Error(err))
		}
	}
	return nil
}

func (s *seeder) createUsers() error {
	for i := 0; i < userCount; i++ {
		err := s.exec(`
			CREATE (u:User {
				user_id: $user_id,
				name: $name,
				level: $level,
				xp_total: $xp,
				streak: $streak
			})
		`, map[string]any{
			"user_id": fmt.Sprintf("u%d", i+1),
			"name":    names[i],
			"level":   s.rng.Intn(25) + 1,
			"xp":      s.rng.Intn(49900) + 100,
			"streak":  s.rng.Intn(366),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) createCourses() error {
	for _, course := range courses {
		err := s.exec(`
			CREATE (c:Course {
				course_id: $cid,
				language_from: $from,
				language_to: $to
			})
		`, map[string]any{
			"cid":  course,
			"from": course[3:],
			"to":   course[:2],
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) createSkills() error {
	for _, course := range courses {
		for _, skill := range skillsData[course] {
			err := s.exec(`
				CREATE (s:Skill {
					skill_id: $sid,
					name: $name,
					area: 'grammar',
					course: $course
				})
			`, map[string]any{
				"sid":    course + "_" + skill,
				"name":   skill,
				"course": course,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) createLessons() error {
	lessonCounter := 1
	for _, course := range courses {
		for i, skillName := range skillsData[course] {
			skillDescription := skillDescriptions[skillName]
			if skillDescription == "" {
				skillDescription = "Grammar and vocabulary lesson."
			}

			numLessons := s.rng.Intn(2) + 2
			for j := 0; j < numLessons; j++ {
				lessonNum := j + 1
				description := skillDescription
				if lessonNum > 1 {
					description = fmt.Sprintf("%s Part %d: advanced practice and exercises.", skillDescription, lessonNum)
				}

				err := s.exec(`
					CREATE (l:Lesson {
						lesson_id: $lid,
						course_id: $cid,
						unit_id: $uid,
						topic: $topic,
						difficulty: $diff,
						description: $description
					})
				`, map[string]any{
					"lid":         fmt.Sprintf("L%d", lessonCounter),
					"cid":         course,
					"uid":         fmt.Sprintf("U%d", i/2+1),
					"topic":       fmt.Sprintf("%s_%d", skillName, lessonNum),
					"diff":        s.rng.Intn(5) + 1,
					"description": description,
				})
				if err != nil {
					return err
				}
				lessonCounter++
			}
		}
	}
	return nil
}

func (s *seeder) createTags() error {
	for _, tag := range tagsData {
		if err := s.exec(`CREATE (t:Tag {name: $tag})`, map[string]any{"tag": tag}); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) createAchievements() error {
	for _, achievement := range achievementsData {
		err := s.exec(`
			CREATE (a:Achievement {
				achievement_id: $aid,
				type: $type
			})
		`, map[string]any{
			"aid":  achievement,
			"type": strings.ReplaceAll(achievement, "_", " "),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) relateEnrollments() error {
	for i := 1; i <= userCount; i++ {
		numCourses := s.rng.Intn(2) + 1
		for _, idx := range s.rng.Perm(len(courses))[:numCourses] {
			err := s.exec(`
				MATCH (u:User {user_id: $uid}), (c:Course {course_id: $cid})
				CREATE (u)-[:ENROLLED_IN]->(c)
			`, map[string]any{"uid": fmt.Sprintf("u%d", i), "cid": courses[idx]})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// relateTeaches links each lesson to the skill its topic was derived from:
// the topic is "<skill>_<n>", so the skill name is everything before the
// final underscore.
func (s *seeder) relateTeaches() error {
	result, err := s.session.Run(s.ctx, `
		MATCH (l:Lesson)
		RETURN l.lesson_id AS lid, l.course_id AS cid, l.topic AS topic
	`, nil)
	if err != nil {
		return err
	}
	records, err := result.Collect(s.ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		lid, _ := record.Get("lid")
		cid, _ := record.Get("cid")
		topic, _ := record.Get("topic")
		topicStr, ok := topic.(string)
		if !ok {
			continue
		}
		cut := strings.LastIndex(topicStr, "_")
		if cut < 0 {
			continue
		}
		sid := fmt.Sprintf("%v_%s", cid, topicStr[:cut])

		err := s.exec(`
			MATCH (l:Lesson {lesson_id: $lid}), (s:Skill {skill_id: $sid})
			MERGE (l)-[:TEACHES]->(s)
		`, map[string]any{"lid": lid, "sid": sid})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) relateCompletions() error {
	for i := 1; i <= userCount; i++ {
		uid := fmt.Sprintf("u%d", i)

		result, err := s.session.Run(s.ctx, `
			MATCH (u:User {user_id: $uid})-[:ENROLLED_IN]->(c:Course)
			RETURN c.course_id AS cid
		`, map[string]any{"uid": uid})
		if err != nil {
			return err
		}
		courseRecords, err := result.Collect(s.ctx)
		if err != nil {
			return err
		}

		for _, courseRecord := range courseRecords {
			cid, _ := courseRecord.Get("cid")

			limit := s.rng.Intn(5) + 2
			lessonsResult, err := s.session.Run(s.ctx, `
				MATCH (l:Lesson {course_id: $cid})
				RETURN l.lesson_id AS lid
				ORDER BY rand()
				LIMIT $limit
			`, map[string]any{"cid": cid, "limit": limit})
			if err != nil {
				return err
			}
			lessonRecords, err := lessonsResult.Collect(s.ctx)
			if err != nil {
				return err
			}

			for _, lessonRecord := range lessonRecords {
				lid, _ := lessonRecord.Get("lid")
				completedAt := time.Now().UTC().AddDate(0, 0, -s.rng.Intn(30))

				err := s.exec(`
					MATCH (u:User {user_id: $uid}), (l:Lesson {lesson_id: $lid})
					CREATE (u)-[:COMPLETED {
						score: $score,
						attempts: $attempts,
						last_completed_at: datetime($completed_at)
					}]->(l)
				`, map[string]any{
					"uid":          uid,
					"lid":          lid,
					"score":        float64(int((s.rng.Float64()*0.4+0.6)*100)) / 100,
					"attempts":     s.rng.Intn(3) + 1,
					"completed_at": completedAt.Format(time.RFC3339),
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *seeder) relateStruggles() error {
	for i := 1; i <= userCount; i++ {
		if s.rng.Float64() >= 0.6 {
			continue
		}
		uid := fmt.Sprintf("u%d", i)

		result, err := s.session.Run(s.ctx, `
			MATCH (u:User {user_id: $uid})-[:ENROLLED_IN]->(c:Course)
			RETURN c.course_id AS cid
			LIMIT 1
		`, map[string]any{"uid": uid})
		if err != nil {
			return err
		}
		courseRecords, err := result.Collect(s.ctx)
		if err != nil {
			return err
		}
		if len(courseRecords) == 0 {
			continue
		}
		cid, _ := courseRecords[0].Get("cid")

		limit := s.rng.Intn(3) + 1
		skillsResult, err := s.session.Run(s.ctx, `
			MATCH (s:Skill {course: $cid})
			RETURN s.skill_id AS sid
			ORDER BY rand()
			LIMIT $limit
		`, map[string]any{"cid": cid, "limit": limit})
		if err != nil {
			return err
		}
		skillRecords, err := skillsResult.Collect(s.ctx)
		if err != nil {
			return err
		}

		for _, skillRecord := range skillRecords {
			sid, _ := skillRecord.Get("sid")
			// weight stays within [0.5, 1.0]
			weight := float64(int((s.rng.Float64()*0.5+0.5)*100)) / 100

			err := s.exec(`
				MATCH (u:User {user_id: $uid}), (s:Skill {skill_id: $sid})
				CREATE (u)-[:STRUGGLES_WITH {weight: $w}]->(s)
			`, map[string]any{"uid": uid, "sid": sid, "w": weight})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) relateSimilarities() error {
	for _, course := range courses {
		result, err := s.session.Run(s.ctx, `
			MATCH (l:Lesson {course_id: $cid})
			RETURN l.lesson_id AS lid
		`, map[string]any{"cid": course})
		if err != nil {
			return err
		}
		records, err := result.Collect(s.ctx)
		if err != nil {
			return err
		}

		lessonIDs := make([]string, 0, len(records))
		for _, record := range records {
			lid, _ := record.Get("lid")
			if str, ok := lid.(string); ok {
				lessonIDs = append(lessonIDs, str)
			}
		}
		if len(lessonIDs) < 2 {
			continue
		}

		pairs := 10
		if len(lessonIDs) < pairs {
			pairs = len(lessonIDs)
		}
		for i := 0; i < pairs; i++ {
			l1 := lessonIDs[s.rng.Intn(len(lessonIDs))]
			l2 := lessonIDs[s.rng.Intn(len(lessonIDs))]
			if l1 == l2 {
				continue
			}
			// weight stays within [0.5, 0.9]; the pairing is arbitrary, the
			// weight is opaque ranking input rather than computed similarity
			weight := float64(int((s.rng.Float64()*0.4+0.5)*100)) / 100

			err := s.exec(`
				MATCH (l1:Lesson {lesson_id: $l1}), (l2:Lesson {lesson_id: $l2})
				MERGE (l1)-[:SIMILAR_TO {weight: $w, source: 'error_cooccurrence'}]->(l2)
			`, map[string]any{"l1": l1, "l2": l2, "w": weight})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) relateTagged() error {
	result, err := s.session.Run(s.ctx, `
		MATCH (l:Lesson)
		RETURN l.lesson_id AS lid, l.difficulty AS diff
	`, nil)
	if err != nil {
		return err
	}
	records, err := result.Collect(s.ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		lid, _ := record.Get("lid")
		diff, _ := record.Get("diff")

		difficultyTag := "beginner"
		if d, ok := diff.(int64); ok {
			if d >= 4 {
				difficultyTag = "advanced"
			} else if d >= 2 {
				difficultyTag = "intermediate"
			}
		}

		err := s.exec(`
			MATCH (l:Lesson {lesson_id: $lid}), (t:Tag {name: $tag})
			CREATE (l)-[:TAGGED_AS]->(t)
		`, map[string]any{"lid": lid, "tag": difficultyTag})
		if err != nil {
			return err
		}

		err = s.exec(`
			MATCH (l:Lesson {lesson_id: $lid}), (t:Tag {name: 'grammar'})
			CREATE (l)-[:TAGGED_AS]->(t)
		`, map[string]any{"lid": lid})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) relateFriendships() error {
	for i := 0; i < 60; i++ {
		u1 := s.rng.Intn(userCount) + 1
		u2 := s.rng.Intn(userCount) + 1
		for u2 == u1 {
			u2 = s.rng.Intn(userCount) + 1
		}

		// MERGE on the undirected pattern keeps the unordered pair unique
		err := s.exec(`
			MATCH (u1:User {user_id: $u1}), (u2:User {user_id: $u2})
			MERGE (u1)-[:FRIEND_WITH]-(u2)
		`, map[string]any{"u1": fmt.Sprintf("u%d", u1), "u2": fmt.Sprintf("u%d", u2)})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) relateUnlocked() error {
	for i := 1; i <= userCount; i++ {
		numAchievements := s.rng.Intn(3) + 1
		for _, idx := range s.rng.Perm(len(achievementsData))[:numAchievements] {
			err := s.exec(`
				MATCH (u:User {user_id: $uid}), (a:Achievement {achievement_id: $aid})
				CREATE (u)-[:UNLOCKED]->(a)
			`, map[string]any{"uid": fmt.Sprintf("u%d", i), "aid": achievementsData[idx]})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) report() error {
	counts := []struct {
		label  string
		cypher string
		halve  bool
	}{
		{"users", `MATCH (u:User) RETURN count(u) AS c`, false},
		{"courses", `MATCH (c:Course) RETURN count(c) AS c`, false},
		{"lessons", `MATCH (l:Lesson) RETURN count(l) AS c`, false},
		{"skills", `MATCH (s:Skill) RETURN count(s) AS c`, false},
		{"tags", `MATCH (t:Tag) RETURN count(t) AS c`, false},
		{"achievements", `MATCH (a:Achievement) RETURN count(a) AS c`, false},
		{"ENROLLED_IN", `MATCH ()-[r:ENROLLED_IN]->() RETURN count(r) AS c`, false},
		{"COMPLETED", `MATCH ()-[r:COMPLETED]->() RETURN count(r) AS c`, false},
		{"STRUGGLES_WITH", `MATCH ()-[r:STRUGGLES_WITH]->() RETURN count(r) AS c`, false},
		{"TEACHES", `MATCH ()-[r:TEACHES]->() RETURN count(r) AS c`, false},
		{"SIMILAR_TO", `MATCH ()-[r:SIMILAR_TO]->() RETURN count(r) AS c`, false},
		{"TAGGED_AS", `MATCH ()-[r:TAGGED_AS]->() RETURN count(r) AS c`, false},
		{"FRIEND_WITH", `MATCH ()-[r:FRIEND_WITH]-() RETURN count(r) AS c`, true},
		{"UNLOCKED", `MATCH ()-[r:UNLOCKED]->() RETURN count(r) AS c`, false},
	}

	for _, entry := range counts {
		result, err := s.session.Run(s.ctx, entry.cypher, nil)
		if err != nil {
			return err
		}
		record, err := result.Single(s.ctx)
		if err != nil {
			return err
		}
		val, _ := record.Get("c")
		total, _ := val.(int64)
		if entry.halve {
			// undirected edge matched from both ends
			total /= 2
		}
		s.log.Info("Seeded", zap.String("entity", entry.label), zap.Int64("count", total))
	}
	return nil
}
