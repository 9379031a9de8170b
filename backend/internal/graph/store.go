package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"lingograph/backend/pkg/config"
	apperrors "lingograph/backend/pkg/errors"
	"lingograph/backend/pkg/logger"
)

// Store owns the Neo4j driver and hands out session-scoped read queries.
// All core queries are idempotent reads. There is no retry logic; a failed
// query surfaces once as a graph error and the session is released.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
	log      *zap.Logger
}

// NewStore creates the driver, verifies connectivity and returns the store.
// The driver is the only long-lived resource in the process; lifecycle is
// owned by the caller via Close.
func NewStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionPoolSize = cfg.Neo4jMaxPoolSize
			c.SocketConnectTimeout = cfg.Neo4jTimeout
		},
	)
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	vctx, cancel := context.WithTimeout(ctx, cfg.Neo4jTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(cfg.Neo4jURI, err)
	}

	return &Store{
		driver:   driver,
		database: cfg.Neo4jDatabase,
		log:      logger.Get(),
	}, nil
}

// ReadQuery runs a single read-only Cypher query in its own session and
// returns the collected records. The session is released on every exit path,
// including query failure and context cancellation.
func (s *Store) ReadQuery(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed(cypher, err)
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed(cypher, err)
	}
	return records, nil
}

// Close closes the Neo4j driver connection
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
