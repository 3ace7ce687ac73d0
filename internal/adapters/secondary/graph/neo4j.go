// Package graph mirrors follow edges into Neo4j.
package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jGraph struct {
	driver neo4j.DriverWithContext
}

func NewNeo4jGraph(driver neo4j.DriverWithContext) *Neo4jGraph {
	return &Neo4jGraph{driver: driver}
}

// Connect opens the driver and checks connectivity.
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j connectivity: %w", err)
	}
	slog.Info("✅ Connected to Neo4j")
	return driver, nil
}

// EnsureSchema makes Profile.id unique, which also indexes it.
func (g *Neo4jGraph) EnsureSchema(ctx context.Context) error {
	return g.write(ctx,
		`CREATE CONSTRAINT profile_id_unique IF NOT EXISTS FOR (p:Profile) REQUIRE p.id IS UNIQUE`,
		nil)
}

// Link is idempotent: MERGE creates the nodes and the edge only when missing.
func (g *Neo4jGraph) Link(ctx context.Context, actorID, targetID string) error {
	query := `
		MERGE (a:Profile {id: $actorId})
		MERGE (b:Profile {id: $targetId})
		MERGE (a)-[r:FOLLOWS]->(b)
		ON CREATE SET r.created_at = datetime()
	`
	return g.write(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
}

func (g *Neo4jGraph) Unlink(ctx context.Context, actorID, targetID string) error {
	query := `
		MATCH (:Profile {id: $actorId})-[r:FOLLOWS]->(:Profile {id: $targetId})
		DELETE r
	`
	return g.write(ctx, query, map[string]any{"actorId": actorID, "targetId": targetID})
}

func (g *Neo4jGraph) write(ctx context.Context, query string, params map[string]any) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}
