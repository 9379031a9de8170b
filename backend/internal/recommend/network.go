package recommend

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"lingograph/backend/internal/graph"
)

const (
	maxNetworkDepth = 2
	maxNetworkPeers = 20

	relationshipDirect         = "direct friend"
	relationshipFriendOfFriend = "friend of a friend"
)

// peerNode is a user adjacent to some frontier node
type peerNode struct {
	id   string
	name string
}

// neighborFetcher returns the FRIEND_WITH neighbors for a batch of user ids,
// keyed by source id. The relation is symmetric: an edge stored in either
// direction must appear in both adjacency lists.
type neighborFetcher func(ctx context.Context, userIDs []string) (map[string][]peerNode, error)

const friendNeighborsQuery = `
	MATCH (u:User)-[:FRIEND_WITH]-(f:User)
	WHERE u.user_id IN $ids
	RETURN u.user_id AS source, f.user_id AS user_id, f.name AS name
`

// Network walks the friendship relation breadth-first from the target user,
// up to two hops, and classifies every reached user by shortest distance.
// A user reachable both directly and through a mutual friend is reported
// once, at distance 1. The start user is never included.
func (e *Engine) Network(ctx context.Context, userID string) ([]NetworkPeer, error) {
	fetch := func(ctx context.Context, ids []string) (map[string][]peerNode, error) {
		records, err := e.store.ReadQuery(ctx, friendNeighborsQuery, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		adjacency := make(map[string][]peerNode, len(ids))
		for _, record := range records {
			source := graph.StringValue(record, "source")
			peer := peerNode{
				id:   graph.StringValue(record, "user_id"),
				name: graph.StringValue(record, "name"),
			}
			if source == "" || peer.id == "" {
				continue
			}
			adjacency[source] = append(adjacency[source], peer)
		}
		return adjacency, nil
	}

	peers, err := traverseNetwork(ctx, userID, fetch)
	if err != nil {
		return nil, err
	}

	e.log.Debug("network traversal computed",
		zap.String("user_id", userID),
		zap.Int("count", len(peers)),
	)
	return peers, nil
}

// traverseNetwork is the bounded BFS core. One batched neighbor query per
// level; visited tracking guarantees shortest-distance classification and
// single appearance per user id.
func traverseNetwork(ctx context.Context, start string, fetch neighborFetcher) ([]NetworkPeer, error) {
	visited := map[string]bool{start: true}
	frontier := []string{start}
	peers := make([]NetworkPeer, 0)

	for depth := 1; depth <= maxNetworkDepth && len(frontier) > 0; depth++ {
		adjacency, err := fetch(ctx, frontier)
		if err != nil {
			return nil, err
		}

		next := make([]string, 0)
		for _, source := range frontier {
			for _, peer := range adjacency[source] {
				if visited[peer.id] {
					continue
				}
				visited[peer.id] = true
				peers = append(peers, NetworkPeer{
					UserID:       peer.id,
					Name:         peer.name,
					Distance:     depth,
					Relationship: relationshipLabel(depth),
				})
				next = append(next, peer.id)
			}
		}
		frontier = next
	}

	sort.Slice(peers, func(i, j int) bool {
		if peers[i].Distance != peers[j].Distance {
			return peers[i].Distance < peers[j].Distance
		}
		if peers[i].Name != peers[j].Name {
			return peers[i].Name < peers[j].Name
		}
		return peers[i].UserID < peers[j].UserID
	})

	if len(peers) > maxNetworkPeers {
		peers = peers[:maxNetworkPeers]
	}
	return peers, nil
}

func relationshipLabel(distance int) string {
	if distance == 1 {
		return relationshipDirect
	}
	return relationshipFriendOfFriend
}
