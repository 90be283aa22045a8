// Package graph is the node and edge container. It owns storage and the
// derived color and role lookups, and performs no validation of its own:
// invariant checks are supplied by callers and run inside the store's
// critical sections.
package graph

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/cluso-typegraph/pkg/category"
)

// DefaultShardCount is the number of per-node lock shards
const DefaultShardCount = 256

type edgeKey struct {
	from, to uint64
}

// Store is an in-memory graph store.
//
// Lock order is shard locks (ascending index) before mu. mu guards the maps
// and indexes; a shard lock guards the edge sets of the nodes hashed to it.
type Store struct {
	mu      sync.RWMutex
	nodes   map[uint64]*Node
	edges   map[uint64]*Edge
	pairs   map[edgeKey]uint64
	byColor map[category.Color]map[uint64]struct{}
	byRole  map[category.Role]map[uint64]struct{}

	shardLocks []*sync.RWMutex
	shardMask  uint64

	nextNodeID uint64
	nextEdgeID uint64
	stats      Statistics
}

// NewStore creates a store with DefaultShardCount shards
func NewStore() *Store {
	s, _ := NewStoreWithShards(DefaultShardCount)
	return s
}

// NewStoreWithShards creates a store using n lock shards. n must be a power of two.
func NewStoreWithShards(n int) (*Store, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("shard count must be a positive power of two, got %d", n)
	}
	s := &Store{
		nodes:      make(map[uint64]*Node),
		edges:      make(map[uint64]*Edge),
		pairs:      make(map[edgeKey]uint64),
		byColor:    make(map[category.Color]map[uint64]struct{}),
		byRole:     make(map[category.Role]map[uint64]struct{}),
		shardLocks: make([]*sync.RWMutex, n),
		shardMask:  uint64(n - 1),
	}
	for i := range s.shardLocks {
		s.shardLocks[i] = &sync.RWMutex{}
	}
	return s, nil
}

// getShardIndex returns the shard index for a given node ID
func (s *Store) getShardIndex(id uint64) int {
	return int(id & s.shardMask)
}

// lockPair locks the shards of two nodes in ascending order, once if shared,
// and returns the matching unlock.
func (s *Store) lockPair(a, b uint64) func() {
	i, j := s.getShardIndex(a), s.getShardIndex(b)
	if i == j {
		s.shardLocks[i].Lock()
		return s.shardLocks[i].Unlock
	}
	if i > j {
		i, j = j, i
	}
	s.shardLocks[i].Lock()
	s.shardLocks[j].Lock()
	return func() {
		s.shardLocks[j].Unlock()
		s.shardLocks[i].Unlock()
	}
}

// InsertNode stores a copy of node under a freshly allocated ID. Edge sets
// on the input are ignored; a new node has none.
func (s *Store) InsertNode(node *Node) (*Node, error) {
	if node == nil {
		return nil, &StoreError{Op: "InsertNode", Entity: "node", Cause: ErrInvalidNode}
	}

	stored := node.Clone()
	stored.ID = atomic.AddUint64(&s.nextNodeID, 1)
	stored.Outgoing = nil
	stored.Incoming = nil
	if stored.CreatedAt == 0 {
		stored.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	s.nodes[stored.ID] = stored
	s.indexNode(stored)
	s.mu.Unlock()

	atomic.AddUint64(&s.stats.NodeCount, 1)
	return stored.Clone(), nil
}

// GetNode retrieves a node by ID
func (s *Store) GetNode(id uint64) (*Node, error) {
	shard := s.shardLocks[s.getShardIndex(id)]
	shard.RLock()
	defer shard.RUnlock()

	s.mu.RLock()
	node, exists := s.nodes[id]
	s.mu.RUnlock()
	if !exists {
		return nil, nodeNotFound("GetNode", id, "")
	}
	return node.Clone(), nil
}

// PeekRole returns the role of a node without taking its shard lock. Roles
// never change on a stored node object, so this is safe while other shard
// locks are held.
func (s *Store) PeekRole(id uint64) (category.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, exists := s.nodes[id]
	if !exists {
		return category.RoleUnset, false
	}
	return node.Role, true
}

// GetEdge retrieves an edge by ID
func (s *Store) GetEdge(id uint64) (*Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, exists := s.edges[id]
	if !exists {
		return nil, &StoreError{Op: "GetEdge", Entity: "edge", ID: id, Cause: ErrEdgeNotFound}
	}
	return edge.Clone(), nil
}

// FindEdge returns the edge for an ordered pair, if one exists
func (s *Store) FindEdge(fromID, toID uint64) (*Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.pairs[edgeKey{fromID, toID}]
	if !ok {
		return nil, false
	}
	return s.edges[id].Clone(), true
}

// InsertEdge creates the edge fromID -> toID if admit allows it. The admit
// check and the append to both edge sets happen under the endpoints' shard
// locks, so no concurrent insertion or replacement can interleave. An
// existing pair is returned as is and created reports false.
func (s *Store) InsertEdge(fromID, toID uint64, admit AdmitEdgeFunc) (edge *Edge, created bool, err error) {
	unlock := s.lockPair(fromID, toID)
	defer unlock()

	s.mu.RLock()
	from, fromOK := s.nodes[fromID]
	to, toOK := s.nodes[toID]
	existing, dup := s.pairs[edgeKey{fromID, toID}]
	var existingEdge *Edge
	if dup {
		existingEdge = s.edges[existing].Clone()
	}
	s.mu.RUnlock()

	if !fromOK {
		return nil, false, nodeNotFound("InsertEdge", fromID, "source")
	}
	if !toOK {
		return nil, false, nodeNotFound("InsertEdge", toID, "target")
	}
	if dup {
		return existingEdge, false, nil
	}

	if admit != nil {
		if err := admit(from.Clone(), to.Clone()); err != nil {
			return nil, false, err
		}
	}

	stored := &Edge{
		ID:         atomic.AddUint64(&s.nextEdgeID, 1),
		FromNodeID: fromID,
		ToNodeID:   toID,
		CreatedAt:  time.Now().Unix(),
	}

	s.mu.Lock()
	s.edges[stored.ID] = stored
	s.pairs[edgeKey{fromID, toID}] = stored.ID
	s.mu.Unlock()

	// guarded by the shard locks held above
	from.Outgoing = append(from.Outgoing, stored.ID)
	to.Incoming = append(to.Incoming, stored.ID)

	atomic.AddUint64(&s.stats.EdgeCount, 1)
	return stored.Clone(), true, nil
}

// ReplaceNode substitutes replacement for the node stored under id. The
// replacement keeps the identity, edge sets and creation time of the current
// node; only color, role, attributes and style are taken from replacement.
func (s *Store) ReplaceNode(id uint64, replacement *Node, admit AdmitReplacementFunc) (*Node, error) {
	if replacement == nil {
		return nil, &StoreError{Op: "ReplaceNode", Entity: "node", ID: id, Cause: ErrInvalidNode}
	}

	shard := s.shardLocks[s.getShardIndex(id)]
	shard.Lock()
	defer shard.Unlock()

	s.mu.RLock()
	current, exists := s.nodes[id]
	s.mu.RUnlock()
	if !exists {
		return nil, nodeNotFound("ReplaceNode", id, "")
	}

	if admit != nil {
		if err := admit(current.Clone(), replacement.Clone()); err != nil {
			return nil, err
		}
	}

	next := &Node{
		ID:         id,
		Color:      replacement.Color,
		Role:       replacement.Role,
		Attributes: replacement.Attributes,
		Style:      replacement.Style,
		Outgoing:   current.Outgoing,
		Incoming:   current.Incoming,
		CreatedAt:  current.CreatedAt,
	}

	s.mu.Lock()
	s.unindexNode(current)
	s.nodes[id] = next
	s.indexNode(next)
	s.mu.Unlock()

	return next.Clone(), nil
}

// indexNode adds a node to the color and role indexes. Caller holds mu.
func (s *Store) indexNode(n *Node) {
	if s.byColor[n.Color] == nil {
		s.byColor[n.Color] = make(map[uint64]struct{})
	}
	s.byColor[n.Color][n.ID] = struct{}{}

	if s.byRole[n.Role] == nil {
		s.byRole[n.Role] = make(map[uint64]struct{})
	}
	s.byRole[n.Role][n.ID] = struct{}{}
}

// unindexNode removes a node from the color and role indexes. Caller holds mu.
func (s *Store) unindexNode(n *Node) {
	delete(s.byColor[n.Color], n.ID)
	if len(s.byColor[n.Color]) == 0 {
		delete(s.byColor, n.Color)
	}
	delete(s.byRole[n.Role], n.ID)
	if len(s.byRole[n.Role]) == 0 {
		delete(s.byRole, n.Role)
	}
}

// NodesByColor returns the nodes of a color ordered by ID
func (s *Store) NodesByColor(color category.Color) []*Node {
	s.mu.RLock()
	ids := sortedIDs(s.byColor[color])
	s.mu.RUnlock()
	return s.collect(ids)
}

// NodesByRole returns the nodes of a role ordered by ID
func (s *Store) NodesByRole(role category.Role) []*Node {
	s.mu.RLock()
	ids := sortedIDs(s.byRole[role])
	s.mu.RUnlock()
	return s.collect(ids)
}

// collect clones nodes one shard at a time, keeping the lock order
func (s *Store) collect(ids []uint64) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n, err := s.GetNode(id); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func sortedIDs(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Stats returns a snapshot of the store counters
func (s *Store) Stats() Statistics {
	return Statistics{
		NodeCount: atomic.LoadUint64(&s.stats.NodeCount),
		EdgeCount: atomic.LoadUint64(&s.stats.EdgeCount),
	}
}
