// Package peer maintains the peer related information such as the set
// of known peers and the transport used to talk to them.
package peer

import (
	"sort"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	LatestBlockHash  string   `json:"latest_block_hash"`
	LatestBlockIndex uint64   `json:"latest_block_index"`
	ChainLength      int      `json:"chain_length"`
	Pending          int      `json:"pending"`
	KnownPeers       []string `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	delete(ps.set, peer)

	return exists
}

// Copy returns a list of the known peers sorted by host, leaving out
// the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}

// Hosts returns the sorted list of known hosts.
func (ps *PeerSet) Hosts() []string {
	peers := ps.Copy("")

	hosts := make([]string, len(peers))
	for i, peer := range peers {
		hosts[i] = peer.Host
	}

	return hosts
}
