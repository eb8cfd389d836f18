package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
)

// AddPeer registers a new peer and saves the peer list. The node's own host
// is never added.
func (s *State) AddPeer(host string) bool {
	if host == "" || host == s.host {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knownPeers.Add(peer.New(host)) {
		return false
	}

	s.evHandler("state: AddPeer: peer[%s]", host)
	s.persist()

	return true
}

// RemovePeer unregisters the peer and saves the peer list.
func (s *State) RemovePeer(host string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.knownPeers.Remove(peer.New(host)) {
		return false
	}

	s.evHandler("state: RemovePeer: peer[%s]", host)
	s.persist()

	return true
}

// Peers returns the sorted list of known peer hosts.
func (s *State) Peers() []string {
	peers := s.knownPeers.Copy(s.host)

	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}

	return hosts
}
