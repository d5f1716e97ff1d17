// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import (
	"fmt"
	"math"
	"sort"
)

// collabResult is the declared outcome of the collaborative stage. The
// stage either succeeds with per-candidate scores or degrades to all-zero
// scores with the cause recorded; it never aborts the recommend call.
type collabResult struct {
	scores   []float64
	degraded bool
	cause    error
}

// zeroCollab returns an all-zero result for the candidate count.
func zeroCollab(n int, degraded bool, cause error) collabResult {
	return collabResult{scores: make([]float64, n), degraded: degraded, cause: cause}
}

// scoreCollaborative derives per-candidate affinity scores from peer-user
// behavior:
//
//  1. Build a user x listing interaction-count matrix (event kind ignored).
//  2. Cold start: a target user with no row scores zero everywhere.
//  3. Otherwise, cosine-compare the target row against every other row,
//     take the 5 most similar peers, and average their counts per listing.
//  4. Map averaged counts onto the candidates and normalize by the max.
func scoreCollaborative(p *Profile, candidates []Listing, events []Event) collabResult {
	if len(events) == 0 || p.UserID == nil {
		return zeroCollab(len(candidates), false, nil)
	}

	matrix, malformed := buildCountMatrix(events)
	if len(matrix) == 0 {
		if malformed > 0 {
			return zeroCollab(len(candidates), true,
				fmt.Errorf("all %d interaction events were malformed", malformed))
		}
		return zeroCollab(len(candidates), false, nil)
	}

	target, ok := matrix[*p.UserID]
	if !ok {
		// Cold start.
		return zeroCollab(len(candidates), false, nil)
	}

	peers := topPeers(matrix, *p.UserID, target, collabNeighbors)
	if len(peers) == 0 {
		return zeroCollab(len(candidates), false, nil)
	}

	avg := averagePeerCounts(matrix, peers)

	scores := make([]float64, len(candidates))
	var maxScore float64
	for i, l := range candidates {
		scores[i] = avg[l.ID]
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}

	if maxScore > 0 {
		for i := range scores {
			scores[i] /= maxScore
		}
	}

	return collabResult{scores: scores}
}

// collabNeighbors is the peer-group size for neighbor averaging.
const collabNeighbors = 5

// buildCountMatrix builds userID -> listingID -> event count, skipping
// events without a listing reference. Events with an unknown kind or a
// non-positive user id are counted as malformed and dropped.
func buildCountMatrix(events []Event) (map[int]map[int]float64, int) {
	matrix := make(map[int]map[int]float64)
	malformed := 0

	for _, ev := range events {
		if ev.ListingID == nil {
			continue
		}
		if !ev.Kind.Valid() || ev.UserID <= 0 {
			malformed++
			continue
		}
		row := matrix[ev.UserID]
		if row == nil {
			row = make(map[int]float64)
			matrix[ev.UserID] = row
		}
		row[*ev.ListingID]++
	}

	return matrix, malformed
}

// peer is another user with their similarity to the target.
type peer struct {
	userID     int
	similarity float64
}

// topPeers returns the k most similar other users by cosine similarity of
// their count rows, ordered by similarity descending with user id as the
// deterministic tie-break.
func topPeers(matrix map[int]map[int]float64, targetID int, target map[int]float64, k int) []peer {
	peers := make([]peer, 0, len(matrix)-1)
	for uid, row := range matrix {
		if uid == targetID {
			continue
		}
		peers = append(peers, peer{userID: uid, similarity: sparseCosine(target, row)})
	}

	sort.Slice(peers, func(i, j int) bool {
		if peers[i].similarity != peers[j].similarity {
			return peers[i].similarity > peers[j].similarity
		}
		return peers[i].userID < peers[j].userID
	})

	if len(peers) > k {
		peers = peers[:k]
	}
	return peers
}

// averagePeerCounts averages the peers' interaction counts per listing.
func averagePeerCounts(matrix map[int]map[int]float64, peers []peer) map[int]float64 {
	avg := make(map[int]float64)
	for _, p := range peers {
		for listingID, count := range matrix[p.userID] {
			avg[listingID] += count
		}
	}
	n := float64(len(peers))
	for id := range avg {
		avg[id] /= n
	}
	return avg
}

// sparseCosine computes cosine similarity between two sparse count rows.
func sparseCosine(a, b map[int]float64) float64 {
	var dot, normA, normB float64
	for id, va := range a {
		normA += va * va
		if vb, ok := b[id]; ok {
			dot += va * vb
		}
	}
	for _, vb := range b {
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
