// Package clusterer groups embedded messages with density-based clustering
// (DBSCAN) over Euclidean distance in embedding space.
package clusterer

import (
	"github.com/kailas-cloud/topiclens/internal/domain"
)

// Engine clusters points with a fixed neighborhood radius and core threshold.
type Engine struct {
	radius    float64
	minPoints int
}

// New creates a clustering engine. A point is a core point when at least
// minPoints points, itself included, lie within radius of it.
func New(radius float64, minPoints int) *Engine {
	return &Engine{radius: radius, minPoints: minPoints}
}

const (
	unassigned = -1
	noise      = -2
)

// Cluster partitions points into density-reachable groups. Points not
// reachable from any core point are dropped from the result. Clusters are
// seeded in input order and grown breadth-first, so the output is
// deterministic for a fixed input sequence: a border point within radius of
// cores in different clusters joins the cluster whose expansion reaches it
// first. Returns nil when no core points exist.
func (e *Engine) Cluster(points []domain.EmbeddedMessage) []domain.Cluster {
	if len(points) < e.minPoints {
		return nil
	}

	radiusSq := e.radius * e.radius
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unassigned
	}

	var clusters []domain.Cluster

	for i := range points {
		if labels[i] != unassigned {
			continue
		}

		seeds := e.neighbors(points, i, radiusSq)
		if len(seeds) < e.minPoints {
			labels[i] = noise
			continue
		}

		id := len(clusters)
		labels[i] = id
		members := []domain.EmbeddedMessage{points[i]}

		// Breadth-first expansion over a FIFO queue of neighbors.
		for qi := 0; qi < len(seeds); qi++ {
			j := seeds[qi]
			if labels[j] == noise {
				// Border point: reachable but not core.
				labels[j] = id
				members = append(members, points[j])
				continue
			}
			if labels[j] != unassigned {
				continue
			}
			labels[j] = id
			members = append(members, points[j])

			reach := e.neighbors(points, j, radiusSq)
			if len(reach) >= e.minPoints {
				seeds = append(seeds, reach...)
			}
		}

		clusters = append(clusters, domain.Cluster{Members: members})
	}

	return clusters
}

// neighbors returns the indices of all points within the radius of points[i],
// including i itself, in input order.
func (e *Engine) neighbors(points []domain.EmbeddedMessage, i int, radiusSq float64) []int {
	var out []int
	for j := range points {
		if distanceSq(points[i].Vector, points[j].Vector) <= radiusSq {
			out = append(out, j)
		}
	}
	return out
}

// distanceSq is the squared Euclidean distance between two vectors.
// Accumulates in float64 to limit rounding error.
func distanceSq(a, b []float32) float64 {
	var sum float64
	for k := range a {
		d := float64(a[k]) - float64(b[k])
		sum += d * d
	}
	return sum
}
