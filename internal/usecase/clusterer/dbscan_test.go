package clusterer

import (
	"fmt"
	"testing"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

func point(id string, coords ...float32) domain.EmbeddedMessage {
	return domain.EmbeddedMessage{
		Message: domain.Message{CID: id},
		Vector:  coords,
	}
}

func TestCluster_TightGroupFormsOneCluster(t *testing.T) {
	// 10 points mutually within radius 0.2 along one axis.
	points := make([]domain.EmbeddedMessage, 10)
	for i := range points {
		points[i] = point(fmt.Sprintf("p%d", i), 0, float32(i)*0.01)
	}

	clusters := New(0.2, 10).Cluster(points)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].Size() != 10 {
		t.Errorf("cluster size: got %d, want 10", clusters[0].Size())
	}
}

func TestCluster_FewerThanMinPoints(t *testing.T) {
	points := []domain.EmbeddedMessage{
		point("a", 0, 0),
		point("b", 0, 0.01),
	}

	if clusters := New(0.2, 10).Cluster(points); len(clusters) != 0 {
		t.Errorf("got %d clusters, want 0", len(clusters))
	}
}

func TestCluster_DispersedPointsAreNoise(t *testing.T) {
	points := make([]domain.EmbeddedMessage, 10)
	for i := range points {
		points[i] = point(fmt.Sprintf("p%d", i), float32(i)*10, 0)
	}

	if clusters := New(0.2, 3).Cluster(points); len(clusters) != 0 {
		t.Errorf("got %d clusters, want 0 for dispersed points", len(clusters))
	}
}

func TestCluster_TwoGroupsAndNoiseExcluded(t *testing.T) {
	var points []domain.EmbeddedMessage
	for i := 0; i < 5; i++ {
		points = append(points, point(fmt.Sprintf("a%d", i), float32(i)*0.05, 0))
	}
	for i := 0; i < 5; i++ {
		points = append(points, point(fmt.Sprintf("b%d", i), 100+float32(i)*0.05, 0))
	}
	points = append(points, point("lone", 50, 50))

	clusters := New(0.2, 4).Cluster(points)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}

	seen := make(map[string]int)
	for ci, c := range clusters {
		if c.Size() == 0 {
			t.Fatal("empty cluster returned")
		}
		for _, m := range c.Members {
			if prev, dup := seen[m.Message.CID]; dup {
				t.Errorf("point %s in clusters %d and %d", m.Message.CID, prev, ci)
			}
			seen[m.Message.CID] = ci
		}
	}
	if _, ok := seen["lone"]; ok {
		t.Error("noise point appeared in a cluster")
	}
	if len(seen) != 10 {
		t.Errorf("clustered %d points, want 10", len(seen))
	}
}

func TestCluster_BorderPointReachableFromBothSides(t *testing.T) {
	// Two dense cores with a shared border point between them: the border
	// point is within radius of exactly one core on each side and has too
	// few neighbors to be core itself. It joins the cluster seeded first
	// in input order.
	var points []domain.EmbeddedMessage
	for i := 0; i < 4; i++ {
		points = append(points, point(fmt.Sprintf("left%d", i), float32(i)*0.01, 0))
	}
	points = append(points, point("border", 0.07, 0))
	for i := 0; i < 4; i++ {
		points = append(points, point(fmt.Sprintf("right%d", i), 0.11+float32(i)*0.01, 0))
	}

	clusters := New(0.045, 4).Cluster(points)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}

	var borderCluster = -1
	for ci, c := range clusters {
		for _, m := range c.Members {
			if m.Message.CID == "border" {
				if borderCluster != -1 {
					t.Fatal("border point in two clusters")
				}
				borderCluster = ci
			}
		}
	}
	if borderCluster != 0 {
		t.Errorf("border point in cluster %d, want 0 (first by input order)", borderCluster)
	}
}

func TestCluster_StableForFixedInput(t *testing.T) {
	var points []domain.EmbeddedMessage
	for i := 0; i < 12; i++ {
		points = append(points, point(fmt.Sprintf("p%d", i), float32(i%4)*0.03, float32(i/4)*0.03))
	}

	first := New(0.2, 5).Cluster(points)
	second := New(0.2, 5).Cluster(points)

	if len(first) != len(second) {
		t.Fatalf("cluster count differs across runs: %d vs %d", len(first), len(second))
	}
	for ci := range first {
		if first[ci].Size() != second[ci].Size() {
			t.Fatalf("cluster %d size differs: %d vs %d", ci, first[ci].Size(), second[ci].Size())
		}
		for mi := range first[ci].Members {
			if first[ci].Members[mi].Message.CID != second[ci].Members[mi].Message.CID {
				t.Fatalf("cluster %d member %d differs", ci, mi)
			}
		}
	}
}
