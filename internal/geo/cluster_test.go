package geo

import (
	"math"
	"testing"
)

func TestClusterPointsEmptyInput(t *testing.T) {
	clusters := ClusterPoints(nil, DefaultClusterDistance)
	if clusters == nil {
		t.Fatal("empty input must give empty slice, not nil")
	}
	if len(clusters) != 0 {
		t.Errorf("expected 0 clusters, got %d", len(clusters))
	}
}

func TestClusterPointsSingleGroup(t *testing.T) {
	// Все точки в пределах порога от общего центра
	points := []Point{
		{Lon: 5.50, Lat: 45.50},
		{Lon: 5.51, Lat: 45.50},
		{Lon: 5.50, Lat: 45.51},
		{Lon: 5.49, Lat: 45.49},
	}

	clusters := ClusterPoints(points, 0.05)
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Count != len(points) {
		t.Errorf("expected count %d, got %d", len(points), clusters[0].Count)
	}

	expectedLon := (5.50 + 5.51 + 5.50 + 5.49) / 4
	expectedLat := (45.50 + 45.50 + 45.51 + 45.49) / 4
	if math.Abs(clusters[0].Centroid.Lon-expectedLon) > 1e-9 {
		t.Errorf("centroid lon: expected %v, got %v", expectedLon, clusters[0].Centroid.Lon)
	}
	if math.Abs(clusters[0].Centroid.Lat-expectedLat) > 1e-9 {
		t.Errorf("centroid lat: expected %v, got %v", expectedLat, clusters[0].Centroid.Lat)
	}
}

func TestClusterPointsAllSeparate(t *testing.T) {
	// Попарные расстояния больше порога: кластер на каждую точку
	points := []Point{
		{Lon: 0, Lat: 0},
		{Lon: 1, Lat: 0},
		{Lon: 0, Lat: 1},
		{Lon: 1, Lat: 1},
	}

	clusters := ClusterPoints(points, 0.05)
	if len(clusters) != len(points) {
		t.Fatalf("expected %d clusters, got %d", len(points), len(clusters))
	}
	for i, cluster := range clusters {
		if cluster.Count != 1 {
			t.Errorf("cluster %d: expected count 1, got %d", i, cluster.Count)
		}
	}
}

func TestClusterPointsTransitiveChain(t *testing.T) {
	// Крайние точки дальше порога друг от друга, но связаны цепочкой
	points := []Point{
		{Lon: 0.00, Lat: 0},
		{Lon: 0.04, Lat: 0},
		{Lon: 0.08, Lat: 0},
		{Lon: 0.12, Lat: 0},
	}

	clusters := ClusterPoints(points, 0.05)
	if len(clusters) != 1 {
		t.Fatalf("expected chain to form 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Count != 4 {
		t.Errorf("expected count 4, got %d", clusters[0].Count)
	}
}

func TestClusterPointsTwoGroups(t *testing.T) {
	points := []Point{
		{Lon: 5.50, Lat: 45.50},
		{Lon: 5.51, Lat: 45.51},
		{Lon: 10.0, Lat: 50.0},
	}

	clusters := ClusterPoints(points, 0.05)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Count != 2 || clusters[1].Count != 1 {
		t.Errorf("expected counts 2 and 1, got %d and %d", clusters[0].Count, clusters[1].Count)
	}
}
