package geo

import "math"

// DefaultClusterDistance порог кластеризации по умолчанию в градусах
const DefaultClusterDistance = 0.05

// Cluster группа точек с общим центроидом
type Cluster struct {
	Centroid Point
	Count    int
}

// ClusterPoints группирует точки в пространственные кластеры: две точки
// попадают в один кластер, если они связаны цепочкой точек, каждая из которых
// отстоит от следующей не более чем на maxDistanceDegrees (плоское расстояние
// в градусах, без учета кривизны). Центроид кластера — среднее арифметическое
// координат его участников. Пустой вход дает пустой результат
func ClusterPoints(points []Point, maxDistanceDegrees float64) []Cluster {
	if len(points) == 0 {
		return []Cluster{}
	}

	parent := make([]int, len(points))
	for i := range parent {
		parent[i] = i
	}

	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	union := func(a, b int) {
		rootA, rootB := find(a), find(b)
		if rootA != rootB {
			parent[rootB] = rootA
		}
	}

	// Квадратичный перебор пар допустим: кластеризация работает только
	// по уже отфильтрованному набору точек
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if planarDistance(points[i], points[j]) <= maxDistanceDegrees {
				union(i, j)
			}
		}
	}

	// Собираем кластеры в порядке появления первой точки группы
	order := make([]int, 0)
	members := make(map[int][]Point)
	for i, point := range points {
		root := find(i)
		if _, ok := members[root]; !ok {
			order = append(order, root)
		}
		members[root] = append(members[root], point)
	}

	clusters := make([]Cluster, 0, len(order))
	for _, root := range order {
		group := members[root]
		var sumLon, sumLat float64
		for _, point := range group {
			sumLon += point.Lon
			sumLat += point.Lat
		}
		clusters = append(clusters, Cluster{
			Centroid: Point{
				Lon: sumLon / float64(len(group)),
				Lat: sumLat / float64(len(group)),
			},
			Count: len(group),
		})
	}

	return clusters
}

// planarDistance плоское расстояние между точками в градусах
func planarDistance(a, b Point) float64 {
	return math.Hypot(a.Lon-b.Lon, a.Lat-b.Lat)
}
