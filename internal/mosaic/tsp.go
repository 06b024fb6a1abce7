package mosaic

// SolveTour finds a short open path visiting every index of the distance
// matrix exactly once. Construction is nearest-neighbor from index 0 (ties
// broken toward the lowest index); the path is then improved by up to
// optimizationPasses rounds of 2-opt segment reversals, stopping early when
// a full pass finds no improving move. The result is deterministic for
// identical inputs and is not guaranteed optimal.
func SolveTour(dist [][]float64, optimizationPasses int) []int {
	n := len(dist)
	switch n {
	case 0:
		return nil
	case 1:
		return []int{0}
	case 2:
		return []int{0, 1}
	}

	path := nearestNeighborPath(dist)

	for pass := 0; pass < optimizationPasses; pass++ {
		if !improvePath(dist, path) {
			break
		}
	}
	return path
}

// nearestNeighborPath builds an initial tour by always moving to the
// closest unvisited index.
func nearestNeighborPath(dist [][]float64) []int {
	n := len(dist)
	path := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	path = append(path, current)
	visited[current] = true

	for len(path) < n {
		best := -1
		bestDist := 0.0
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			if best == -1 || dist[current][i] < bestDist {
				best = i
				bestDist = dist[current][i]
			}
		}
		visited[best] = true
		current = best
		path = append(path, current)
	}
	return path
}

// improvePath performs one full 2-opt pass over the open path, reversing
// any segment whose reversal shortens the total length. Reports whether
// any improvement was applied.
func improvePath(dist [][]float64, path []int) bool {
	const tolerance = 1e-12
	n := len(path)
	improved := false

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			// Reversing path[i..j] replaces the edges into i and out
			// of j. Edges at the open ends do not exist.
			delta := 0.0
			if i > 0 {
				delta += dist[path[i-1]][path[j]] - dist[path[i-1]][path[i]]
			}
			if j < n-1 {
				delta += dist[path[i]][path[j+1]] - dist[path[j]][path[j+1]]
			}
			if delta < -tolerance {
				reverseSegment(path, i, j)
				improved = true
			}
		}
	}
	return improved
}

func reverseSegment(path []int, i, j int) {
	for i < j {
		path[i], path[j] = path[j], path[i]
		i++
		j--
	}
}

// PathLength returns the total length of an open path over the given
// distance matrix.
func PathLength(dist [][]float64, path []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += dist[path[i]][path[i+1]]
	}
	return total
}
