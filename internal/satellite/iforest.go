package satellite

import (
	"math"
	"math/rand"
	"sort"
)

const (
	forestTrees         = 50
	forestContamination = 0.1
	forestSeed          = 42
	forestMaxSubsample  = 256

	eulerMascheroni = 0.5772156649015329
)

// treeNode is one node of an isolation tree. Internal nodes split on a
// feature; external nodes record how many training points terminated there.
type treeNode struct {
	feature int
	split   float64
	left    *treeNode
	right   *treeNode
	size    int
}

func (n *treeNode) external() bool { return n.left == nil }

// isolationForest is a deterministic isolation forest: anomalous points
// isolate in fewer random splits, so shorter average path lengths mean
// higher anomaly scores. All randomness comes from a fixed seed so repeated
// runs over the same series agree.
type isolationForest struct {
	trees       []*treeNode
	heightLimit int
	sampleSize  int
}

// fitIsolationForest builds numTrees isolation trees over X, each on a
// random subsample of at most 256 rows.
func fitIsolationForest(x [][]float64, numTrees int, seed int64) *isolationForest {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic model, not crypto

	sampleSize := len(x)
	if sampleSize > forestMaxSubsample {
		sampleSize = forestMaxSubsample
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sampleSize))))
	if heightLimit < 1 {
		heightLimit = 1
	}

	f := &isolationForest{
		trees:       make([]*treeNode, 0, numTrees),
		heightLimit: heightLimit,
		sampleSize:  sampleSize,
	}
	for t := 0; t < numTrees; t++ {
		sample := make([][]float64, sampleSize)
		for i, idx := range rng.Perm(len(x))[:sampleSize] {
			sample[i] = x[idx]
		}
		f.trees = append(f.trees, buildTree(sample, 0, heightLimit, rng))
	}
	return f
}

func buildTree(rows [][]float64, depth, limit int, rng *rand.Rand) *treeNode {
	if depth >= limit || len(rows) <= 1 {
		return &treeNode{size: len(rows)}
	}

	// Candidate features are those with spread left in this partition
	candidates := make([]int, 0, numFeatures)
	for j := 0; j < numFeatures; j++ {
		lo, hi := columnRange(rows, j)
		if hi > lo {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return &treeNode{size: len(rows)}
	}

	feature := candidates[rng.Intn(len(candidates))]
	lo, hi := columnRange(rows, feature)
	split := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, row := range rows {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &treeNode{
		feature: feature,
		split:   split,
		left:    buildTree(left, depth+1, limit, rng),
		right:   buildTree(right, depth+1, limit, rng),
	}
}

func columnRange(rows [][]float64, j int) (lo, hi float64) {
	lo, hi = rows[0][j], rows[0][j]
	for _, row := range rows[1:] {
		if row[j] < lo {
			lo = row[j]
		}
		if row[j] > hi {
			hi = row[j]
		}
	}
	return lo, hi
}

// score returns the anomaly score of one row in (0, 1); values near 1 mean
// the row isolates quickly across the forest.
func (f *isolationForest) score(row []float64) float64 {
	var total float64
	for _, tree := range f.trees {
		total += pathLength(tree, row, 0)
	}
	avg := total / float64(len(f.trees))
	return math.Pow(2, -avg/avgPathLength(f.sampleSize))
}

func pathLength(node *treeNode, row []float64, depth int) float64 {
	if node.external() {
		return float64(depth) + avgPathLength(node.size)
	}
	if row[node.feature] < node.split {
		return pathLength(node.left, row, depth+1)
	}
	return pathLength(node.right, row, depth+1)
}

// avgPathLength is the expected path length of an unsuccessful BST search
// over n points, the normalization constant of the isolation forest paper.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + eulerMascheroni
	return 2*h - 2*float64(n-1)/float64(n)
}

// predict flags the contamination fraction of rows with the highest scores
// as anomalies. Ties at the threshold are all flagged.
func (f *isolationForest) predict(x [][]float64, contamination float64) []bool {
	scores := make([]float64, len(x))
	for i, row := range x {
		scores[i] = f.score(row)
	}

	k := int(math.Ceil(contamination * float64(len(x))))
	if k < 1 {
		k = 1
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	threshold := sorted[k-1]

	flags := make([]bool, len(x))
	for i, s := range scores {
		flags[i] = s >= threshold
	}
	return flags
}
