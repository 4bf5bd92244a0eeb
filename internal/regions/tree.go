package regions

import "sort"

// sample is one persona projected onto the analysis feature space.
type sample struct {
	features [numFeatures]float64
	failed   bool
	// failedRate is the observed rate, kept so leaves report actual outcome
	// data rather than classifier confidence.
	failedRate float64
}

// split is one candidate threshold on one feature.
type split struct {
	feature   int
	threshold float64
	gain      float64
}

// node is a fitted tree node. Leaves keep their member indices.
type node struct {
	left, right *node
	split       split
	members     []int
}

func (n *node) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// treeFitter grows a shallow, class-balanced binary tree. Class weights are
// inversely proportional to class frequency, so a rare failure class still
// drives splits.
type treeFitter struct {
	samples              []sample
	opts                 Options
	weightFail, weightOK float64
}

func newTreeFitter(samples []sample, opts Options) *treeFitter {
	var fails int
	for _, s := range samples {
		if s.failed {
			fails++
		}
	}
	f := &treeFitter{samples: samples, opts: opts, weightFail: 1, weightOK: 1}
	n := len(samples)
	if fails > 0 && fails < n {
		f.weightFail = float64(n) / (2 * float64(fails))
		f.weightOK = float64(n) / (2 * float64(n-fails))
	}
	return f
}

func (f *treeFitter) fit() *node {
	indices := make([]int, len(f.samples))
	for i := range indices {
		indices[i] = i
	}
	return f.grow(indices, 0)
}

func (f *treeFitter) grow(members []int, depth int) *node {
	n := &node{members: members}
	if depth >= f.opts.MaxDepth || len(members) < f.opts.MinSplitSize {
		return n
	}
	best, ok := f.bestSplit(members)
	if !ok {
		return n
	}

	var left, right []int
	for _, i := range members {
		if f.samples[i].features[best.feature] <= best.threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	n.split = best
	n.left = f.grow(left, depth+1)
	n.right = f.grow(right, depth+1)
	return n
}

// bestSplit scans every feature and every midpoint between adjacent distinct
// values, maximizing weighted Gini impurity decrease. Ties resolve to the
// lowest feature index, then the lowest threshold, so fitting is
// deterministic.
func (f *treeFitter) bestSplit(members []int) (split, bool) {
	parentImpurity, parentWeight := f.gini(members)
	if parentImpurity == 0 {
		return split{}, false
	}

	var best split
	found := false

	order := make([]int, len(members))
	for feat := 0; feat < numFeatures; feat++ {
		copy(order, members)
		sort.Slice(order, func(a, b int) bool {
			return f.samples[order[a]].features[feat] < f.samples[order[b]].features[feat]
		})

		for i := 0; i+1 < len(order); i++ {
			lo := f.samples[order[i]].features[feat]
			hi := f.samples[order[i+1]].features[feat]
			if lo == hi {
				continue
			}
			if i+1 < f.opts.MinLeafSize || len(order)-(i+1) < f.opts.MinLeafSize {
				continue
			}
			threshold := (lo + hi) / 2

			leftImp, leftW := f.gini(order[:i+1])
			rightImp, rightW := f.gini(order[i+1:])
			childImpurity := (leftW*leftImp + rightW*rightImp) / parentWeight
			gain := parentImpurity - childImpurity
			if gain <= 1e-12 {
				continue
			}
			if !found || gain > best.gain {
				best = split{feature: feat, threshold: threshold, gain: gain}
				found = true
			}
		}
	}
	return best, found
}

// gini returns the class-weighted Gini impurity of the member set and its
// total weight.
func (f *treeFitter) gini(members []int) (impurity, weight float64) {
	var wFail, wOK float64
	for _, i := range members {
		if f.samples[i].failed {
			wFail += f.weightFail
		} else {
			wOK += f.weightOK
		}
	}
	weight = wFail + wOK
	if weight == 0 {
		return 0, 0
	}
	pFail := wFail / weight
	pOK := wOK / weight
	return 1 - pFail*pFail - pOK*pOK, weight
}
