// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textmodel

import (
	"fmt"
	"math"
	"sort"
)

// Boosting hyperparameter defaults. Overridable through
// ModelConfig.Parameters: rounds, max_depth, learning_rate, lambda,
// gamma, min_child_weight.
const (
	defaultRounds       = 30
	defaultMaxDepth     = 3
	defaultLearningRate = 0.3
	defaultLambda       = 1.0
)

// treeNode is one node of a regression tree. Leaves carry the
// learning-rate-scaled output weight; interior nodes route on
// value <= Threshold (absent features count as zero).
type treeNode struct {
	Feature   int     `json:"f,omitempty"`
	Threshold float64 `json:"t,omitempty"`
	Left      int     `json:"l,omitempty"`
	Right     int     `json:"r,omitempty"`
	Leaf      float64 `json:"w,omitempty"`
	IsLeaf    bool    `json:"leaf,omitempty"`
}

type regTree struct {
	Nodes []treeNode `json:"nodes"`
}

func (t *regTree) score(vec Vector) float64 {
	i := 0
	for !t.Nodes[i].IsLeaf {
		n := t.Nodes[i]
		if vec[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Leaf
}

// BoostClassifier is a TF-IDF gradient-boosted-trees classifier.
// Multiclass training uses softmax boosting: each round fits one
// regression tree per class on the loss gradients, with second-order
// leaf weights -G/(H+lambda).
type BoostClassifier struct {
	Vectorizer   *Vectorizer                   `json:"vectorizer"`
	Classes      []string                      `json:"classes"`
	Trees        [][]*regTree                  `json:"trees"`
	ClassWeights map[string]float64            `json:"class_weights,omitempty"`
	CostMatrix   map[string]map[string]float64 `json:"cost_matrix,omitempty"`

	rounds         int
	maxDepth       int
	learningRate   float64
	lambda         float64
	gamma          float64
	minChildWeight float64
}

func newBoost(params, classWeights map[string]float64, costMatrix map[string]map[string]float64) *BoostClassifier {
	return &BoostClassifier{
		ClassWeights:   classWeights,
		CostMatrix:     costMatrix,
		rounds:         int(param(params, "rounds", defaultRounds)),
		maxDepth:       int(param(params, "max_depth", defaultMaxDepth)),
		learningRate:   param(params, "learning_rate", defaultLearningRate),
		lambda:         param(params, "lambda", defaultLambda),
		gamma:          param(params, "gamma", 0),
		minChildWeight: param(params, "min_child_weight", 0),
	}
}

// Fit trains the ensemble on parallel texts and labels.
func (c *BoostClassifier) Fit(texts, labels []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("no training samples")
	}
	if len(texts) != len(labels) {
		return fmt.Errorf("texts and labels differ in length: %d vs %d", len(texts), len(labels))
	}
	if c.rounds <= 0 || c.maxDepth <= 0 || c.learningRate <= 0 {
		return fmt.Errorf("rounds, max_depth and learning_rate must be positive")
	}

	c.Vectorizer = &Vectorizer{}
	c.Vectorizer.Fit(texts)
	vecs := c.Vectorizer.TransformAll(texts)

	c.Classes = uniqueSorted(labels)
	if len(c.Classes) == 1 {
		// Degenerate corpus: every prediction is the single class.
		c.Trees = nil
		return nil
	}

	classIdx := make(map[string]int, len(c.Classes))
	for i, class := range c.Classes {
		classIdx[class] = i
	}

	n := len(texts)
	k := len(c.Classes)
	y := make([]int, n)
	weight := make([]float64, n)
	for i, label := range labels {
		y[i] = classIdx[label]
		weight[i] = 1
		if w, ok := c.ClassWeights[label]; ok {
			weight[i] = w
		}
	}

	// scores[i][j] is the additive margin of sample i for class j.
	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, k)
	}

	all := make([]int, n)
	for i := range all {
		all[i] = i
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	probs := make([]float64, k)

	c.Trees = make([][]*regTree, c.rounds)
	for round := 0; round < c.rounds; round++ {
		c.Trees[round] = make([]*regTree, k)
		for class := 0; class < k; class++ {
			for i := 0; i < n; i++ {
				softmax(scores[i], probs)
				p := probs[class]
				target := 0.0
				if y[i] == class {
					target = 1.0
				}
				w := weight[i] * c.costFactor(c.Classes[y[i]], c.Classes[class])
				grad[i] = w * (p - target)
				hess[i] = w * math.Max(p*(1-p), 1e-16)
			}
			tree := &regTree{}
			c.grow(tree, vecs, all, grad, hess, 0)
			c.Trees[round][class] = tree
		}
		// Update margins only after the whole round so every class tree
		// in a round sees the same probabilities.
		for i := 0; i < n; i++ {
			for class := 0; class < k; class++ {
				scores[i][class] += c.Trees[round][class].score(vecs[i])
			}
		}
	}
	return nil
}

// costFactor scales a sample's gradient toward a wrong class by the
// configured misclassification cost. The true class and absent entries
// keep factor 1.
func (c *BoostClassifier) costFactor(actual, predicted string) float64 {
	if c.CostMatrix == nil || actual == predicted {
		return 1
	}
	if cost, ok := c.CostMatrix[actual][predicted]; ok {
		return cost
	}
	return 1
}

// grow recursively builds a tree over the sample subset, returning the
// index of the created node.
func (c *BoostClassifier) grow(t *regTree, vecs []Vector, subset []int, grad, hess []float64, depth int) int {
	var gTotal, hTotal float64
	for _, i := range subset {
		gTotal += grad[i]
		hTotal += hess[i]
	}

	if depth < c.maxDepth && len(subset) >= 2 {
		if feature, threshold, gain := c.bestSplit(vecs, subset, grad, hess, gTotal, hTotal); feature >= 0 && gain > c.gamma {
			var left, right []int
			for _, i := range subset {
				if vecs[i][feature] <= threshold {
					left = append(left, i)
				} else {
					right = append(right, i)
				}
			}
			idx := len(t.Nodes)
			t.Nodes = append(t.Nodes, treeNode{Feature: feature, Threshold: threshold})
			l := c.grow(t, vecs, left, grad, hess, depth+1)
			r := c.grow(t, vecs, right, grad, hess, depth+1)
			t.Nodes[idx].Left = l
			t.Nodes[idx].Right = r
			return idx
		}
	}

	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, treeNode{
		IsLeaf: true,
		Leaf:   -gTotal / (hTotal + c.lambda) * c.learningRate,
	})
	return idx
}

type posting struct {
	value float64
	doc   int
}

// bestSplit scans every feature present in the subset for the split
// with maximal gain. Candidate thresholds sit between the implicit zero
// group (docs without the feature) and the sorted nonzero values.
func (c *BoostClassifier) bestSplit(vecs []Vector, subset []int, grad, hess []float64, gTotal, hTotal float64) (feature int, threshold, gain float64) {
	byFeature := make(map[int][]posting)
	for _, i := range subset {
		for f, v := range vecs[i] {
			byFeature[f] = append(byFeature[f], posting{value: v, doc: i})
		}
	}

	parent := gTotal * gTotal / (hTotal + c.lambda)
	feature = -1

	for f, postings := range byFeature {
		if len(postings) == len(subset) && allEqual(postings) {
			continue // feature is constant over the subset
		}
		sort.Slice(postings, func(a, b int) bool { return postings[a].value < postings[b].value })

		var gNonzero, hNonzero float64
		for _, p := range postings {
			gNonzero += grad[p.doc]
			hNonzero += hess[p.doc]
		}

		// Left starts as the zero group.
		gLeft := gTotal - gNonzero
		hLeft := hTotal - hNonzero
		nLeft := len(subset) - len(postings)

		try := func(thr float64) {
			gRight := gTotal - gLeft
			hRight := hTotal - hLeft
			if hLeft < c.minChildWeight || hRight < c.minChildWeight {
				return
			}
			g := 0.5 * (gLeft*gLeft/(hLeft+c.lambda) + gRight*gRight/(hRight+c.lambda) - parent)
			if g > gain {
				feature, threshold, gain = f, thr, g
			}
		}

		if nLeft > 0 {
			try(postings[0].value / 2)
		}
		for j := 0; j < len(postings)-1; j++ {
			gLeft += grad[postings[j].doc]
			hLeft += hess[postings[j].doc]
			nLeft++
			if postings[j].value == postings[j+1].value {
				continue
			}
			try((postings[j].value + postings[j+1].value) / 2)
		}
	}
	return feature, threshold, gain
}

func allEqual(postings []posting) bool {
	for _, p := range postings[1:] {
		if p.value != postings[0].value {
			return false
		}
	}
	return true
}

// Predict returns the argmax class for each text.
func (c *BoostClassifier) Predict(texts []string) ([]string, error) {
	if c.Vectorizer == nil || len(c.Classes) == 0 {
		return nil, fmt.Errorf("model is not fitted")
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		if len(c.Classes) == 1 {
			out[i] = c.Classes[0]
			continue
		}
		vec := c.Vectorizer.Transform(text)
		best, bestScore := 0, math.Inf(-1)
		for class := range c.Classes {
			var score float64
			for _, round := range c.Trees {
				score += round[class].score(vec)
			}
			if score > bestScore {
				best, bestScore = class, score
			}
		}
		out[i] = c.Classes[best]
	}
	return out, nil
}

func softmax(scores, out []float64) {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
}

func uniqueSorted(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
