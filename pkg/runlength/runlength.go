// Package runlength provides run-length utilities over boolean series:
// distance-since-last-true, gap filling of short false runs, and 1-D
// connected-component labeling. It carries no weather knowledge.
package runlength

// DistanceSinceLastTrue returns, for each position i, the number of elements
// since the most recent true at or before i. Positions before the first true
// count from a virtual true at index -1, so an all-false prefix yields
// 1, 2, 3, ...
func DistanceSinceLastTrue(series []bool) []int {
	result := make([]int, len(series))
	lastTrue := -1

	for i, v := range series {
		if v {
			lastTrue = i
		}
		result[i] = i - lastTrue
	}

	return result
}

// FillGaps returns a copy of series in which every maximal run of false values
// whose length is at most maxGap has been replaced with true. True values are
// always preserved. A trailing false run is measured and filled by the same
// rule even though no later true closes it, so an all-false series of length
// at most maxGap comes back all-true.
func FillGaps(series []bool, maxGap int) []bool {
	n := len(series)
	runLengths := make([]int, n)
	currentLength := 0

	for i := 0; i < n; i++ {
		if !series[i] {
			currentLength++
			continue
		}
		for j := i - currentLength; j < i; j++ {
			runLengths[j] = currentLength
		}
		currentLength = 0
	}

	// The series may end mid-run; close it out.
	for j := n - currentLength; j < n; j++ {
		runLengths[j] = currentLength
	}

	result := make([]bool, n)
	for i := 0; i < n; i++ {
		result[i] = runLengths[i] <= maxGap
	}

	return result
}

// Label assigns a positive integer label to each maximal run of true values,
// numbered 1, 2, 3, ... in order of first appearance. False positions are
// labeled 0.
func Label(series []bool) []int {
	labels := make([]int, len(series))
	current := 0
	inRun := false

	for i, v := range series {
		if !v {
			inRun = false
			continue
		}
		if !inRun {
			current++
			inRun = true
		}
		labels[i] = current
	}

	return labels
}
