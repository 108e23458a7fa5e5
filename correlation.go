// correlation.go
package main

import (
	"fmt"
	"math"
	"sort"

	"github.com/epivizor/linelist_analyzer/domain/models"
)

// correlateCounts compares the same aggregate computed for group #1 and
// group #2. Vectors are aligned on the union of category labels with zero
// fill for labels one group lacks; fewer than 3 aligned points means the
// correlation is omitted, not reported as zero.
func correlateCounts(a, b []models.ValueCount) (*models.CorrelationResult, error) {
	labels := map[string]bool{}
	am := map[string]float64{}
	bm := map[string]float64{}
	for _, c := range a {
		labels[c.Value] = true
		am[c.Value] = c.Count
	}
	for _, c := range b {
		labels[c.Value] = true
		bm[c.Value] = c.Count
	}
	united := make([]string, 0, len(labels))
	for label := range labels {
		united = append(united, label)
	}
	sort.Strings(united)

	x := make([]float64, len(united))
	y := make([]float64, len(united))
	for i, label := range united {
		x[i] = am[label]
		y[i] = bm[label]
	}
	return pearsonCorrelation(x, y)
}

func correlatePoints(a, b []models.BucketPoint) (*models.CorrelationResult, error) {
	return correlateCounts(pointsToCounts(a), pointsToCounts(b))
}

func pointsToCounts(points []models.BucketPoint) []models.ValueCount {
	counts := make([]models.ValueCount, 0, len(points))
	for _, p := range points {
		counts = append(counts, models.ValueCount{Value: p.Label, Count: p.Count})
	}
	return counts
}

// pearsonCorrelation computes the Pearson coefficient and the two-sided
// p-value from the beta distribution, the same formulation scipy's pearsonr
// uses. Requires at least 3 points and non-constant input.
func pearsonCorrelation(x, y []float64) (*models.CorrelationResult, error) {
	n := len(x)
	if n < 3 || len(y) != n {
		return nil, ErrInsufficientData
	}

	meanX, meanY := 0.0, 0.0
	for i := 0; i < n; i++ {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return nil, fmt.Errorf("constant input vector, correlation undefined")
	}

	r := sxy / math.Sqrt(sxx*syy)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	// two-sided p-value: 2 * I_x(ab, ab) with ab = n/2 - 1, x = (1-|r|)/2
	ab := float64(n)/2 - 1
	p := 2 * incompleteBeta(ab, ab, 0.5*(1-math.Abs(r)))
	if p > 1 {
		p = 1
	} else if p < 0 {
		p = 0
	}

	return &models.CorrelationResult{Coefficient: r, PValue: p, N: n}, nil
}

// incompleteBeta is the regularized incomplete beta function I_x(a,b),
// evaluated with the continued fraction expansion
func incompleteBeta(a, b, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	lgA, _ := math.Lgamma(a)
	lgB, _ := math.Lgamma(b)
	lgAB, _ := math.Lgamma(a + b)
	front := math.Exp(lgAB - lgA - lgB + a*math.Log(x) + b*math.Log(1-x))

	if x < (a+1)/(a+b+2) {
		return front * betaContinuedFraction(a, b, x) / a
	}
	return 1 - front*betaContinuedFraction(b, a, 1-x)/b
}

func betaContinuedFraction(a, b, x float64) float64 {
	const maxIterations = 200
	const epsilon = 3e-14
	const tiny = 1e-30

	qab := a + b
	qap := a + 1
	qam := a - 1
	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < tiny {
		d = tiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= maxIterations; m++ {
		m2 := 2 * m
		aa := float64(m) * (b - float64(m)) * x / ((qam + float64(m2)) * (a + float64(m2)))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		h *= d * c

		aa = -(a + float64(m)) * (qab + float64(m)) * x / ((a + float64(m2)) * (qap + float64(m2)))
		d = 1 + aa*d
		if math.Abs(d) < tiny {
			d = tiny
		}
		c = 1 + aa/c
		if math.Abs(c) < tiny {
			c = tiny
		}
		d = 1 / d
		del := d * c
		h *= del
		if math.Abs(del-1) < epsilon {
			break
		}
	}
	return h
}
