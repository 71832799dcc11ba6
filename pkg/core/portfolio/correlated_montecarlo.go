package portfolio

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"rnpvengine/pkg/core/overrides"
	"rnpvengine/pkg/core/valuation"
	"rnpvengine/pkg/models"
)

// CorrelatedMCResult mirrors montecarlo.Result's distributional shape
// for the portfolio's aggregate rNPV.
type CorrelatedMCResult struct {
	Mean         float64
	Median       float64
	Std          float64
	P5           float64
	P25          float64
	P75          float64
	P95          float64
	ProbPositive float64
	NIterations  int
	Histogram    []float64
}

// RunCorrelatedMonteCarlo draws n joint samples across a portfolio's
// members: peak-sales shocks are correlated at rho via a Cholesky
// factorization of the m x m matrix with 1 on the diagonal and rho
// elsewhere; launch-delay and PoS perturbations stay independent per
// member (§4.7).
func RunCorrelatedMonteCarlo(p *models.Portfolio, fetch func(models.SnapshotRef) (*models.Snapshot, error), n int, rho float64, seed *int64) (*CorrelatedMCResult, error) {
	if n <= 0 {
		return nil, models.NewConfigError("n_iterations must be positive, got %d", n)
	}
	if rho < 0 || rho > 1 {
		return nil, models.NewConfigError("rho must be in [0, 1], got %f", rho)
	}

	members, err := overrides.ApplyPortfolioOverrides(p, fetch)
	if err != nil {
		return nil, err
	}
	m := len(members)
	if m == 0 {
		return &CorrelatedMCResult{NIterations: n}, nil
	}

	var choleskyL *mat.TriDense
	if rho >= 1 && m > 1 {
		// The all-ones matrix is only positive semi-definite, so Cholesky
		// cannot factor it; its lower-triangular factor is the first
		// column of ones, which drives every member with the same draw.
		lData := make([]float64, m*m)
		for i := 0; i < m; i++ {
			lData[i*m] = 1
		}
		choleskyL = mat.NewTriDense(m, mat.Lower, lData)
	} else if rho > 0 && m > 1 {
		data := make([]float64, m*m)
		for i := 0; i < m; i++ {
			for j := 0; j < m; j++ {
				if i == j {
					data[i*m+j] = 1
				} else {
					data[i*m+j] = rho
				}
			}
		}
		corr := mat.NewSymDense(m, data)
		var c mat.Cholesky
		if !c.Factorize(corr) {
			return nil, models.NewConfigError("correlation matrix with rho=%f is not positive definite", rho)
		}
		var l mat.TriDense
		c.LTo(&l)
		choleskyL = &l
	}

	var seedVal int64
	if seed != nil {
		seedVal = *seed
	} else {
		seedVal = time.Now().UnixNano()
	}
	src := rand.NewSource(seedVal)
	z := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	mcConfigs := make([]models.MCConfig, m)
	for i, mem := range members {
		mcConfigs[i] = mem.Snapshot.EffectiveMCConfig()
	}
	delayDists := make([]distuv.Normal, m)
	posDists := make([]distuv.Normal, m)
	for i := range members {
		delayDists[i] = distuv.Normal{Mu: 0, Sigma: mcConfigs[i].LaunchDelayStdYears, Src: src}
		posDists[i] = distuv.Normal{Mu: 0, Sigma: mcConfigs[i].PosVariationPct, Src: src}
	}

	samples := make([]float64, n)
	zVec := make([]float64, m)
	wVec := mat.NewVecDense(m, nil)

	for iter := 0; iter < n; iter++ {
		for j := 0; j < m; j++ {
			zVec[j] = z.Rand()
		}

		var w []float64
		if choleskyL != nil {
			zMat := mat.NewVecDense(m, zVec)
			wVec.MulVec(choleskyL, zMat)
			w = make([]float64, m)
			for j := 0; j < m; j++ {
				w[j] = wVec.AtVec(j)
			}
		} else {
			w = zVec
		}

		portfolioENPV := 0.0
		for j, mem := range members {
			sample := mem.Snapshot.Clone()

			peakStd := mcConfigs[j].PeakSalesStdPct
			sample.PeakSalesUSDm = math.Max(sample.PeakSalesUSDm*(1+peakStd*w[j]), 0)

			delayYears := int(math.Round(delayDists[j].Rand()))
			sample.LaunchYear += delayYears
			sample.PatentExpiryYear += delayYears

			for k := range sample.PhaseInputs {
				epsPos := posDists[j].Rand()
				perturbed := sample.PhaseInputs[k].ProbabilityOfSuccess * (1 + epsPos)
				sample.PhaseInputs[k].ProbabilityOfSuccess = clamp(perturbed, 0.01, 1.0)
			}

			result, err := valuation.Evaluate(sample, tailYears+2)
			if err != nil {
				return nil, err
			}
			portfolioENPV += result.ENPV
		}
		samples[iter] = portfolioENPV
	}

	return summarizeCorrelated(samples), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func summarizeCorrelated(samples []float64) *CorrelatedMCResult {
	n := len(samples)
	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	positive := 0
	for _, v := range samples {
		sum += v
		if v > 0 {
			positive++
		}
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	var std float64
	if n > 0 {
		std = math.Sqrt(variance / float64(n))
	}

	stride := n / 200
	if stride < 1 {
		stride = 1
	}
	histogram := make([]float64, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		histogram = append(histogram, samples[i])
	}

	return &CorrelatedMCResult{
		Mean:         mean,
		Median:       percentile(sorted, 0.50),
		Std:          std,
		P5:           percentile(sorted, 0.05),
		P25:          percentile(sorted, 0.25),
		P75:          percentile(sorted, 0.75),
		P95:          percentile(sorted, 0.95),
		ProbPositive: float64(positive) / float64(n),
		NIterations:  n,
		Histogram:    histogram,
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
