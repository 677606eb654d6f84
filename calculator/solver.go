package calculator

import (
	"fmt"
	"math"

	"dla/model"
)

// SolveResult 一次求解的结果
type SolveResult struct {
	Iterations int     // 消耗的扫描次数，包括被拒绝的扫描
	Residual   float64 // 最后一次被接受的扫描的 L∞ 变化量
	Omega      float64 // 结束时的 ω
	Reductions int     // ω 被下调的次数
}

// Solve relaxes field in place towards the steady state of the discrete
// Laplace equation: row 0 held at 1, row N-1 held at 0, columns periodic, and
// every cell set in mask held at 0. The field passed in is the initial guess.
//
// On ErrInstability the field is restored to the last finite sweep.
func Solve(field *model.Field, mask *model.Grid, p SolverParams) (SolveResult, error) {
	if err := p.Validate(); err != nil {
		return SolveResult{}, err
	}
	n := field.N
	if mask != nil && mask.N != n {
		return SolveResult{}, fmt.Errorf("%w: mask size %d does not match field size %d", ErrInvalidParameter, mask.N, n)
	}

	// cur 原地更新；prev 保存上一轮完整扫描的结果
	cur := field.Data
	prev := make([]float64, len(cur))
	setBoundary(cur, n)

	omega := p.Omega
	step := p.omegaStep()
	last := math.Inf(1)
	res := SolveResult{Omega: omega, Residual: math.Inf(1)}

	for it := 1; it <= p.MaxIterations; it++ {
		copy(prev, cur)
		delta, ok := sweep(cur, prev, mask, n, omega)
		res.Iterations = it
		if !ok {
			copy(cur, prev)
			res.Omega = omega
			return res, &SolveError{Iterations: it, Omega: omega, Residual: res.Residual, Err: ErrInstability}
		}

		// 残差变大：丢弃本轮扫描，下调 ω 后重新扫描
		if p.AdaptiveOmega && delta > last && omega-step >= minOmega-1e-12 {
			copy(cur, prev)
			omega -= step
			res.Reductions++
			continue
		}

		last = delta
		res.Residual = delta
		if delta < p.Tolerance {
			res.Omega = omega
			return res, nil
		}
	}

	res.Omega = omega
	return res, &SolveError{Iterations: res.Iterations, Omega: omega, Residual: res.Residual, Err: ErrConvergenceFailure}
}

func setBoundary(c []float64, n int) {
	for j := 0; j < n; j++ {
		c[j] = 1
	}
	if n > 1 {
		bottom := (n - 1) * n
		for j := 0; j < n; j++ {
			c[bottom+j] = 0
		}
	}
}

// sweep performs one row-major SOR pass over the interior rows.
//
// Neighbour reads:
//   up    cur  (row i-1 is finished in this sweep)
//   left  cur  (column j-1 is finished; for j == 0 this is column N-1, which
//              this sweep has not reached yet, so it still holds the old value)
//   down  prev
//   right prev (also for j == N-1, where column 0 already holds a new value)
//
// Returns the L∞ change against prev and false as soon as a value is not finite.
func sweep(cur, prev []float64, mask *model.Grid, n int, omega float64) (float64, bool) {
	var delta float64
	w := omega / 4
	for i := 1; i < n-1; i++ {
		row := i * n
		for j := 0; j < n; j++ {
			k := row + j
			if mask != nil && mask.Cells[k] {
				cur[k] = 0
			} else {
				up := cur[k-n]
				left := cur[row+(j-1+n)%n]
				down := prev[k+n]
				right := prev[row+(j+1)%n]
				v := w*(down+up+left+right) + (1-omega)*prev[k]
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return delta, false
				}
				cur[k] = v
			}
			if d := math.Abs(cur[k] - prev[k]); d > delta {
				delta = d
			}
		}
	}
	return delta, true
}
