package calculator

import (
	"fmt"
	"math"
)

const (
	DefaultOmegaStep = 0.01

	// ω 自适应下调的下限，ω = 1 即普通 Gauss-Seidel
	minOmega = 1.0
)

// SolverParams 求解参数，每次调用独立持有，ω 的自适应修改不会写回
type SolverParams struct {
	Omega         float64 // 松弛因子，(1, 2)
	Tolerance     float64 // 相邻两次迭代的 L∞ 变化量阈值
	MaxIterations int     // 最大迭代次数
	AdaptiveOmega bool    // 残差变大时是否下调 ω
	OmegaStep     float64 // ω 每次下调的步长
}

func (p SolverParams) Validate() error {
	if !(p.Omega > 1 && p.Omega < 2) {
		return fmt.Errorf("%w: omega %v not in (1, 2)", ErrInvalidParameter, p.Omega)
	}
	if !(p.Tolerance > 0) || math.IsInf(p.Tolerance, 0) {
		return fmt.Errorf("%w: tolerance %v must be positive", ErrInvalidParameter, p.Tolerance)
	}
	if p.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d must be positive", ErrInvalidParameter, p.MaxIterations)
	}
	if p.OmegaStep < 0 {
		return fmt.Errorf("%w: omega step %v must not be negative", ErrInvalidParameter, p.OmegaStep)
	}
	return nil
}

func (p SolverParams) omegaStep() float64 {
	if p.OmegaStep <= 0 {
		return DefaultOmegaStep
	}
	return p.OmegaStep
}
