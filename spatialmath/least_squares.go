package spatialmath

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultRcond is the relative singular value cutoff used by SolveLeastSquares. Singular values
// no larger than DefaultRcond times the largest one are treated as zero, so systems with a
// condition number above about 1e6 are rejected. Measurement noise keeps the smallest singular
// value of a degenerate system just above zero; a tighter cutoff lets such systems through.
const DefaultRcond = 1e-6

// ErrIllConditionedSystem is returned when a linear system is singular or too close to singular to be solved.
var ErrIllConditionedSystem = errors.New("linear system is ill-conditioned")

// LeastSquaresSolver solves A·x = b in the least-squares sense for a fixed A and any number of right hand sides.
// The factorization is computed once in NewLeastSquaresSolver.
type LeastSquaresSolver struct {
	svd  mat.SVD
	rows int
	cols int
	rank int
	cond float64
}

// NewLeastSquaresSolver factorizes a with a singular value decomposition. It fails with
// ErrIllConditionedSystem if any singular value falls at or below rcond times the largest one,
// since the pseudo-inverse would then silently drop a direction of the solution.
func NewLeastSquaresSolver(a mat.Matrix, rcond float64) (*LeastSquaresSolver, error) {
	if rcond < 0 {
		return nil, errors.Errorf("rcond must be non-negative, got %g", rcond)
	}
	rows, cols := a.Dims()
	if rows < cols {
		return nil, errors.Wrapf(ErrIllConditionedSystem, "underdetermined system: %d equations for %d unknowns", rows, cols)
	}
	s := &LeastSquaresSolver{rows: rows, cols: cols}
	if ok := s.svd.Factorize(a, mat.SVDThin); !ok {
		return nil, errors.Wrap(ErrIllConditionedSystem, "singular value decomposition failed")
	}
	s.rank = s.svd.Rank(rcond)
	s.cond = s.svd.Cond()
	if s.rank < cols {
		return nil, errors.Wrapf(ErrIllConditionedSystem, "rank %d < %d (condition number %g)", s.rank, cols, s.cond)
	}
	return s, nil
}

// Cond returns the 2-norm condition number of the factorized matrix.
func (s *LeastSquaresSolver) Cond() float64 {
	return s.cond
}

// SingularValues returns the singular values in descending order.
func (s *LeastSquaresSolver) SingularValues() []float64 {
	return s.svd.Values(nil)
}

// Solve returns the least-squares solution x of A·x = b.
func (s *LeastSquaresSolver) Solve(b mat.Vector) (*mat.VecDense, error) {
	if b.Len() != s.rows {
		return nil, errors.Errorf("right hand side has length %d, expected %d", b.Len(), s.rows)
	}
	x := mat.NewVecDense(s.cols, nil)
	s.svd.SolveVecTo(x, b, s.rank)
	return x, nil
}

// SolveLeastSquares solves A·x = b in the least-squares sense via the SVD pseudo-inverse.
func SolveLeastSquares(a mat.Matrix, b mat.Vector) (*mat.VecDense, error) {
	s, err := NewLeastSquaresSolver(a, DefaultRcond)
	if err != nil {
		return nil, err
	}
	return s.Solve(b)
}
