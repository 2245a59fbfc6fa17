// Package rwr implements Random Walk with Restart diffusion over a
// column-stochastic transition matrix.
//
// For every start node i the walk iterates
//
//	q(t+1) = (1-r)·W·q(t) + r·e_i,  q(0) = 1/n
//
// until max((q(t+1) - q(t))²) < ε, and stores the final iterate as row i of
// the probability matrix. The update is a contraction with factor (1-r), so
// it converges for every r in (0,1) within O(log(1/ε)/log(1/(1-r)))
// iterations. Small r converges slowly; r close to 1 keeps almost all mass
// on the start node. Both are valid inputs.
package rwr

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/bioc/wppi/pkg/logging"
	"github.com/bioc/wppi/pkg/metrics"
	"github.com/bioc/wppi/pkg/parallel"
	"github.com/bioc/wppi/pkg/validation"
)

const (
	// DefaultRestartProb is the probability of jumping back to the start node
	DefaultRestartProb = 0.4
	// DefaultThreshold is the canonical convergence threshold on the maximum
	// squared element-wise change between iterates
	DefaultThreshold = 1e-6
	// DefaultMaxIterations caps the iterations spent on a single row
	DefaultMaxIterations = 10000
)

// ctxCheckEvery is how many iterations run between context checks
const ctxCheckEvery = 64

// Options configures the diffusion
type Options struct {
	RestartProb   float64
	Threshold     float64
	MaxIterations int
	Workers       int // 0 = GOMAXPROCS
}

// DefaultOptions returns the default diffusion configuration
func DefaultOptions() Options {
	return Options{
		RestartProb:   DefaultRestartProb,
		Threshold:     DefaultThreshold,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate checks the restart probability, threshold and iteration cap.
func (o Options) Validate() error {
	return validation.NewConfigValidator("rwr").
		OpenRangeFloat("restart_prob", o.RestartProb, 0, 1).
		PositiveFloat("threshold", o.Threshold).
		Positive("max_iterations", o.MaxIterations).
		NonNegative("workers", o.Workers).
		Validate()
}

// Result is the probability matrix and per-row diagnostics
type Result struct {
	// P[i][j] is the probability that a walk restarting at i visits j.
	P *mat.Dense
	// Iterations[i] is the number of iterations spent on row i.
	Iterations []int
	// Unconverged lists, ascending, the rows that hit the iteration cap.
	Unconverged []int
}

// Engine runs the diffusion
type Engine struct {
	opts    Options
	logger  logging.Logger
	metrics *metrics.Registry
}

// NewEngine validates opts and creates an engine. A nil logger or registry
// disables that concern.
func NewEngine(opts Options, logger logging.Logger, reg *metrics.Registry) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		opts:    opts,
		logger:  logger.With(logging.Component("rwr")),
		metrics: reg,
	}, nil
}

// Options returns the engine configuration
func (e *Engine) Options() Options {
	return e.opts
}

// Diffuse computes the full probability matrix for transition matrix w.
//
// Rows are computed concurrently; w is only read. If some rows reach the
// iteration cap the complete result is still returned, holding the last
// iterate for those rows, together with a *ConvergenceError.
func (e *Engine) Diffuse(ctx context.Context, w mat.Matrix) (*Result, error) {
	n, err := checkTransition(w)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p := mat.NewDense(n, n, nil)
	iterations := make([]int, n)
	converged := make([]bool, n)

	err = parallel.ForEach(ctx, e.opts.Workers, n, func(i int) error {
		row, iters, ok, err := e.walk(ctx, w, n, i)
		if err != nil {
			return err
		}
		p.SetRow(i, row)
		iterations[i] = iters
		converged[i] = ok
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("diffuse: %w", err)
	}

	res := &Result{P: p, Iterations: iterations}
	for i, ok := range converged {
		if !ok {
			res.Unconverged = append(res.Unconverged, i)
		}
	}

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.RecordDiffusion(elapsed, iterations, len(res.Unconverged))
	}

	if len(res.Unconverged) > 0 {
		cerr := &ConvergenceError{Rows: res.Unconverged, MaxIterations: e.opts.MaxIterations}
		e.logger.Warn("random walk hit the iteration cap",
			logging.Nodes(n),
			logging.Int("unconverged_rows", len(res.Unconverged)),
			logging.Int("max_iterations", e.opts.MaxIterations),
			logging.Latency(elapsed),
		)
		return res, cerr
	}

	e.logger.Info("random walk converged",
		logging.Nodes(n),
		logging.Float64("restart_prob", e.opts.RestartProb),
		logging.Int("max_row_iterations", maxInt(iterations)),
		logging.Latency(elapsed),
	)
	return res, nil
}

// DiffuseFrom runs the walk restarting at a single node and returns its
// distribution, the iterations spent and whether it converged.
func (e *Engine) DiffuseFrom(ctx context.Context, w mat.Matrix, start int) ([]float64, int, bool, error) {
	n, err := checkTransition(w)
	if err != nil {
		return nil, 0, false, err
	}
	if start < 0 || start >= n {
		return nil, 0, false, validation.NewInputError("start", "node %d outside [0, %d)", start, n)
	}
	return e.walk(ctx, w, n, start)
}

// walk iterates a single row to its fixed point.
func (e *Engine) walk(ctx context.Context, w mat.Matrix, n, start int) ([]float64, int, bool, error) {
	r := e.opts.RestartProb

	q := mat.NewVecDense(n, nil)
	for k := 0; k < n; k++ {
		q.SetVec(k, 1/float64(n))
	}
	next := mat.NewVecDense(n, nil)

	iters := 0
	converged := false
	for iters < e.opts.MaxIterations {
		iters++
		if iters%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, iters, false, err
			}
		}

		next.MulVec(w, q)
		next.ScaleVec(1-r, next)
		next.SetVec(start, next.AtVec(start)+r)

		maxSq := 0.0
		for k := 0; k < n; k++ {
			d := next.AtVec(k) - q.AtVec(k)
			if d*d > maxSq {
				maxSq = d * d
			}
		}

		q, next = next, q
		if maxSq < e.opts.Threshold {
			converged = true
			break
		}
	}

	row := make([]float64, n)
	copy(row, q.RawVector().Data)
	return row, iters, converged, nil
}

// checkTransition rejects empty, non-square or non-finite matrices.
func checkTransition(w mat.Matrix) (int, error) {
	if w == nil {
		return 0, validation.NewInputError("transition", "matrix is nil")
	}
	rows, cols := w.Dims()
	if rows == 0 {
		return 0, validation.NewInputError("transition", "matrix is empty")
	}
	if rows != cols {
		return 0, validation.NewInputError("transition", "matrix is %dx%d, want square", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := w.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return 0, validation.NewInputError("transition", "entry (%d,%d) = %v is not a finite non-negative weight", i, j, v)
			}
		}
	}
	return rows, nil
}

func maxInt(xs []int) int {
	m := 0
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
