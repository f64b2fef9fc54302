package impact

import (
	"math"

	"arbodash/internal/errors"

	"github.com/kshedden/statmodel/glm"
	"github.com/kshedden/statmodel/statmodel"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/guregu/null.v3"
)

const interceptName = "icept"

type family int

const (
	poisson family = iota
	gaussian
)

// design is a model matrix stored column by column, intercept first
type design struct {
	names []string
	cols  [][]float64
}

func newDesign(n int, names ...string) *design {
	d := &design{names: append([]string{interceptName}, names...)}
	d.cols = make([][]float64, len(d.names))
	for j := range d.cols {
		d.cols[j] = make([]float64, n)
	}
	for i := range d.cols[0] {
		d.cols[0][i] = 1
	}
	return d
}

func (d *design) rows() int { return len(d.cols[0]) }

func (d *design) row(i int) []float64 {
	x := make([]float64, len(d.cols))
	for j, col := range d.cols {
		x[j] = col[i]
	}
	return x
}

// fitted holds a converged GLM with its model-based covariance
type fitted struct {
	family  family
	names   []string
	params  []float64
	stdErr  []float64
	zPValue []float64
	cov     *mat.SymDense
	dfResid int
}

// fitGLM fits y on the design with the statmodel GLM solver. Poisson fits
// start IRLS at the intercept-only solution and fall back to gradient
// optimization when IRLS does not produce finite estimates.
func fitGLM(y []float64, d *design, fam family) (*fitted, error) {
	n, p := d.rows(), len(d.cols)
	if n <= p {
		return nil, errors.InsufficientData("not enough observations to fit the model")
	}

	result, err := runGLM(y, d, fam, "IRLS")
	if err != nil {
		return nil, err
	}
	if fam == poisson && !converged(result) {
		if result, err = runGLM(y, d, fam, "gradient"); err != nil {
			return nil, err
		}
	}
	if !converged(result) {
		return nil, errors.InsufficientData("regression did not converge")
	}

	vcov := result.VCov()
	if len(vcov) != p*p {
		return nil, errors.InsufficientData("design matrix is singular")
	}

	f := &fitted{
		family:  fam,
		names:   d.names,
		params:  append([]float64(nil), result.Params()...),
		stdErr:  append([]float64(nil), result.StdErr()...),
		cov:     mat.NewSymDense(p, append([]float64(nil), vcov...)),
		dfResid: n - p,
	}
	result.ZScores()
	f.zPValue = append([]float64(nil), result.PValues()...)
	return f, nil
}

func runGLM(y []float64, d *design, fam family, method string) (*glm.GLMResults, error) {
	data := append([][]float64{y}, d.cols...)
	names := append([]string{"y"}, d.names...)
	ds := statmodel.NewDataset(data, names)

	config := glm.DefaultConfig()
	config.FitMethod = method
	if fam == poisson {
		config.Family = glm.NewFamily(glm.PoissonFamily)
		config.Start = poissonStart(y, len(d.cols))
	} else {
		config.Family = glm.NewFamily(glm.GaussianFamily)
	}

	model, err := glm.NewGLM(ds, "y", d.names, config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure regression")
	}
	return model.Fit(), nil
}

// poissonStart puts the intercept at log(mean y) and every slope at zero
func poissonStart(y []float64, p int) []float64 {
	start := make([]float64, p)
	start[0] = math.Log(math.Max(stat.Mean(y, nil), 0.5))
	return start
}

func converged(result *glm.GLMResults) bool {
	for _, b := range result.Params() {
		if !finite(b) {
			return false
		}
	}
	return true
}

func (f *fitted) linear(x []float64) float64 {
	eta := 0.0
	for j, b := range f.params {
		eta += b * x[j]
	}
	return eta
}

func (f *fitted) mean(x []float64) float64 {
	eta := f.linear(x)
	if f.family == poisson {
		return math.Exp(eta)
	}
	return eta
}

// critical returns the two-sided 95% critical value
func (f *fitted) critical() float64 {
	if f.family == gaussian {
		return distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(f.dfResid)}.Quantile(0.975)
	}
	return distuv.UnitNormal.Quantile(0.975)
}

// pValue is the two-sided test of coefficient j against zero. Gaussian fits
// use the t distribution on the residual degrees of freedom.
func (f *fitted) pValue(j int) float64 {
	if f.family == gaussian {
		t := math.Abs(f.params[j] / f.stdErr[j])
		return 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(f.dfResid)}.Survival(t)
	}
	return f.zPValue[j]
}

// Coefficient is one estimated regression term
type Coefficient struct {
	Name     string     `json:"name"`
	Estimate float64    `json:"estimate"`
	StdErr   null.Float `json:"std_err"`
	PValue   null.Float `json:"p_value"`
	Lower    null.Float `json:"lower"`
	Upper    null.Float `json:"upper"`
}

func (f *fitted) coefficients() []Coefficient {
	z := f.critical()
	out := make([]Coefficient, len(f.params))
	for j, b := range f.params {
		c := Coefficient{Name: f.names[j], Estimate: b}
		if se := f.stdErr[j]; finite(se) && se > 0 {
			c.StdErr = null.FloatFrom(se)
			c.PValue = null.FloatFrom(f.pValue(j))
			c.Lower = null.FloatFrom(b - z*se)
			c.Upper = null.FloatFrom(b + z*se)
		}
		out[j] = c
	}
	return out
}

// Exp maps a log-scale coefficient to its rate ratio
func (c Coefficient) Exp() Coefficient {
	out := Coefficient{Name: c.Name, Estimate: math.Exp(c.Estimate), PValue: c.PValue}
	if c.Lower.Valid {
		out.Lower = null.FloatFrom(math.Exp(c.Lower.Float64))
		out.Upper = null.FloatFrom(math.Exp(c.Upper.Float64))
	}
	return out
}

// Prediction is a fitted mean with its 95% confidence band
type Prediction struct {
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (f *fitted) predict(x []float64) Prediction {
	xv := mat.NewVecDense(len(x), x)
	variance := mat.Inner(xv, f.cov, xv)
	se := math.Sqrt(math.Max(variance, 0))
	eta := f.linear(x)
	z := f.critical()

	if f.family == poisson {
		return Prediction{Mean: math.Exp(eta), Lower: math.Exp(eta - z*se), Upper: math.Exp(eta + z*se)}
	}
	return Prediction{Mean: eta, Lower: eta - z*se, Upper: eta + z*se}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
