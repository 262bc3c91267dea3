package operator

// CandidateSource enumerates the finite parameter sets tried for an operator
// during search.
type CandidateSource interface {
	Candidates(spec *Spec) []Params
}

// CandidateFunc adapts a function to CandidateSource.
type CandidateFunc func(spec *Spec) []Params

// Candidates implements CandidateSource.
func (f CandidateFunc) Candidates(spec *Spec) []Params { return f(spec) }

var (
	translateSteps = []int{-30, -20, -10, 0, 10, 20, 30}
	scaleFactors   = []float64{0.5, 1.0, 1.5, 2.0}
	scaleXFactors  = []float64{0.5, 1.0, 1.5, 2.0}
	scaleYFactors  = []float64{0.5, 1.0, 2.0}
	moveDistances  = []int{-10, 0, 10}
	paintPalette   = []Tuple{IntTuple(255, 0, 0), IntTuple(0, 255, 0), IntTuple(0, 0, 255)}
)

// DefaultCandidates is the built-in discretization for the default operators.
// Operators it does not know yield no candidates.
var DefaultCandidates CandidateSource = CandidateFunc(defaultCandidates)

func defaultCandidates(spec *Spec) []Params {
	var out []Params
	switch spec.Name {
	case Translate:
		for _, dx := range translateSteps {
			for _, dy := range translateSteps {
				out = append(out, Params{"dx": Int(dx), "dy": Int(dy)})
			}
		}
	case Scale:
		for _, s := range scaleFactors {
			out = append(out, Params{"scale": Float(s)})
		}
	case NonuniformScale:
		for _, sx := range scaleXFactors {
			for _, sy := range scaleYFactors {
				out = append(out, Params{"scale_x": Float(sx), "scale_y": Float(sy)})
			}
		}
	case Paint:
		for _, c := range paintPalette {
			out = append(out, Params{"color": c})
		}
	case Move:
		for _, axis := range []string{"x", "y"} {
			for _, d := range moveDistances {
				out = append(out, Params{"axis": String(axis), "distance": Int(d)})
			}
		}
	}
	return out
}

// StaticCandidates serves fixed parameter sets keyed by operator name, such as
// presets loaded from disk.
type StaticCandidates map[string][]Params

// Candidates implements CandidateSource.
func (s StaticCandidates) Candidates(spec *Spec) []Params {
	return s[spec.Name]
}

// Add appends a parameter set for the named operator.
func (s StaticCandidates) Add(name string, p Params) {
	s[name] = append(s[name], p)
}

// MultiCandidates concatenates several sources, dropping duplicate parameter
// sets so each distinct transition is generated once.
type MultiCandidates []CandidateSource

// Candidates implements CandidateSource.
func (m MultiCandidates) Candidates(spec *Spec) []Params {
	var out []Params
	seen := make(map[string]bool)
	for _, src := range m {
		if src == nil {
			continue
		}
		for _, p := range src.Candidates(spec) {
			key := p.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, p)
		}
	}
	return out
}
