package solve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strings"
	"time"

	"github.com/banshee-data/pareto.report/internal/nlp"
)

// External bridges to a solver executable. The model is serialized as
// JSON on the child's stdin and a single JSON solution is read from its
// stdout. The executable path comes from configuration, the same way the
// source project pointed its modeling layer at a solver install.
type External struct {
	path    string
	args    []string
	timeout time.Duration
	log     *slog.Logger
}

// NewExternal returns a subprocess-backed solver.
func NewExternal(path string, args []string, timeout time.Duration, log *slog.Logger) *External {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultOptions().Timeout
	}
	return &External{path: path, args: args, timeout: timeout, log: log}
}

// wireInf stands in for infinite bounds on the wire: encoding/json
// rejects IEEE infinities, and solver front ends conventionally treat
// anything at or beyond 1e30 as unbounded.
const wireInf = 1e30

func wireBound(v float64) float64 {
	if math.IsInf(v, 1) || v > wireInf {
		return wireInf
	}
	if math.IsInf(v, -1) || v < -wireInf {
		return -wireInf
	}
	return v
}

// wire types for the subprocess protocol.

type wireVar struct {
	Name  string  `json:"name"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Kind  string  `json:"kind"`
}

type wireTerm struct {
	Var   int     `json:"var"`
	Coeff float64 `json:"coeff"`
}

type wireQuadTerm struct {
	I     int     `json:"i"`
	J     int     `json:"j"`
	Coeff float64 `json:"coeff"`
}

type wireExpr struct {
	Const float64        `json:"const,omitempty"`
	Lin   []wireTerm     `json:"lin,omitempty"`
	Quad  []wireQuadTerm `json:"quad,omitempty"`
}

type wireConstraint struct {
	Name  string   `json:"name"`
	Expr  wireExpr `json:"expr"`
	Lower float64  `json:"lower"`
	Upper float64  `json:"upper"`
}

type wireRequest struct {
	Model       string           `json:"model"`
	Vars        []wireVar        `json:"vars"`
	Constraints []wireConstraint `json:"constraints,omitempty"`
	Objective   wireExpr         `json:"objective"`
	Sense       string           `json:"sense"`
}

type wireResponse struct {
	Status    string    `json:"status"`
	X         []float64 `json:"x"`
	Objective float64   `json:"objective"`
	Message   string    `json:"message,omitempty"`
}

func (e *External) Solve(ctx context.Context, m *nlp.Model, obj nlp.Objective) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	req := wireRequest{
		Model:     m.Name,
		Objective: encodeExpr(obj.Expr),
		Sense:     obj.Sense.String(),
	}
	for i := range m.Names {
		req.Vars = append(req.Vars, wireVar{
			Name:  m.Names[i],
			Lower: wireBound(m.Lower[i]),
			Upper: wireBound(m.Upper[i]),
			Kind:  m.Kinds[i].String(),
		})
	}
	for _, c := range m.Constraints {
		req.Constraints = append(req.Constraints, wireConstraint{
			Name:  c.Name,
			Expr:  encodeExpr(c.Expr),
			Lower: wireBound(c.Lower),
			Upper: wireBound(c.Upper),
		})
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode solver request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	began := time.Now()
	cmd := exec.CommandContext(ctx, e.path, e.args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debug("invoking external solver", "path", e.path, "model", m.Name, "objective", obj.Name)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("external solver %s: %w: %s", e.path, err, msg)
		}
		return nil, fmt.Errorf("external solver %s: %w", e.path, err)
	}

	var resp wireResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("external solver %s: bad response: %w", e.path, err)
	}

	res := &Result{
		Objective: resp.Objective,
		Status:    parseStatus(resp.Status),
		Stats:     Stats{Runtime: time.Since(began)},
	}
	if len(resp.X) > 0 {
		if len(resp.X) != m.NumVars() {
			return nil, fmt.Errorf("external solver %s: solution has %d values for %d variables",
				e.path, len(resp.X), m.NumVars())
		}
		res.X = resp.X
		res.Activities = activities(m, resp.X)
	}
	if res.Status == StatusFailed && resp.Message != "" {
		return res, fmt.Errorf("external solver %s: %s", e.path, resp.Message)
	}
	return res, nil
}

func encodeExpr(e nlp.QuadExpr) wireExpr {
	out := wireExpr{Const: e.Const}
	for _, t := range e.Lin {
		out.Lin = append(out.Lin, wireTerm{Var: t.Var, Coeff: t.Coeff})
	}
	for _, q := range e.Quad {
		out.Quad = append(out.Quad, wireQuadTerm{I: q.I, J: q.J, Coeff: q.Coeff})
	}
	return out
}

func parseStatus(s string) Status {
	switch strings.ToLower(s) {
	case "optimal", "ok":
		return StatusOptimal
	case "infeasible":
		return StatusInfeasible
	case "failed", "error":
		return StatusFailed
	default:
		return StatusUnknown
	}
}
