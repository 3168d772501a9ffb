package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mrzor/procsnap/snapshot"
)

// Evaluator runs a pre-compiled match expression against process views.
type Evaluator struct {
	program *vm.Program
}

// exprEnv is the typed environment match expressions are compiled against.
func exprEnv() map[string]interface{} {
	return map[string]interface{}{
		"pid":     0,
		"ppid":    0,
		"comm":    "",
		"state":   "",
		"uid":     uint32(0),
		"threads": int64(0),
		"rss":     uint64(0),
		"cmdline": "",
	}
}

// New compiles a match expression. The expression must evaluate to a
// boolean.
func New(expression string) (*Evaluator, error) {
	program, err := expr.Compile(expression,
		expr.Env(exprEnv()),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression %q: %w", expression, err)
	}
	return &Evaluator{program: program}, nil
}

// Match reports whether the process view satisfies the expression. env
// supplies the page size for the rss binding.
func (e *Evaluator) Match(p *snapshot.Process, env snapshot.Environment) (bool, error) {
	bindings := map[string]interface{}{
		"pid":     p.PID,
		"ppid":    p.Stat.PPID,
		"comm":    p.Stat.Comm,
		"state":   p.Stat.State.String(),
		"uid":     p.Status.UIDs[0],
		"threads": p.Stat.NumThreads,
		"rss":     p.ResidentBytes(env),
		"cmdline": strings.Join(p.Cmdline, " "),
	}
	output, err := expr.Run(e.program, bindings)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate filter for pid %d: %w", p.PID, err)
	}
	matched, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("filter expression returned %T, want bool", output)
	}
	return matched, nil
}
