package scripting

import (
	"fmt"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Lookup resolves an identifier used in a formula, such as an attribute id,
// to its numeric value.
type Lookup func(id string) float64

// Evaluator evaluates numeric formulas such as "(dx + ht) / 4" in a single
// sandboxed LState. Identifiers not defined by the Lua libraries are resolved
// through the Lookup passed to Eval. Compiled formulas are cached.
//
// An Evaluator is not safe for concurrent use. Eval may be re-entered from
// inside a Lookup; nested evaluations share the outermost instruction budget.
type Evaluator struct {
	L      *lua.LState
	limit  int
	protos map[string]*lua.FunctionProto
	lookup Lookup
	depth  int
}

// NewEvaluator creates an Evaluator whose evaluations may each run at most
// instLimit opcodes.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil Evaluator; the caller must call Close.
func NewEvaluator(instLimit int) *Evaluator {
	e := &Evaluator{
		L:      NewSandboxedState(),
		limit:  instLimit,
		protos: make(map[string]*lua.FunctionProto),
	}
	mt := e.L.NewTable()
	e.L.SetField(mt, "__index", e.L.NewFunction(e.index))
	e.L.SetMetatable(e.L.G.Global, mt)
	return e
}

// Close releases the underlying LState.
func (e *Evaluator) Close() {
	e.L.Close()
}

func (e *Evaluator) index(L *lua.LState) int {
	key := L.CheckString(2)
	if e.lookup == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(e.lookup(key)))
	return 1
}

// Eval evaluates formula and returns its numeric result. A `$` before an
// identifier is ignored, so "$st" and "st" are equivalent. Numeric literals
// are returned without entering Lua. An empty formula evaluates to 0.
//
// Postcondition: Returns an error when the formula does not parse, exceeds
// the instruction limit, or does not produce a number.
func (e *Evaluator) Eval(formula string, lookup Lookup) (float64, error) {
	expr := strings.TrimSpace(strings.ReplaceAll(formula, "$", ""))
	if expr == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		return v, nil
	}
	proto, err := e.compile(expr)
	if err != nil {
		return 0, err
	}

	prev := e.lookup
	e.lookup = lookup
	defer func() { e.lookup = prev }()
	if e.depth == 0 {
		release := limitInstructions(e.L, e.limit)
		defer release()
	}
	e.depth++
	defer func() { e.depth-- }()

	e.L.Push(e.L.NewFunctionFromProto(proto))
	if err := e.L.PCall(0, 1, nil); err != nil {
		return 0, fmt.Errorf("evaluating formula %q: %w", formula, err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("evaluating formula %q: result is a %s, not a number", formula, ret.Type())
	}
	return float64(n), nil
}

func (e *Evaluator) compile(expr string) (*lua.FunctionProto, error) {
	if p, ok := e.protos[expr]; ok {
		return p, nil
	}
	chunk, err := parse.Parse(strings.NewReader("return "+expr), expr)
	if err != nil {
		return nil, fmt.Errorf("parsing formula %q: %w", expr, err)
	}
	proto, err := lua.Compile(chunk, expr)
	if err != nil {
		return nil, fmt.Errorf("compiling formula %q: %w", expr, err)
	}
	e.protos[expr] = proto
	return proto, nil
}
