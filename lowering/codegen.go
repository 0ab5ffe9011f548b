package lowering

import (
	"fmt"
	"strings"
)

var regPool = []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11"}

// Generator walks a parsed statement list and emits RV32I assembly text,
// allocating one callee-saved register per user variable from a fixed
// pool and using t0/t1/t2 as fixed expression-evaluation scratch.
// Operands are never spilled: a binary operation or comparison holds its
// left operand in t0 while evaluating its right operand, so a right
// operand that is itself a binary expression overwrites t0 and yields a
// wrong result. Left-nested chains such as `a + b - c` evaluate correctly.
type Generator struct {
	lines  []string
	vars   map[string]string
	pool   []string
	lblSeq int
}

// NewGenerator creates a generator with a fresh register pool.
func NewGenerator() *Generator {
	pool := make([]string, len(regPool))
	copy(pool, regPool)
	return &Generator{vars: make(map[string]string), pool: pool}
}

func (g *Generator) emit(line string) {
	g.lines = append(g.lines, line)
}

func (g *Generator) newLabel(prefix string) string {
	g.lblSeq++
	return fmt.Sprintf("%s%d", prefix, g.lblSeq)
}

// getVar returns the register bound to name, allocating and zero-initializing
// one from the pool on first use. Exhausting the pool is fatal.
func (g *Generator) getVar(name string) (string, error) {
	if r, ok := g.vars[name]; ok {
		return r, nil
	}
	if len(g.pool) == 0 {
		return "", fmt.Errorf("out of variable registers allocating %q", name)
	}
	r := g.pool[0]
	g.pool = g.pool[1:]
	g.vars[name] = r
	g.emit(fmt.Sprintf("li %s, 0", r))
	return r, nil
}

var binOpMnemonic = map[string]string{
	"+": "add", "-": "sub", "&": "and", "|": "or", "^": "xor", "<<": "sll", ">>": "srl",
}

// evalExpr emits code to compute expr into target, returning target.
func (g *Generator) evalExpr(expr Expr, target string) (string, error) {
	switch e := expr.(type) {
	case IntLit:
		g.emit(fmt.Sprintf("li %s, %d", target, e.Value))
		return target, nil
	case VarRef:
		r, err := g.getVar(e.Name)
		if err != nil {
			return "", err
		}
		g.emit(fmt.Sprintf("mv %s, %s", target, r))
		return target, nil
	case BinOp:
		if _, err := g.evalExpr(e.Left, "t0"); err != nil {
			return "", err
		}
		if _, err := g.evalExpr(e.Right, "t1"); err != nil {
			return "", err
		}
		mnemonic, ok := binOpMnemonic[e.Op]
		if !ok {
			return "", fmt.Errorf("unsupported operator %q", e.Op)
		}
		g.emit(fmt.Sprintf("%s t2, t0, t1", mnemonic))
		g.emit(fmt.Sprintf("mv %s, t2", target))
		return target, nil
	}
	return "", fmt.Errorf("unsupported expression %T", expr)
}

// genCondBranchFalse emits a branch to falseLabel when test does not hold.
func (g *Generator) genCondBranchFalse(test Compare, falseLabel string) error {
	if _, err := g.evalExpr(test.Left, "t0"); err != nil {
		return err
	}
	if _, err := g.evalExpr(test.Right, "t1"); err != nil {
		return err
	}
	switch test.Op {
	case "==":
		g.emit("bne t0, t1, " + falseLabel)
	case "!=":
		g.emit("beq t0, t1, " + falseLabel)
	case "<":
		g.emit("bge t0, t1, " + falseLabel)
	case "<=":
		g.emit("blt t1, t0, " + falseLabel)
	case ">":
		g.emit("blt t0, t1, " + falseLabel)
		g.emit("beq t0, t1, " + falseLabel)
	case ">=":
		g.emit("blt t0, t1, " + falseLabel)
	default:
		return fmt.Errorf("unsupported comparator %q", test.Op)
	}
	return nil
}

// genStmt emits code for one statement.
func (g *Generator) genStmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case Assign:
		dst, err := g.getVar(s.Name)
		if err != nil {
			return err
		}
		if _, err := g.evalExpr(s.Value, "t0"); err != nil {
			return err
		}
		g.emit(fmt.Sprintf("mv %s, t0", dst))

	case AugAssign:
		dst, err := g.getVar(s.Name)
		if err != nil {
			return err
		}
		if _, err := g.evalExpr(s.Value, "t1"); err != nil {
			return err
		}
		g.emit(fmt.Sprintf("mv t0, %s", dst))
		switch s.Op {
		case "+":
			g.emit("add t0, t0, t1")
		case "-":
			g.emit("sub t0, t0, t1")
		default:
			return fmt.Errorf("unsupported augmented-assignment operator %q", s.Op)
		}
		g.emit(fmt.Sprintf("mv %s, t0", dst))

	case While:
		l0, l1 := g.newLabel("while"), g.newLabel("endw")
		g.emit(l0 + ":")
		if err := g.genCondBranchFalse(s.Cond, l1); err != nil {
			return err
		}
		for _, b := range s.Body {
			if err := g.genStmt(b); err != nil {
				return err
			}
		}
		g.emit("j " + l0)
		g.emit(l1 + ":")

	case If:
		l0, l1 := g.newLabel("else"), g.newLabel("endif")
		if err := g.genCondBranchFalse(s.Cond, l0); err != nil {
			return err
		}
		for _, b := range s.Body {
			if err := g.genStmt(b); err != nil {
				return err
			}
		}
		g.emit("j " + l1)
		g.emit(l0 + ":")
		for _, b := range s.OrElse {
			if err := g.genStmt(b); err != nil {
				return err
			}
		}
		g.emit(l1 + ":")

	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
	return nil
}

// Compile parses source and returns the assembly text it lowers to,
// including the `_start:` prologue and `sw s1, 0(x0)` / `ebreak` epilogue.
func Compile(source string) (string, error) {
	stmts, err := Parse(source)
	if err != nil {
		return "", err
	}
	g := NewGenerator()
	g.emit(".text")
	g.emit("_start:")
	for _, s := range stmts {
		if err := g.genStmt(s); err != nil {
			return "", err
		}
	}
	g.emit("sw s1, 0(x0)")
	g.emit("ebreak")
	return strings.Join(g.lines, "\n") + "\n", nil
}
