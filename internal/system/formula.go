package system

import (
	"dungeoncrawl/internal/component"
	"dungeoncrawl/internal/logger"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DamageFormula turns attacker and defender stats into a damage value. It must
// be deterministic for equal inputs. Values ≤ 0 mean no damage.
type DamageFormula interface {
	Damage(attacker, defender component.Combat) int
}

// Subtractive is power minus defense.
type Subtractive struct{}

func (Subtractive) Damage(attacker, defender component.Combat) int {
	return attacker.Power - defender.Defense
}

func (Subtractive) String() string { return "subtractive" }

// formulaEnv is the variable set visible to damage expressions.
type formulaEnv struct {
	Power       int `expr:"power"`
	Defense     int `expr:"defense"`
	HP          int `expr:"hp"`
	MaxHP       int `expr:"max_hp"`
	TargetHP    int `expr:"target_hp"`
	TargetMaxHP int `expr:"target_max_hp"`
}

// ExprFormula evaluates a compiled expr-lang expression such as
// "max(0, power - defense)". power/hp/max_hp belong to the attacker,
// defense/target_hp/target_max_hp to the defender.
type ExprFormula struct {
	src     string
	program *vm.Program
}

// NewExprFormula compiles src once; Damage only runs the bytecode.
func NewExprFormula(src string) (*ExprFormula, error) {
	program, err := expr.Compile(src, expr.Env(formulaEnv{}), expr.AsInt())
	if err != nil {
		return nil, fmt.Errorf("compile damage formula %q: %w", src, err)
	}
	return &ExprFormula{src: src, program: program}, nil
}

// Damage runs the expression. A runtime error (division by zero, say) falls
// back to Subtractive.
func (f *ExprFormula) Damage(attacker, defender component.Combat) int {
	env := formulaEnv{
		Power:       attacker.Power,
		Defense:     defender.Defense,
		HP:          attacker.HP,
		MaxHP:       attacker.MaxHP,
		TargetHP:    defender.HP,
		TargetMaxHP: defender.MaxHP,
	}
	out, err := vm.Run(f.program, env)
	if err != nil {
		logger.Component("combat").WithError(err).WithField("formula", f.src).
			Warn("Damage formula failed; using subtractive.")
		return Subtractive{}.Damage(attacker, defender)
	}
	switch v := out.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func (f *ExprFormula) String() string { return f.src }

// ParseFormula returns Subtractive for "" or "subtractive", otherwise compiles
// src as an expression.
func ParseFormula(src string) (DamageFormula, error) {
	switch strings.TrimSpace(src) {
	case "", "subtractive":
		return Subtractive{}, nil
	}
	return NewExprFormula(src)
}
