package filtergraph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expr An ffmpeg arithmetic expression, as evaluated by filters options such as crop x/y
// Documentation : https://ffmpeg.org/ffmpeg-utils.html#Expression-Evaluation
type Expr interface {
	String() string
	// Binding strength, used to know when a sub expression must be parenthesized
	precedence() int
}

const (
	precSum = iota + 1
	precProduct
	precAtom
)

// Num A decimal constant, always written with 3 decimals
type Num float64

func (n Num) String() string {
	return strconv.FormatFloat(float64(n), 'f', 3, 64)
}

func (n Num) precedence() int { return precAtom }

// Int An integer constant
type Int int

func (i Int) String() string {
	return strconv.Itoa(int(i))
}

func (i Int) precedence() int { return precAtom }

// Var A variable or named constant known to the evaluator ("t", "iw", "ow", "PI"...)
type Var string

func (v Var) String() string {
	return string(v)
}

func (v Var) precedence() int { return precAtom }

// Well known variables
const (
	// Timestamp in seconds of the frame being processed
	T Var = "t"
	// Pi constant
	Pi Var = "PI"
	// Input width
	InW Var = "iw"
	// Input height
	InH Var = "ih"
	// Output width
	OutW Var = "ow"
	// Output height
	OutH Var = "oh"
)

type call struct {
	fn   string
	args []Expr
}

func (c call) String() string {
	args := make([]string, len(c.args))
	for i, a := range c.args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.fn, strings.Join(args, ","))
}

func (c call) precedence() int { return precAtom }

func Sin(x Expr) Expr { return call{"sin", []Expr{x}} }
func Cos(x Expr) Expr { return call{"cos", []Expr{x}} }
func Mod(x, y Expr) Expr { return call{"mod", []Expr{x, y}} }
func Lt(x, y Expr) Expr { return call{"lt", []Expr{x, y}} }
func If(c, then, els Expr) Expr { return call{"if", []Expr{c, then, els}} }

type chain struct {
	op    string
	prec  int
	terms []Expr
}

func (c chain) String() string {
	ss := strings.Builder{}
	for i, t := range c.terms {
		if i > 0 {
			ss.WriteString(c.op)
		}
		// Right operand of a non associative operator needs parentheses at equal precedence
		needParens := t.precedence() < c.prec || (i > 0 && t.precedence() == c.prec && (c.op == "-" || c.op == "/"))
		if needParens {
			ss.WriteString(fmt.Sprintf("(%s)", t))
		} else {
			ss.WriteString(t.String())
		}
	}
	return ss.String()
}

func (c chain) precedence() int { return c.prec }

// Add Sum of all terms
func Add(terms ...Expr) Expr { return chain{"+", precSum, terms} }

// Sub x minus y
func Sub(x, y Expr) Expr { return chain{"-", precSum, []Expr{x, y}} }

// Mul Product of all factors
func Mul(factors ...Expr) Expr { return chain{"*", precProduct, factors} }

// Div x divided by y
func Div(x, y Expr) Expr { return chain{"/", precProduct, []Expr{x, y}} }

// CheckFinite Return an error naming the first constant of e that is NaN or infinite
func CheckFinite(e Expr) error {
	switch v := e.(type) {
	case Num:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("non finite constant %v", float64(v))
		}
	case call:
		for _, a := range v.args {
			if err := CheckFinite(a); err != nil {
				return fmt.Errorf("in %s() : %w", v.fn, err)
			}
		}
	case chain:
		for _, t := range v.terms {
			if err := CheckFinite(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write an expression as an option value. Values holding a "," would otherwise be read
// as the end of the filter, so they are quoted
func optionValue(e Expr) string {
	s := e.String()
	if strings.Contains(s, ",") {
		return fmt.Sprintf("'%s'", s)
	}
	return s
}
