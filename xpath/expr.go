package xpath

import (
	"math"

	"github.com/arbortree/arbor/dom"
)

func (n NumberLiteral) eval(_ *evalContext, _ Item) (Value, error) {
	return numberValue(float64(n)), nil
}

func (s StringLiteral) eval(_ *evalContext, _ Item) (Value, error) {
	return stringValue(string(s)), nil
}

// eval resolves @name against the context item's owning element. A
// missing attribute evaluates to an empty node-set rather than an error,
// so `foo[@missing]` is simply false and `string(@missing)` is "" —
// matching how XPath treats an absent attribute node.
func (a AttrRef) eval(ec *evalContext, item Item) (Value, error) {
	owner := item.Node
	if item.IsAttr {
		owner = item.AttrOwner
	}
	value, ok := ec.tree.Attr(owner, a.Name)
	if !ok {
		return nodeSetValue(nil), nil
	}
	return stringValue(value), nil
}

func (p Path) eval(ec *evalContext, item Item) (Value, error) {
	start, steps := pathStart(ec.tree, item.Node, p.Expr)
	if !p.Expr.Absolute && !p.Expr.AbsoluteDescendant {
		start = ItemSet{item}
	}
	result, err := foldSteps(ec, start, steps)
	if err != nil {
		return Value{}, err
	}
	return nodeSetValue(result), nil
}

func (c Compare) eval(ec *evalContext, item Item) (Value, error) {
	l, err := c.Left.eval(ec, item)
	if err != nil {
		return Value{}, err
	}
	r, err := c.Right.eval(ec, item)
	if err != nil {
		return Value{}, err
	}
	return booleanValue(compareValues(ec, c.Op, l, r)), nil
}

func compareValues(ec *evalContext, op CompareOp, l, r Value) bool {
	if l.Kind == NodeSetValue || r.Kind == NodeSetValue {
		ns, other, nsIsLeft := l, r, true
		if l.Kind != NodeSetValue {
			ns, other, nsIsLeft = r, l, false
		}
		for _, it := range ns.NodeSet {
			sv := stringValue(stringOfItem(ec.tree, it))
			if nsIsLeft {
				if scalarCompare(op, sv, other) {
					return true
				}
			} else if scalarCompare(op, other, sv) {
				return true
			}
		}
		return false
	}
	return scalarCompare(op, l, r)
}

func scalarCompare(op CompareOp, l, r Value) bool {
	if op == Eq || op == Ne {
		var equal bool
		switch {
		case l.Kind == BooleanValue || r.Kind == BooleanValue:
			equal = l.ToBoolean() == r.ToBoolean()
		case l.Kind == StringValue || r.Kind == StringValue:
			equal = l.ToString() == r.ToString()
		default:
			equal = l.ToNumber() == r.ToNumber()
		}
		if op == Eq {
			return equal
		}
		return !equal
	}

	ln, rn := l.ToNumber(), r.ToNumber()
	switch op {
	case Lt:
		return ln < rn
	case Le:
		return ln <= rn
	case Gt:
		return ln > rn
	case Ge:
		return ln >= rn
	default:
		return false
	}
}

func (a Arith) eval(ec *evalContext, item Item) (Value, error) {
	l, err := a.Left.eval(ec, item)
	if err != nil {
		return Value{}, err
	}
	r, err := a.Right.eval(ec, item)
	if err != nil {
		return Value{}, err
	}
	ln, rn := ec.numberOf(l), ec.numberOf(r)

	switch a.Op {
	case Add:
		return numberValue(ln + rn), nil
	case Sub:
		return numberValue(ln - rn), nil
	case Mul:
		return numberValue(ln * rn), nil
	case Div:
		if rn == 0 {
			return Value{}, &Error{Kind: ErrDivisionByZero}
		}
		return numberValue(ln / rn), nil
	case IDiv:
		if rn == 0 {
			return Value{}, &Error{Kind: ErrDivisionByZero}
		}
		return numberValue(math.Trunc(ln / rn)), nil
	case Mod:
		if rn == 0 {
			return Value{}, &Error{Kind: ErrDivisionByZero}
		}
		return numberValue(math.Mod(ln, rn)), nil
	default:
		return Value{}, &Error{Kind: ErrTypeMismatch, Message: "unknown arithmetic operator"}
	}
}

func (l Logical) eval(ec *evalContext, item Item) (Value, error) {
	left, err := l.Left.eval(ec, item)
	if err != nil {
		return Value{}, err
	}
	lb := ec.booleanOf(left)
	if l.Op == And && !lb {
		return booleanValue(false), nil
	}
	if l.Op == Or && lb {
		return booleanValue(true), nil
	}
	right, err := l.Right.eval(ec, item)
	if err != nil {
		return Value{}, err
	}
	rb := ec.booleanOf(right)
	if l.Op == And {
		return booleanValue(lb && rb), nil
	}
	return booleanValue(lb || rb), nil
}

func (f FuncCall) eval(ec *evalContext, item Item) (Value, error) {
	switch f.Name {
	case "position":
		return numberValue(float64(ec.position)), nil
	case "last":
		return numberValue(float64(ec.size)), nil
	case "not":
		arg, err := f.arg(ec, item, 0)
		if err != nil {
			return Value{}, err
		}
		return booleanValue(!ec.booleanOf(arg)), nil
	case "boolean":
		arg, err := f.arg(ec, item, 0)
		if err != nil {
			return Value{}, err
		}
		return booleanValue(ec.booleanOf(arg)), nil
	case "string":
		if len(f.Args) == 0 {
			return stringValue(stringOfItem(ec.tree, item)), nil
		}
		arg, err := f.arg(ec, item, 0)
		if err != nil {
			return Value{}, err
		}
		return stringValue(ec.stringOf(arg)), nil
	case "count":
		arg, err := f.arg(ec, item, 0)
		if err != nil {
			return Value{}, err
		}
		if arg.Kind != NodeSetValue {
			return Value{}, &Error{Kind: ErrTypeMismatch, Message: "count() requires a node-set argument"}
		}
		return numberValue(float64(len(arg.NodeSet))), nil
	case "name":
		target := item
		if len(f.Args) > 0 {
			arg, err := f.arg(ec, item, 0)
			if err != nil {
				return Value{}, err
			}
			if arg.Kind != NodeSetValue || len(arg.NodeSet) == 0 {
				return stringValue(""), nil
			}
			target = arg.NodeSet[0]
		}
		return stringValue(nameOfItem(ec.tree, target)), nil
	default:
		return Value{}, &Error{Kind: ErrUnknownFunction, Message: f.Name}
	}
}

func (f FuncCall) arg(ec *evalContext, item Item, i int) (Value, error) {
	if i >= len(f.Args) {
		return Value{}, &Error{Kind: ErrTypeMismatch, Message: "missing argument"}
	}
	return f.Args[i].eval(ec, item)
}

func nameOfItem(tree *dom.Tree, item Item) string {
	if item.IsAttr {
		return item.Attr.Name
	}
	if tree.Kind(item.Node) == dom.ElementKind {
		return tree.TagName(item.Node)
	}
	return ""
}
