package expr

import (
	"slices"
	"strconv"
	"strings"
)

// Node is a sealed interface for parsed expressions.
// Only Number, Ident, Call and Binary implement it.
type Node interface {
	node() // Sealed
	Position() int
	String() string
}

// Number is a decimal literal.
type Number struct {
	Value int
	Pos   int
}

// Ident is a name: "Z" or a binding from the Env.
type Ident struct {
	Name string
	Pos  int
}

// Call applies a builtin function to its arguments.
type Call struct {
	Name string
	Args []Node
	Pos  int
}

// Binary is an infix operation.
type Binary struct {
	Op    string
	Left  Node
	Right Node
	Pos   int
}

func (Number) node() {}
func (Ident) node()  {}
func (Call) node()   {}
func (Binary) node() {}

func (n Number) Position() int { return n.Pos }
func (n Ident) Position() int  { return n.Pos }
func (n Call) Position() int   { return n.Pos }
func (n Binary) Position() int { return n.Pos }

func (n Number) String() string { return strconv.Itoa(n.Value) }
func (n Ident) String() string  { return n.Name }

func (n Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = Format(a)
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// String renders the operation fully parenthesized.
func (n Binary) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

// Format renders n in canonical form: single spaces around operators,
// nested operations parenthesized, no parentheses around the whole expression.
// Parsing the output of Format yields an equivalent tree.
func Format(n Node) string {
	if b, ok := n.(Binary); ok {
		return b.Left.String() + " " + b.Op + " " + b.Right.String()
	}
	return n.String()
}

// Names returns the distinct identifiers n refers to, sorted.
// The reserved name "Z" and builtin call names are not included.
func Names(n Node) []string {
	seen := map[string]bool{}
	var walk func(Node)
	walk = func(n Node) {
		switch node := n.(type) {
		case Ident:
			if node.Name != "Z" {
				seen[node.Name] = true
			}
		case Call:
			for _, a := range node.Args {
				walk(a)
			}
		case Binary:
			walk(node.Left)
			walk(node.Right)
		}
	}
	walk(n)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
