// Package nest traverses nested-logit specification trees, computing for
// each nest or leaf its depth, ancestor chain and the product of scale
// coefficients accumulated along the path from the root. Utility
// computation uses these descriptors to apply nest coefficients.
package nest

import (
	"errors"
	"fmt"

	"github.com/travelsim/choice-core/pkg/config"
)

// ErrConfiguration indicates a traversal was requested with an
// unrecognized filter kind
var ErrConfiguration = errors.New("unknown nest type")

// Type classifies a descriptor as a leaf alternative or a branch nest
type Type string

const (
	// TypeAll selects every descriptor
	TypeAll Type = ""
	// TypeLeaf selects only leaf alternatives
	TypeLeaf Type = "leaf"
	// TypeNode selects only branch nests
	TypeNode Type = "node"
)

// Types returns the filterable descriptor kinds
func Types() []Type {
	return []Type{TypeLeaf, TypeNode}
}

// Descriptor describes one visited node of a nest tree. Descriptors are
// created fresh on every traversal and carry no reference back into the
// specification.
type Descriptor struct {
	// Name is the nest or alternative name
	Name string
	// Level is the depth below the implicit root; top-level nodes are level 1
	Level int
	// Coefficient is the branch's own scale coefficient, zero for leaves
	Coefficient float64
	// ProductOfCoefficients is the cumulative coefficient product along
	// the path from the root; leaves inherit their parent's product
	ProductOfCoefficients float64
	// Ancestors holds the names from the root's children down to this
	// node, inclusive
	Ancestors []string
	// Alternatives holds the immediate child names, nil for leaves
	Alternatives []string
	// Type is TypeLeaf or TypeNode
	Type Type
}

// IsLeaf reports whether the descriptor is for a leaf alternative
func (d Descriptor) IsLeaf() bool {
	return d.Type == TypeLeaf
}

// Each walks the nest tree depth-first and returns a descriptor per
// visited node, filtered to the requested kind (TypeAll keeps both).
//
// With postOrder false a branch is emitted before its subtree, with true
// after it. Leaves are emitted at the point their parent reaches them
// either way. Filtering never changes traversal order, it only
// suppresses the non-matching kind. An unrecognized filter fails with
// ErrConfiguration before traversal begins.
func Each(spec config.NestNode, filter Type, postOrder bool) ([]Descriptor, error) {
	if filter != TypeAll && filter != TypeLeaf && filter != TypeNode {
		return nil, fmt.Errorf("%w %q in call to Each (valid: %v)", ErrConfiguration, filter, Types())
	}

	// Implicit root: level 0, empty ancestry, coefficient product 1
	root := Descriptor{ProductOfCoefficients: 1}

	var out []Descriptor
	walk(spec, root, postOrder, func(d Descriptor) {
		if filter == TypeAll || filter == d.Type {
			out = append(out, d)
		}
	})
	return out, nil
}

// walk visits node and its subtree, passing each descriptor to emit
func walk(node config.NestNode, parent Descriptor, postOrder bool, emit func(Descriptor)) {
	d := Descriptor{
		Name:      node.Name,
		Level:     parent.Level + 1,
		Ancestors: append(append([]string(nil), parent.Ancestors...), node.Name),
	}

	if node.IsLeaf() {
		// Leaves contribute no coefficient of their own
		d.ProductOfCoefficients = parent.ProductOfCoefficients
		d.Type = TypeLeaf
		emit(d)
		return
	}

	d.Coefficient = node.Coefficient
	d.ProductOfCoefficients = parent.ProductOfCoefficients * node.Coefficient
	d.Alternatives = node.ChildNames()
	d.Type = TypeNode

	if !postOrder {
		emit(d)
	}
	for _, child := range node.Alternatives {
		walk(child, d, postOrder, emit)
	}
	if postOrder {
		emit(d)
	}
}
