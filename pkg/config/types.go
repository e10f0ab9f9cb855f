package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Settings represents a choice model's configuration file
type Settings struct {
	LogLevel         string             `yaml:"log_level"`
	Seed             uint64             `yaml:"seed"`
	SampleSize       int                `yaml:"sample_size"`
	TraceLabel       string             `yaml:"trace_label"`
	ChoosersFile     string             `yaml:"choosers_file"`
	AlternativesFile string             `yaml:"alternatives_file"`
	Coefficients     map[string]float64 `yaml:"coefficients"`
	Nests            *NestNode          `yaml:"nests,omitempty"`
}

// NestNode is one node of a nested-logit specification tree: either a
// leaf naming an alternative, or a branch with a scale coefficient and
// child nodes. In YAML a leaf is a bare string and a branch is a mapping:
//
//	nests:
//	  name: root
//	  coefficient: 1.0
//	  alternatives:
//	    - name: auto
//	      coefficient: 0.7
//	      alternatives: [drive, carpool]
//	    - walk
type NestNode struct {
	Name         string
	Coefficient  float64
	Alternatives []NestNode

	leaf bool
}

// Leaf creates a leaf node naming an alternative
func Leaf(name string) NestNode {
	return NestNode{Name: name, leaf: true}
}

// Branch creates a branch node with a scale coefficient and children
func Branch(name string, coefficient float64, alternatives ...NestNode) NestNode {
	return NestNode{Name: name, Coefficient: coefficient, Alternatives: alternatives}
}

// IsLeaf reports whether the node is a bare alternative name
func (n *NestNode) IsLeaf() bool {
	return n.leaf
}

// ChildNames returns the names of the immediate children, nil for a leaf
func (n *NestNode) ChildNames() []string {
	if n.leaf {
		return nil
	}
	names := make([]string, len(n.Alternatives))
	for i := range n.Alternatives {
		names[i] = n.Alternatives[i].Name
	}
	return names
}

// UnmarshalYAML decodes a nest node from either a scalar (leaf) or a
// mapping (branch).
func (n *NestNode) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var name string
		if err := value.Decode(&name); err != nil {
			return fmt.Errorf("failed to decode nest leaf: %w", err)
		}
		*n = Leaf(name)
		return nil
	case yaml.MappingNode:
		var branch struct {
			Name         string     `yaml:"name"`
			Coefficient  float64    `yaml:"coefficient"`
			Alternatives []NestNode `yaml:"alternatives"`
		}
		if err := value.Decode(&branch); err != nil {
			return fmt.Errorf("failed to decode nest branch: %w", err)
		}
		*n = NestNode{
			Name:         branch.Name,
			Coefficient:  branch.Coefficient,
			Alternatives: branch.Alternatives,
		}
		return nil
	default:
		return fmt.Errorf("nest node must be a name or a mapping, got yaml kind %d", value.Kind)
	}
}
