package snapshot

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const listItemRole = "listitem"

// Node is one element of an accessibility snapshot.
type Node struct {
	Role     string  `mapstructure:"role" json:"role"`
	Name     string  `mapstructure:"name" json:"name"`
	Ref      string  `mapstructure:"ref" json:"ref"`
	Children []*Node `mapstructure:"children" json:"children,omitempty"`
}

// IsListing reports whether the node is a job listing entry.
func (n *Node) IsListing() bool {
	return n != nil && n.Role == listItemRole && n.Name != ""
}

// Decode parses a snapshot document. Both a single root node and a list of
// roots are accepted; JSON documents are read as YAML.
func Decode(data []byte) ([]*Node, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	var nodes []*Node

	switch typed := raw.(type) {
	case nil:
		return nodes, nil
	case []any:
		if err := decode(typed, &nodes); err != nil {
			return nil, err
		}
	case map[string]any:
		root := &Node{}
		if err := decode(typed, root); err != nil {
			return nil, err
		}
		nodes = append(nodes, root)
	default:
		return nil, fmt.Errorf("unexpected snapshot root of type %T", raw)
	}

	return nodes, nil
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}

func decode(input any, result any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           result,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode snapshot nodes: %w", err)
	}
	return nil
}

// Listings returns the listing nodes of the forest in depth-first pre-order.
func Listings(roots []*Node) []*Node {
	var listings []*Node
	visit(roots, func(n *Node) {
		if n.IsListing() {
			listings = append(listings, n)
		}
	})
	return listings
}

func visit(nodes []*Node, fn func(*Node)) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		fn(n)
		visit(n.Children, fn)
	}
}
