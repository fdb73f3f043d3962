package writer

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geocodec/internal/geo"
)

// LoadYAML reads feature records from a YAML sequence of mappings. Value
// variants are decided from the node tags: a sequence whose every element
// is a sequence of numbers becomes a Table, any other sequence a List.
func LoadYAML(data []byte) ([]Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(geo.ErrMalformedInput, "%v", err)
	}

	root := resolve(&doc)
	if root == nil || root.Kind != yaml.SequenceNode {
		return nil, errors.Wrap(geo.ErrMalformedInput, "records must be a yaml sequence")
	}

	records := make([]Record, 0, len(root.Content))
	for i, n := range root.Content {
		n = resolve(n)
		if n.Kind != yaml.MappingNode {
			return nil, errors.Wrapf(geo.ErrMalformedInput, "record %d is not a mapping", i)
		}

		v, err := fromNode(n)
		if err != nil {
			return nil, errors.WithMessagef(err, "record %d", i)
		}
		records = append(records, Record(v.mapping))
	}

	return records, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

func fromNode(n *yaml.Node) (Value, error) {
	n = resolve(n)
	if n == nil {
		return Null(), nil
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return fromScalar(n)

	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return Value{}, errors.WithMessage(err, n.Content[i].Value)
			}
			members = append(members, M(n.Content[i].Value, v))
		}
		return Mapping(members...), nil

	case yaml.SequenceNode:
		if rows, ok := tableRows(n); ok {
			return Table(rows), nil
		}
		items := make([]Value, len(n.Content))
		for i, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return Value{}, errors.WithMessagef(err, "[%d]", i)
			}
			items[i] = v
		}
		return List(items...), nil
	}

	return Value{}, errors.Wrapf(geo.ErrMalformedInput, "unsupported yaml node at line %d", n.Line)
}

func fromScalar(n *yaml.Node) (Value, error) {
	var err error
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err = n.Decode(&b); err == nil {
			return Bool(b), nil
		}
	case "!!int":
		var i int64
		if err = n.Decode(&i); err == nil {
			return Int(i), nil
		}
	case "!!float":
		var f float64
		if err = n.Decode(&f); err == nil {
			return Float(f), nil
		}
	default:
		return String(n.Value), nil
	}
	return Value{}, errors.Wrapf(geo.ErrMalformedInput, "line %d: %v", n.Line, err)
}

// tableRows reports whether n is a non-empty sequence of numeric sequences.
func tableRows(n *yaml.Node) ([][]float64, bool) {
	if len(n.Content) == 0 {
		return nil, false
	}

	rows := make([][]float64, len(n.Content))
	for i, c := range n.Content {
		c = resolve(c)
		if c == nil || c.Kind != yaml.SequenceNode || len(c.Content) == 0 {
			return nil, false
		}

		row := make([]float64, len(c.Content))
		for j, cell := range c.Content {
			cell = resolve(cell)
			if cell == nil || cell.Kind != yaml.ScalarNode {
				return nil, false
			}
			if tag := cell.ShortTag(); tag != "!!int" && tag != "!!float" {
				return nil, false
			}
			if err := cell.Decode(&row[j]); err != nil {
				return nil, false
			}
		}
		rows[i] = row
	}
	return rows, true
}
