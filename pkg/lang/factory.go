package lang

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/irwalk/pkg/errors"
	"github.com/matzehuels/irwalk/pkg/ir"
)

// Factory creates childless nodes from a kind name and attributes, as
// written by each node's Attrs method. Children are linked afterwards
// through SetChildren. It implements io.Factory.
type Factory struct{}

// New creates a node of the named kind.
func (Factory) New(a *ir.Arena, kind string, src ir.SourceInfo, attrs map[string]any) (ir.Node, error) {
	base := a.NewAt(src)
	switch kind {
	case "Program":
		name, err := stringAttr(attrs, "name", false)
		return &Program{Base: base, Name: name}, err
	case "Block":
		return &Block{Base: base}, nil
	case "Assign":
		name, err := identAttr(attrs, "name")
		return &Assign{Base: base, Name: name}, err
	case "If":
		return &If{Base: base}, nil
	case "Nop":
		return &Nop{Base: base}, nil
	case "Const":
		v, err := intAttr(attrs, "value")
		return &Const{Base: base, Value: v}, err
	case "Ref":
		name, err := identAttr(attrs, "name")
		return &Ref{Base: base, Name: name}, err
	case "Binary":
		op, err := stringAttr(attrs, "op", true)
		if err == nil && !IsOperator(op) {
			err = errors.New(errors.ErrCodeInvalidDocument, "unknown operator %q", op)
		}
		return &Binary{Base: base, Op: op}, err
	case "Parser":
		name, err := identAttr(attrs, "name")
		return &Parser{Base: base, Name: name}, err
	case "State":
		name, err := identAttr(attrs, "name")
		return &State{Base: base, Name: name}, err
	case "Select":
		return &Select{Base: base}, nil
	case "Case":
		return &Case{Base: base}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidKind, "unknown node kind %q", kind)
}

func stringAttr(attrs map[string]any, key string, required bool) (string, error) {
	v, ok := attrs[key]
	if !ok {
		if required {
			return "", errors.New(errors.ErrCodeInvalidDocument, "missing attribute %q", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidDocument, "attribute %q: want string, got %T", key, v)
	}
	return s, nil
}

func identAttr(attrs map[string]any, key string) (string, error) {
	s, err := stringAttr(attrs, key, true)
	if err != nil {
		return "", err
	}
	if err := errors.ValidateIdent(s); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidDocument, err, "attribute %q", key)
	}
	return s, nil
}

// intAttr accepts the number representations produced by the JSON and
// YAML decoders.
func intAttr(attrs map[string]any, key string) (int64, error) {
	v, ok := attrs[key]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidDocument, "missing attribute %q", key)
	}
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	case uint64:
		if x > math.MaxInt64 {
			break
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x > math.MaxInt64 {
			break
		}
		return int64(x), nil
	case json.Number:
		return x.Int64()
	}
	return 0, errors.New(errors.ErrCodeInvalidDocument, "attribute %q: want integer, got %s", key, fmt.Sprint(v))
}
