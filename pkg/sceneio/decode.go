package sceneio

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/rigkit/pkg/errors"
	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/types"
)

// Format is a scene document encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf picks the document format from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unsupported scene document extension %q", filepath.Ext(path)).
		WithDetail("path", path)
}

// mapping is a YAML mapping with its keys in document order
type mapping struct {
	keys   []string
	values map[string]interface{}
}

func (m *mapping) asMap() map[string]interface{} {
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

func fromYAML(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		m := &mapping{values: make(map[string]interface{}, len(n.Content)/2)}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if _, seen := m.values[key]; !seen {
				m.keys = append(m.keys, key)
			}
			m.values[key] = v
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSceneParse, "bad scalar at line %d", n.Line)
		}
		return v, nil
	}
	return nil, nil
}

// ReadDocument reads and parses a scene document, picking the format from
// the file extension
func ReadDocument(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSceneLoad, "failed to read scene document %s", path).
			WithDetail("path", path)
	}
	doc, err := ParseDocument(data, format)
	if err != nil {
		if re, ok := err.(*errors.RigError); ok {
			return nil, re.WithDetail("path", path)
		}
		return nil, err
	}
	return doc, nil
}

// ParseDocument decodes a scene document
func ParseDocument(data []byte, format Format) (*Document, error) {
	var raw interface{}
	switch format {
	case FormatYAML:
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, errors.Wrap(err, errors.ErrSceneParse, "invalid YAML scene document")
		}
		v, err := fromYAML(&root)
		if err != nil {
			return nil, err
		}
		raw = v
	case FormatTOML:
		var m map[string]interface{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, errors.ErrSceneParse, "invalid TOML scene document")
		}
		raw = m
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown scene document format %q", format)
	}

	doc := &Document{}
	if raw == nil {
		return doc, nil
	}
	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(propsHook, mappingHook),
		Result:           doc,
		Metadata:         &meta,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create scene decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrSceneInvalid, "scene document does not match the expected shape")
	}
	if len(meta.Unused) > 0 {
		sort.Strings(meta.Unused)
		logger := logging.GetLogger("sceneio")
		logger.Warn().Strs("keys", meta.Unused).Msg("unknown keys in scene document")
	}
	return doc, nil
}

var (
	propsType   = reflect.TypeOf(Props{})
	mappingType = reflect.TypeOf(&mapping{})
)

// propsHook turns a property table into Props, keeping YAML order
func propsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != propsType {
		return data, nil
	}
	var keys []string
	var values map[string]interface{}
	switch m := data.(type) {
	case *mapping:
		keys, values = m.keys, m.values
	case map[string]interface{}:
		values = m
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	case nil:
		return Props(nil), nil
	default:
		return nil, errors.Newf(errors.ErrSceneInvalid, "properties must be a table, got %T", data)
	}
	out := make(Props, 0, len(keys))
	for _, k := range keys {
		v, err := propValue(values[k])
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrSceneInvalid, "property %q", k).WithDetail("item", k)
		}
		out = append(out, Prop{Name: k, Value: v})
	}
	return out, nil
}

// mappingHook hands ordered mappings to mapstructure as plain maps
func mappingHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from != mappingType {
		return data, nil
	}
	return data.(*mapping).asMap(), nil
}

// propValue converts one declared property. Booleans become 0..1 integers
// so they read as toggles.
func propValue(v interface{}) (types.Value, error) {
	switch x := v.(type) {
	case bool:
		return types.IntRange(boolInt(x), 0, 1), nil
	case string:
		return types.Text(x), nil
	case []interface{}:
		return listValue(x)
	case *mapping:
		return tableValue(x.values)
	case map[string]interface{}:
		return tableValue(x)
	}
	if n, isInt, ok := number(v); ok {
		if isInt {
			return types.Int(int(n)), nil
		}
		return types.Float(n), nil
	}
	return types.Value{}, errors.Newf(errors.ErrSceneInvalid, "unsupported property value %v (%T)", v, v)
}

func listValue(list []interface{}) (types.Value, error) {
	allInts := true
	nums := make([]float64, 0, len(list))
	for _, item := range list {
		n, isInt, ok := number(item)
		if !ok {
			return types.Value{}, errors.Newf(errors.ErrSceneInvalid, "list properties hold numbers only, got %v", item)
		}
		allInts = allInts && isInt
		nums = append(nums, n)
	}
	if allInts {
		return types.IntSet(ints(nums)...), nil
	}
	return types.Vector(nums...), nil
}

func tableValue(t map[string]interface{}) (types.Value, error) {
	if vec, ok := t["vector"]; ok {
		list, ok := vec.([]interface{})
		if !ok {
			return types.Value{}, errors.New(errors.ErrSceneInvalid, "vector must be a list")
		}
		nums := make([]float64, 0, len(list))
		for _, item := range list {
			n, _, ok := number(item)
			if !ok {
				return types.Value{}, errors.Newf(errors.ErrSceneInvalid, "vector component %v is not a number", item)
			}
			nums = append(nums, n)
		}
		return types.Vector(nums...), nil
	}
	if set, ok := t["set"]; ok {
		list, ok := set.([]interface{})
		if !ok {
			return types.Value{}, errors.New(errors.ErrSceneInvalid, "set must be a list")
		}
		nums := make([]float64, 0, len(list))
		for _, item := range list {
			n, isInt, ok := number(item)
			if !ok || !isInt {
				return types.Value{}, errors.Newf(errors.ErrSceneInvalid, "set member %v is not an integer", item)
			}
			nums = append(nums, n)
		}
		return types.IntSet(ints(nums)...), nil
	}

	raw, ok := t["value"]
	if !ok {
		return types.Value{}, errors.New(errors.ErrSceneInvalid, "property table needs a value, vector or set key")
	}
	if b, ok := raw.(bool); ok {
		raw = boolInt(b)
	}
	value, valueInt, ok := number(raw)
	if !ok {
		return types.Value{}, errors.Newf(errors.ErrSceneInvalid, "property value %v is not a number", raw)
	}
	rawMin, hasMin := t["min"]
	rawMax, hasMax := t["max"]
	if hasMin != hasMax {
		return types.Value{}, errors.New(errors.ErrSceneInvalid, "min and max must be given together")
	}
	if !hasMin {
		if valueInt {
			return types.Int(int(value)), nil
		}
		return types.Float(value), nil
	}
	lo, loInt, ok1 := number(rawMin)
	hi, hiInt, ok2 := number(rawMax)
	if !ok1 || !ok2 {
		return types.Value{}, errors.New(errors.ErrSceneInvalid, "min and max must be numbers")
	}
	if lo > hi {
		return types.Value{}, errors.Newf(errors.ErrSceneInvalid, "min %v is above max %v", lo, hi)
	}
	if valueInt && loInt && hiInt {
		return types.IntRange(int(value), int(lo), int(hi)), nil
	}
	return types.FloatRange(value, lo, hi), nil
}

func number(v interface{}) (n float64, isInt bool, ok bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true, true
	case int64:
		return float64(x), true, true
	case uint64:
		return float64(x), true, true
	case float64:
		return x, false, true
	}
	return 0, false, false
}

func ints(nums []float64) []int {
	out := make([]int, len(nums))
	for i, n := range nums {
		out[i] = int(n)
	}
	return out
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
