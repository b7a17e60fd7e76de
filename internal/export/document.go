package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/dump-curator/pkg/types"
)

const (
	indexKey = "index"
	addedKey = "added"
)

// flagDocument is an output document opened for editing its added flags.
// Entries keep every key they were read with, in the original order.
type flagDocument interface {
	Len() int
	// Index returns the dump index of entry i, if it has a numeric one.
	Index(i int) (int, bool)
	Added(i int) bool
	SetAdded(i int, added bool)
	Marshal() ([]byte, error)
}

func loadFlagDocument(path string) (flagDocument, error) {
	data, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	var doc flagDocument
	switch FormatFor(path) {
	case types.FormatYAML:
		doc, err = parseYAMLDocument(data)
	default:
		doc, err = parseJSONDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// --- JSON ---

type jsonField struct {
	Key   string
	Value json.RawMessage
}

// jsonObject is a JSON object that keeps its keys in document order and
// its values byte for byte.
type jsonObject []jsonField

func (o *jsonObject) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("expected an object, got %v", tok)
	}

	fields := jsonObject{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		fields = append(fields, jsonField{Key: key, Value: value})
	}
	*o = fields
	return nil
}

func (o jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(f.Key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o jsonObject) value(key string) (json.RawMessage, int) {
	for i, f := range o {
		if f.Key == key {
			return f.Value, i
		}
	}
	return nil, -1
}

type jsonDocument []jsonObject

func parseJSONDocument(data []byte) (jsonDocument, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d jsonDocument) Len() int { return len(d) }

func (d jsonDocument) Index(i int) (int, bool) {
	raw, pos := d[i].value(indexKey)
	if pos < 0 {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func (d jsonDocument) Added(i int) bool {
	raw, pos := d[i].value(addedKey)
	if pos < 0 {
		return false
	}
	var added bool
	if err := json.Unmarshal(raw, &added); err != nil {
		return false
	}
	return added
}

func (d jsonDocument) SetAdded(i int, added bool) {
	value := json.RawMessage(strconv.FormatBool(added))
	if _, pos := d[i].value(addedKey); pos >= 0 {
		d[i][pos].Value = value
		return
	}
	d[i] = append(d[i], jsonField{Key: addedKey, Value: value})
}

func (d jsonDocument) Marshal() ([]byte, error) {
	if d == nil {
		d = jsonDocument{}
	}
	return marshalJSON(d)
}

// --- YAML ---

// yamlDocument edits the node tree, so comments and key order survive.
type yamlDocument struct {
	root  yaml.Node
	items []*yaml.Node
}

func parseYAMLDocument(data []byte) (*yamlDocument, error) {
	d := &yamlDocument{}
	if err := yaml.Unmarshal(data, &d.root); err != nil {
		return nil, err
	}
	if d.root.Kind == 0 {
		return d, nil
	}
	if d.root.Kind != yaml.DocumentNode || len(d.root.Content) != 1 || d.root.Content[0].Kind != yaml.SequenceNode {
		return nil, errors.New("expected a list of entries")
	}
	for _, item := range d.root.Content[0].Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: expected an entry mapping", item.Line)
		}
		d.items = append(d.items, item)
	}
	return d, nil
}

func (d *yamlDocument) value(i int, key string) *yaml.Node {
	m := d.items[i]
	for j := 0; j+1 < len(m.Content); j += 2 {
		if m.Content[j].Value == key {
			return m.Content[j+1]
		}
	}
	return nil
}

func (d *yamlDocument) Len() int { return len(d.items) }

func (d *yamlDocument) Index(i int) (int, bool) {
	v := d.value(i, indexKey)
	if v == nil {
		return 0, false
	}
	var n int
	if err := v.Decode(&n); err != nil {
		return 0, false
	}
	return n, true
}

func (d *yamlDocument) Added(i int) bool {
	v := d.value(i, addedKey)
	if v == nil {
		return false
	}
	var added bool
	if err := v.Decode(&added); err != nil {
		return false
	}
	return added
}

func (d *yamlDocument) SetAdded(i int, added bool) {
	flag := yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(added)}
	if v := d.value(i, addedKey); v != nil {
		*v = flag
		return
	}
	m := d.items[i]
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: addedKey},
		&flag,
	)
}

func (d *yamlDocument) Marshal() ([]byte, error) {
	if d.root.Kind == 0 {
		return []byte("[]\n"), nil
	}
	data, err := yaml.Marshal(&d.root)
	if err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	return data, nil
}
