package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Timeline: an object keyed by timestamp, written in ascending order
// ---------------------------------------------------------------------------

// MarshalJSON writes the timeline as an object whose keys keep time order.
func (t Timeline) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range t.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.At.Format(TimestampLayout))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Message)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by timestamp.
func (t *Timeline) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.entries = nil
	for k, msg := range raw {
		at, err := parseTimestamp(k)
		if err != nil {
			return err
		}
		t.Set(at, msg)
	}
	return nil
}

// MarshalYAML writes the timeline as a mapping whose keys keep time order.
func (t Timeline) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range t.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.At.Format(TimestampLayout)},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Message},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping keyed by timestamp.
func (t *Timeline) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("status_updates: line %d: expected a mapping", value.Line)
	}
	t.entries = nil
	for i := 0; i+1 < len(value.Content); i += 2 {
		at, err := parseTimestamp(value.Content[i].Value)
		if err != nil {
			return fmt.Errorf("status_updates: line %d: %w", value.Content[i].Line, err)
		}
		var msg string
		if err := value.Content[i+1].Decode(&msg); err != nil {
			return err
		}
		t.Set(at, msg)
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	at, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid status timestamp %q: %w", s, err)
	}
	return at, nil
}

// ---------------------------------------------------------------------------
// InterviewEntry: a two-element [name, interview] array
// ---------------------------------------------------------------------------

// MarshalJSON writes the entry as [name, interview].
func (e InterviewEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Name, e.Interview})
}

// UnmarshalJSON reads a [name, interview] pair.
func (e *InterviewEntry) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("interview: expected [name, notes], got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.Name); err != nil {
		return fmt.Errorf("interview name: %w", err)
	}
	return json.Unmarshal(parts[1], &e.Interview)
}

// MarshalYAML writes the entry as a two-item sequence.
func (e InterviewEntry) MarshalYAML() (any, error) {
	return []any{string(e.Name), e.Interview}, nil
}

// UnmarshalYAML reads a two-item [name, interview] sequence.
func (e *InterviewEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("interview: line %d: expected [name, notes]", value.Line)
	}
	if err := value.Content[0].Decode(&e.Name); err != nil {
		return err
	}
	return value.Content[1].Decode(&e.Interview)
}
