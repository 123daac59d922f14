package file

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/questflow/pkg/domain"
)

// nodeFields are the question fields. The flow editor exports them under `data`,
// hand-written documents usually keep them flat on the node.
type nodeFields struct {
	QuestionID   string             `mapstructure:"questionId"`
	Label        string             `mapstructure:"label"`
	Control      domain.Control     `mapstructure:"control"`
	Validation   *domain.Validation `mapstructure:"validation"`
	DefaultValue domain.Value       `mapstructure:"defaultValue"`
}

type nodeDTO struct {
	ID     string      `mapstructure:"id"`
	Type   string      `mapstructure:"type"`
	Fields nodeFields  `mapstructure:",squash"`
	Data   *nodeFields `mapstructure:"data"`
}

type edgeFields struct {
	Order int               `mapstructure:"order"`
	When  *domain.Condition `mapstructure:"when"`
}

type edgeDTO struct {
	ID     string      `mapstructure:"id"`
	Source string      `mapstructure:"source"`
	Target string      `mapstructure:"target"`
	Fields edgeFields  `mapstructure:",squash"`
	Data   *edgeFields `mapstructure:"data"`
}

type flowDTO struct {
	Version int                        `mapstructure:"version"`
	RootID  string                     `mapstructure:"rootId"`
	Nodes   []nodeDTO                  `mapstructure:"nodes"`
	Edges   []edgeDTO                  `mapstructure:"edges"`
	Options map[string][]domain.Option `mapstructure:"options"`
}

var valueType = reflect.TypeOf(domain.Value{})

// valueHook converts raw decoded data into answer values.
func valueHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != valueType {
		return data, nil
	}
	return domain.Raw(data), nil
}

// Decode parses a flow document. YAML is a superset of JSON, so both are accepted.
func Decode(data []byte) (*domain.Flow, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse flow document: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("flow document is empty")
	}

	var dto flowDTO
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       valueHook,
		WeaklyTypedInput: true,
		Result:           &dto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode flow document: %w", err)
	}

	return dto.toDomain(), nil
}

func (d flowDTO) toDomain() *domain.Flow {
	flow := &domain.Flow{
		Version: d.Version,
		RootID:  d.RootID,
		Nodes:   make([]domain.Node, 0, len(d.Nodes)),
		Edges:   make([]domain.Edge, 0, len(d.Edges)),
		Options: d.Options,
	}
	if flow.Version == 0 {
		flow.Version = 1
	}
	if flow.Options == nil {
		flow.Options = map[string][]domain.Option{}
	}

	for _, n := range d.Nodes {
		f := n.Fields
		if n.Data != nil {
			f = mergeNodeFields(f, *n.Data)
		}
		flow.Nodes = append(flow.Nodes, domain.Node{
			ID:           n.ID,
			Type:         n.Type,
			QuestionID:   f.QuestionID,
			Label:        f.Label,
			Control:      f.Control,
			Validation:   f.Validation,
			DefaultValue: f.DefaultValue,
		})
	}

	for _, e := range d.Edges {
		f := e.Fields
		if e.Data != nil {
			if e.Data.Order != 0 {
				f.Order = e.Data.Order
			}
			if e.Data.When != nil {
				f.When = e.Data.When
			}
		}
		flow.Edges = append(flow.Edges, domain.Edge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Order:  f.Order,
			When:   f.When,
		})
	}

	return flow
}

// mergeNodeFields overlays the `data` fields on top of the flat ones.
func mergeNodeFields(flat, data nodeFields) nodeFields {
	if data.QuestionID != "" {
		flat.QuestionID = data.QuestionID
	}
	if data.Label != "" {
		flat.Label = data.Label
	}
	if data.Control != "" {
		flat.Control = data.Control
	}
	if data.Validation != nil {
		flat.Validation = data.Validation
	}
	if !data.DefaultValue.IsNull() {
		flat.DefaultValue = data.DefaultValue
	}
	return flat
}
