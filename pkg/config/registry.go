package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/lookatitude/irene/internal/jsonutil"
)

// SectionModel describes one top-level CoreConfig section for editors and
// validators.
type SectionModel struct {
	Name   string
	Fields []FieldModel
}

// FieldModel describes a single struct field discovered by reflection.
type FieldModel struct {
	Name     string
	Type     string
	Required bool
}

// ProviderSchema describes the runtime parameter schema for one provider
// kind of one component, projected from the typed configuration the
// provider's factory function accepts.
type ProviderSchema struct {
	Component string
	Provider  string
	Fields    []FieldModel

	paramStruct interface{}
}

// JSONSchema projects the provider's parameter struct into a JSON Schema
// document (draft-07), for clients that want to render or validate a
// configuration form without knowing the Go struct shape.
func (s ProviderSchema) JSONSchema() map[string]any {
	return jsonutil.GenerateSchema(s.paramStruct)
}

// Report is the result of Validate: fatal errors plus
// non-fatal warnings.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the report carries no fatal errors.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// AutoRegistry is the single source of truth for sections, components, and
// provider schemas: it introspects CoreConfig itself via reflection rather
// than maintaining a parallel hand-written registry.
type AutoRegistry struct {
	mu              sync.RWMutex
	providerSchemas map[string]ProviderSchema // key: component/provider
}

// NewAutoRegistry constructs an empty AutoRegistry. Provider kinds register
// their parameter struct via RegisterProviderSchema during component
// framework discovery.
func NewAutoRegistry() *AutoRegistry {
	return &AutoRegistry{providerSchemas: make(map[string]ProviderSchema)}
}

// RegisterProviderSchema projects a provider's configuration struct into a
// ProviderSchema and stores it under (component, provider). Called once per
// provider kind at discovery time; never maintained by hand.
func (r *AutoRegistry) RegisterProviderSchema(component, provider string, paramStruct interface{}) ProviderSchema {
	schema := ProviderSchema{
		Component:   component,
		Provider:    provider,
		Fields:      fieldsOf(paramStruct),
		paramStruct: paramStruct,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providerSchemas[key(component, provider)] = schema
	return schema
}

// GetProviderParameterSchema returns the previously-registered schema for a
// component/provider pair.
func (r *AutoRegistry) GetProviderParameterSchema(component, provider string) (ProviderSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.providerSchemas[key(component, provider)]
	return s, ok
}

// GetProviderSchemas returns every registered provider schema.
func (r *AutoRegistry) GetProviderSchemas() []ProviderSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProviderSchema, 0, len(r.providerSchemas))
	for _, s := range r.providerSchemas {
		out = append(out, s)
	}
	return out
}

// GetSectionModels projects CoreConfig's top-level fields into SectionModels
// via reflection — the same struct the loader decodes into.
func (r *AutoRegistry) GetSectionModels() []SectionModel {
	t := reflect.TypeOf(CoreConfig{})
	models := make([]SectionModel, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		models = append(models, SectionModel{
			Name:   f.Name,
			Fields: fieldsOfType(f.Type),
		})
	}
	return models
}

// GetComponentSchemas returns one SectionModel per configured component,
// derived from the actual CoreConfig.Components map supplied, not a
// hard-coded list — every enabled component necessarily appears here.
func (r *AutoRegistry) GetComponentSchemas(cfg *CoreConfig) []SectionModel {
	models := make([]SectionModel, 0, len(cfg.Components))
	for name := range cfg.Components {
		models = append(models, SectionModel{
			Name:   name,
			Fields: fieldsOfType(reflect.TypeOf(ComponentConfig{})),
		})
	}
	return models
}

// CompletenessCheck confirms every registered provider schema has a
// corresponding entry in the canonical example configuration's components
// map.
func (r *AutoRegistry) CompletenessCheck(cfg *CoreConfig) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var missing []string
	for _, schema := range r.providerSchemas {
		comp, ok := cfg.Components[schema.Component]
		if !ok {
			missing = append(missing, fmt.Sprintf("component %q has no reference section", schema.Component))
			continue
		}
		if _, ok := comp.Providers[schema.Provider]; !ok {
			missing = append(missing, fmt.Sprintf("provider %s/%s has no reference section", schema.Component, schema.Provider))
		}
	}
	return missing
}

func key(component, provider string) string { return component + "/" + provider }

func fieldsOf(v interface{}) []FieldModel {
	if v == nil {
		return nil
	}
	return fieldsOfType(reflect.TypeOf(v))
}

func fieldsOfType(t reflect.Type) []FieldModel {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	fields := make([]FieldModel, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		_, required := f.Tag.Lookup("validate")
		fields = append(fields, FieldModel{
			Name:     f.Name,
			Type:     f.Type.String(),
			Required: required,
		})
	}
	return fields
}
