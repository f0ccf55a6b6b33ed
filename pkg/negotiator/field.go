package negotiator

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Field - one named configuration entry. Const fields never change after
// construction. A rejected set keeps the previous value.
// Setters run in field declaration order, so a setter may read the values of
// fields declared before it but never after it.
type Field struct {
	Name  string
	Const bool

	get func() any
	// set validates, possibly adjusts, stores and returns the applied value.
	// The mayBlock hint is reserved for setters that would need to reach the
	// device; none of the current setters use it.
	set func(v any, mayBlock bool) (any, error)
}

func (f *Field) Value() any {
	return f.get()
}

// Update - proposed value for one named field
type Update struct {
	Name  string
	Value any
}

// Result - per-field outcome of a transaction. Adjusted is true when the
// applied value differs from the proposed one (setter substitution).
type Result struct {
	Name     string `json:"name"`
	Value    any    `json:"value,omitempty"`
	Adjusted bool   `json:"adjusted,omitempty"`
	Err      error  `json:"-"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	v := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(r)}
	if r.Err != nil {
		v.Error = r.Err.Error()
	}
	return json.Marshal(v)
}

// Apply - one configuration transaction. Updates are applied in field
// declaration order regardless of the order they were supplied in, and each
// field is accepted or rejected on its own: a rejection never aborts the
// remaining fields.
func (n *Negotiator) Apply(mayBlock bool, updates ...Update) []Result {
	if n.err != nil {
		results := make([]Result, len(updates))
		for i, u := range updates {
			results[i] = Result{Name: u.Name, Err: n.err}
		}
		return results
	}

	var results []Result

	for _, f := range n.fields {
		for _, u := range updates {
			if u.Name != f.Name {
				continue
			}
			results = append(results, n.applyOne(f, u.Value, mayBlock))
		}
	}

	for _, u := range updates {
		if n.field(u.Name) == nil {
			results = append(results, Result{
				Name: u.Name,
				Err:  fmt.Errorf("%w: unknown field %q", ErrBadRange, u.Name),
			})
		}
	}

	return results
}

func (n *Negotiator) applyOne(f *Field, v any, mayBlock bool) Result {
	if f.Const {
		return Result{
			Name:  f.Name,
			Value: f.get(),
			Err:   fmt.Errorf("%w: field %q is read-only", ErrBadRange, f.Name),
		}
	}

	applied, err := f.set(v, mayBlock)
	if err != nil {
		return Result{Name: f.Name, Value: f.get(), Err: err}
	}

	return Result{Name: f.Name, Value: applied, Adjusted: !reflect.DeepEqual(applied, v)}
}

// Get - current value of a named field
func (n *Negotiator) Get(name string) (any, error) {
	if n.err != nil {
		return nil, n.err
	}
	if f := n.field(name); f != nil {
		return f.get(), nil
	}
	return nil, fmt.Errorf("%w: unknown field %q", ErrBadRange, name)
}

// Values - snapshot of all fields, keyed by field name
func (n *Negotiator) Values() map[string]any {
	if n.err != nil {
		return nil
	}
	values := make(map[string]any, len(n.fields))
	for _, f := range n.fields {
		values[f.Name] = f.get()
	}
	return values
}

func (n *Negotiator) field(name string) *Field {
	for _, f := range n.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func (n *Negotiator) addConst(name string, v any) {
	n.fields = append(n.fields, &Field{
		Name:  name,
		Const: true,
		get:   func() any { return v },
	})
}

func (n *Negotiator) addField(name string, get func() any, set func(any, bool) (any, error)) {
	n.fields = append(n.fields, &Field{
		Name: name,
		get:  get,
		set:  set,
	})
}

func errType(field string) error {
	return fmt.Errorf("%w: wrong value type for field %q", ErrBadRange, field)
}
