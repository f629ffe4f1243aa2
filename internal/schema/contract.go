package schema

// Kind is the logical type of a column after coercion.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindInt    Kind = "int"
	KindDate   Kind = "date"
	KindBool   Kind = "bool"
)

// Field describes one column of a contract.
type Field struct {
	Name string
	Kind Kind

	// Required columns must be present in the input header.
	Required bool

	// Derived columns are computed by the pipeline and never read from input.
	Derived bool
}

// Contract is an ordered column catalogue.
type Contract struct {
	Name   string
	Fields []Field
}

// Names returns every column name in contract order.
func (c Contract) Names() []string {
	out := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		out[i] = f.Name
	}
	return out
}

// Required returns the names of the columns that must appear in the input.
func (c Contract) Required() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Derived returns the names of computed columns in contract order.
func (c Contract) Derived() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Derived {
			out = append(out, f.Name)
		}
	}
	return out
}

// Lookup returns the field called name.
func (c Contract) Lookup(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// KindOf returns the kind of column name, defaulting to KindText for columns
// the contract does not know about (extra input columns pass through as text).
func (c Contract) KindOf(name string) Kind {
	if f, ok := c.Lookup(name); ok {
		return f.Kind
	}
	return KindText
}
