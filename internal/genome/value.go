package genome

import "strconv"

// Value is one symbolic element of an expanded fragment sequence: either a
// concrete integer literal or a nucleotide-name placeholder whose ADC level
// is sampled at synthesis time.
type Value struct {
	// Name is the nucleotide this value refers to. Empty for literals.
	Name string

	// Literal is the concrete value when Name is empty.
	Literal int
}

// Lit returns a literal value.
func Lit(v int) Value {
	return Value{Literal: v}
}

// Placeholder returns a nucleotide placeholder value.
func Placeholder(name string) Value {
	return Value{Name: name}
}

// IsLiteral reports whether v carries a concrete value rather than a
// nucleotide reference.
func (v Value) IsLiteral() bool {
	return v.Name == ""
}

// String renders the value the way it appears in a definition file.
func (v Value) String() string {
	if v.IsLiteral() {
		return strconv.Itoa(v.Literal)
	}
	return v.Name
}
