package typeid

// Factory mints TypeIDs with a fixed, pre-validated prefix
type Factory struct {
	prefix string
	gen    *Generator
}

// NewFactory validates prefix once and returns a Factory backed by the
// default generator.
func NewFactory(prefix string) (*Factory, error) {
	return NewFactoryWithGenerator(prefix, defaultGenerator)
}

// NewFactoryWithGenerator is like NewFactory with an explicit generator
func NewFactoryWithGenerator(prefix string, gen *Generator) (*Factory, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Factory{prefix: prefix, gen: gen}, nil
}

// Prefix returns the factory's prefix
func (f *Factory) Prefix() string {
	return f.prefix
}

// New mints a TypeID with the factory's prefix
func (f *Factory) New() (TypeID, error) {
	u, err := f.gen.UUID()
	if err != nil {
		return TypeID{}, err
	}
	return TypeID{prefix: f.prefix, value: u}, nil
}
