package mbt

// ModelBuilder provides a fluent interface for assembling a model. Errors
// are collected during construction and reported once by Build, so call
// chains stay readable.
type ModelBuilder struct {
	model  *Model
	errors []error
}

// NewModelBuilder creates a new model builder
func NewModelBuilder() *ModelBuilder {
	return &ModelBuilder{
		model: NewModel(),
	}
}

// WithAutoRegister enables on-the-fly registration of states and events
// referenced by transitions
func (b *ModelBuilder) WithAutoRegister() *ModelBuilder {
	b.model.WithAutoRegister()
	return b
}

// WithState registers a state without properties
func (b *ModelBuilder) WithState(id string) *ModelBuilder {
	return b.WithStateProps(id, nil)
}

// WithStateProps registers a state with a feature vector
func (b *ModelBuilder) WithStateProps(id string, props map[string]string) *ModelBuilder {
	if err := b.model.AddState(NewState(id, props)); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

// WithEvent registers an event without parameters
func (b *ModelBuilder) WithEvent(id string) *ModelBuilder {
	return b.WithEventParams(id, nil)
}

// WithEventParams registers an event instance with parameter class bindings
func (b *ModelBuilder) WithEventParams(id string, params map[string]string) *ModelBuilder {
	if err := b.model.AddEvent(NewEvent(id, params)); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

// WithTransition declares a transition from source to target on event
func (b *ModelBuilder) WithTransition(source, event, target string) *ModelBuilder {
	if err := b.model.AddTransition(source, event, target); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

// WithInitialState designates the initial state
func (b *ModelBuilder) WithInitialState(id string) *ModelBuilder {
	if err := b.model.SetInitial(id); err != nil {
		b.errors = append(b.errors, err)
	}
	return b
}

// Build validates the accumulated definition and returns the model. The
// first construction error wins; an initial state is mandatory.
func (b *ModelBuilder) Build() (*Model, error) {
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}
	if _, ok := b.model.Initial(); !ok {
		return nil, NewConfigurationError("model builder", "no initial state designated")
	}
	return b.model, nil
}
