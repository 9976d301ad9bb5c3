package mbt

import "log"

// ExplorationObserver receives notifications about the progress of a
// discovery run. Observers must be registered before Run is called and must
// not call back into the explorer.
type ExplorationObserver interface {
	// OnStateDiscovered is called when a previously unknown state is
	// observed on the system under test
	OnStateDiscovered(s State)

	// OnTransitionProbed is called when a (state, event) probe records a
	// transition in the model under construction
	OnTransitionProbed(t Transition)

	// OnPhaseChange is called when the discovery process changes phase
	OnPhaseChange(from, to Phase)
}

// BaseExplorationObserver provides a default implementation with no-op
// methods, so observers only override what they care about
type BaseExplorationObserver struct{}

// OnStateDiscovered implements ExplorationObserver
func (o *BaseExplorationObserver) OnStateDiscovered(s State) {
	// Default implementation - no operation
}

// OnTransitionProbed implements ExplorationObserver
func (o *BaseExplorationObserver) OnTransitionProbed(t Transition) {
	// Default implementation - no operation
}

// OnPhaseChange implements ExplorationObserver
func (o *BaseExplorationObserver) OnPhaseChange(from, to Phase) {
	// Default implementation - no operation
}

// LoggingObserver logs discovery progress
type LoggingObserver struct {
	logger *log.Logger
}

// NewLoggingObserver creates a logging observer writing to the standard
// logger
func NewLoggingObserver() *LoggingObserver {
	return &LoggingObserver{logger: log.Default()}
}

// WithLogger directs the observer's output to a custom logger
func (o *LoggingObserver) WithLogger(logger *log.Logger) *LoggingObserver {
	o.logger = logger
	return o
}

// OnStateDiscovered logs newly discovered states
func (o *LoggingObserver) OnStateDiscovered(s State) {
	o.logger.Printf("discovered state %s", s)
}

// OnTransitionProbed logs recorded transitions
func (o *LoggingObserver) OnTransitionProbed(t Transition) {
	o.logger.Printf("recorded transition %s", t)
}

// OnPhaseChange logs discovery phase changes
func (o *LoggingObserver) OnPhaseChange(from, to Phase) {
	o.logger.Printf("exploration phase %s -> %s", from, to)
}
