package port

import "context"

// Socket declares one named input or output of a pipeline component.
type Socket struct {
	Name     string
	Type     string
	Optional bool
}

// Component is the contract a host pipeline uses to wire and invoke a node.
// Run receives inputs keyed by input socket name and returns outputs keyed by
// output socket name.
type Component interface {
	Name() string
	InputSockets() []Socket
	OutputSockets() []Socket
	Run(ctx context.Context, inputs map[string]any) (map[string]any, error)
}
