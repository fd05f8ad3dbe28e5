package encoding

// Step is one stage of the encode or decode algorithm as seen by a Tracer.
// Input and Output are snapshots owned by the receiver.
type Step struct {
	Op     string
	Stage  string
	Input  interface{}
	Output interface{}
}

// Tracer receives algorithm steps. Codecs without a tracer skip building
// steps entirely.
type Tracer interface {
	Emit(Step)
}

// TracerFunc adapts a function to a Tracer.
type TracerFunc func(Step)

func (f TracerFunc) Emit(s Step) {
	f(s)
}

// Recorder is a Tracer that keeps every step in memory.
type Recorder struct {
	Steps []Step
}

func (r *Recorder) Emit(s Step) {
	r.Steps = append(r.Steps, s)
}

// Stages returns the stage names in emission order.
func (r *Recorder) Stages() []string {
	out := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.Stage
	}
	return out
}
