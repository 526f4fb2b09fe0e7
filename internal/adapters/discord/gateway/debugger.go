package gateway

// A Debugger sees every raw frame sent or received and every transport error.
type Debugger interface {
	Incoming(b []byte)
	Outgoing(b []byte)
	Error(err error)
}

type nopDebugger struct{}

func (nopDebugger) Incoming([]byte) {}
func (nopDebugger) Outgoing([]byte) {}
func (nopDebugger) Error(error)     {}
