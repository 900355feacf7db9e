package weakevent

// EventArgs is the base type of all event data passed through a bus.
// Implement it by embedding Args.
type EventArgs interface {
	eventArgs()
}

// Args is embedded by event data types.
//
//	type ClickArgs struct {
//		weakevent.Args
//		X, Y int
//	}
type Args struct{}

func (Args) eventArgs() {}

// Empty is the event data for events that carry none.
var Empty EventArgs = Args{}
