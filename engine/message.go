package engine

// Event is a notification travelling up the tree. Source is the path of the
// emitting node relative to the container currently looking at the event;
// each level prefixes its child's name as the event bubbles up.
type Event struct {
	Source   Path
	Complete bool
	Payload  any
}

// Action is a request travelling down the tree. Destination is consumed one
// segment per level; Source gains an Up segment per level so the receiver can
// address a reply back to the sender.
type Action struct {
	Source      Path
	Destination Path
	Payload     any
}

// Message is an event payload addressed to another node. The recipient path
// is relative to the emitting node.
type Message interface {
	Recipient() Path
}

// Router is a Policy that turns Message events into actions for their
// recipients. A message whose recipient lies outside the container bubbles
// up unchanged; the next container resolves it against the longer source
// path. A recipient that resolves to the container itself becomes an action
// with an empty destination. Every other event bubbles up as is.
type Router struct{}

func (Router) OnEvent(e Event) ([]Event, []Action) {
	msg, ok := e.Payload.(Message)
	if !ok {
		return []Event{e}, nil
	}
	target, ok := e.Source.Resolve(msg.Recipient())
	if !ok {
		return []Event{e}, nil
	}
	return nil, []Action{{Source: e.Source, Destination: target, Payload: e.Payload}}
}
