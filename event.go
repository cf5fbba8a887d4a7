package blogtext

// EventType identifies the kind of an Event.
type EventType int

const (
	// EventStatus is an informational, non-terminal message.
	EventStatus EventType = iota
	// EventPost carries one extracted article.
	EventPost
	// EventCompleted ends a run normally, possibly with zero posts.
	EventCompleted
	// EventFailed ends a run on an unrecoverable error.
	EventFailed
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventStatus:
		return "status"
	case EventPost:
		return "post"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is one entry of a run's ordered output stream.
// Exactly one terminal event (EventCompleted or EventFailed) ends every run.
type Event struct {
	Type    EventType
	Message string
	Post    *ExtractedPost
	Err     error
}

// Terminal reports whether the event ends the run.
func (e Event) Terminal() bool {
	return e.Type == EventCompleted || e.Type == EventFailed
}

// StatusEvent returns an informational event.
func StatusEvent(message string) Event {
	return Event{Type: EventStatus, Message: message}
}

// PostEvent returns an event carrying an extracted post.
func PostEvent(post *ExtractedPost) Event {
	return Event{Type: EventPost, Post: post}
}

// EventFunc receives events in emission order.
type EventFunc func(Event)

// State is a stage of a scraping run.
type State int

// Run states, in the order a run normally passes through them.
const (
	StateIdle State = iota
	StateDiscoveringFeeds
	StateDiscoveringFallback
	StateExtractingContent
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscoveringFeeds:
		return "discovering_feeds"
	case StateDiscoveringFallback:
		return "discovering_fallback"
	case StateExtractingContent:
		return "extracting_content"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
