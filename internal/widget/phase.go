package widget

// Phase is the view the widget is showing.
type Phase int

const (
	EditingKey Phase = iota
	Loading
	Display
	Error
)

func (p Phase) String() string {
	switch p {
	case EditingKey:
		return "editing_key"
	case Loading:
		return "loading"
	case Display:
		return "display"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-visible message raised by a transition.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives notices synchronously, on the goroutine that caused the
// transition.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
