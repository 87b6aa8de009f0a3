package lectures

// NotifierFunc adapts two callbacks to the Notifier interface.
type NotifierFunc struct {
	OnSuccess func(message string)
	OnError   func(message string)
}

// Success implements Notifier.
func (n NotifierFunc) Success(message string) {
	if n.OnSuccess != nil {
		n.OnSuccess(message)
	}
}

// Error implements Notifier.
func (n NotifierFunc) Error(message string) {
	if n.OnError != nil {
		n.OnError(message)
	}
}

// logNotifier forwards notifications to the package Logger. It is the
// default sink when no toast surface is wired in.
type logNotifier struct {
	logger Logger
}

func (n logNotifier) Success(message string) {
	n.logger.Info("notify: %s", message)
}

func (n logNotifier) Error(message string) {
	n.logger.Warn("notify: %s", message)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
