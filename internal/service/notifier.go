package service

// Notifier delivers short admin-facing messages. Delivery is best effort and
// must not block the caller.
type Notifier interface {
	Notify(format string, args ...any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, ...any) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
