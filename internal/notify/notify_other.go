//go:build !windows

package notify

func platformNotifier(fallback *Stream) Notifier {
	return fallback
}
