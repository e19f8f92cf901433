package authoring

import "log/slog"

//go:generate mockgen -destination=mock/mock_notifier.go -package=authoringmock github.com/KirkDiggler/rpg-authoring/internal/orchestrators/authoring Notifier

// NoticeKind classifies a notice
type NoticeKind string

// Notice kinds
const (
	// NoticeSaveFailed reports a scheduled write the service rejected.
	// Local state is kept; the next edit schedules the write again.
	NoticeSaveFailed NoticeKind = "save_failed"
	// NoticeMismatch reports a response that matched no local entity and was dropped
	NoticeMismatch NoticeKind = "mismatch"
)

// Notice is a transient message for the user
type Notice struct {
	Kind    NoticeKind
	Key     string
	Message string
	Err     error
}

// Notifier delivers notices to the presentation layer. Publish is never
// called while the session holds its lock.
type Notifier interface {
	Publish(n Notice)
}

// LogNotifier writes notices to the default logger
type LogNotifier struct{}

// Publish logs the notice
func (LogNotifier) Publish(n Notice) {
	slog.Warn("authoring notice",
		"kind", n.Kind,
		"key", n.Key,
		"message", n.Message,
		"error", n.Err)
}
