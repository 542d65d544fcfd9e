package domain

import "fmt"

const (
	TopicVideoPlayback  = "video-playback-by-id"
	TopicUserDropEvents = "user-drop-events"

	EventStreamDown   = "stream-down"
	EventStreamUp     = "stream-up"
	EventViewCount    = "viewcount"
	EventDropProgress = "drop-progress"
	EventDropClaim    = "drop-claim"
)

type Topic struct {
	Kind   string
	Target int64
}

func (t Topic) String() string {
	return fmt.Sprintf("%s.%d", t.Kind, t.Target)
}

// RequiresAuth reports whether LISTEN for this topic must carry the user token.
func (t Topic) RequiresAuth() bool {
	return t.Kind == TopicUserDropEvents
}

type Event struct {
	Topic   Topic
	Type    string
	Viewers int

	DropID          string
	DropInstanceID  string
	CurrentMinutes  int
	RequiredMinutes int
}
