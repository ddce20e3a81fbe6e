package dubbing

import "sync"

// Stage identifies one step of the dubbing pipeline.
type Stage string

const (
	StageExtractAudio Stage = "extract_audio"
	StageTranscribe   Stage = "transcribe"
	StageTranslate    Stage = "translate"
	StageSynthesize   Stage = "synthesize"
	StageDone         Stage = "done"
)

// Label returns the human-readable form of the stage.
func (s Stage) Label() string {
	switch s {
	case StageExtractAudio:
		return "Extracting audio"
	case StageTranscribe:
		return "Transcribing speech"
	case StageTranslate:
		return "Translating text"
	case StageSynthesize:
		return "Synthesizing speech"
	case StageDone:
		return "Completed"
	}
	return string(s)
}

// Checkpoint returns the fixed progress percentage reached when the pipeline
// enters the stage. There is no intra-stage progress.
func (s Stage) Checkpoint() int {
	switch s {
	case StageExtractAudio:
		return 10
	case StageTranscribe:
		return 30
	case StageTranslate:
		return 60
	case StageSynthesize:
		return 80
	case StageDone:
		return 100
	}
	return 0
}

// ProgressEvent is one pipeline progress notification. Events are purely
// informational and never retained.
type ProgressEvent struct {
	JobID   string
	Stage   Stage
	Percent int
	Message string
}

// DefaultSubscriberBuffer is the per-subscriber channel capacity.
const DefaultSubscriberBuffer = 16

// Broadcaster fans progress events out to subscribers. Delivery is
// non-blocking: a subscriber that stops draining its channel loses events
// instead of stalling the pipeline. Unsubscribing closes the channel, so a
// departed consumer is never sent another event.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan ProgressEvent
	buffer int
}

// NewBroadcaster builds a Broadcaster whose subscriber channels hold buffer
// events (DefaultSubscriberBuffer when <= 0).
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	return &Broadcaster{
		subs:   make(map[int]chan ProgressEvent),
		buffer: buffer,
	}
}

// Subscribe registers a new consumer and returns its event channel plus an
// unsubscribe function. Unsubscribe is idempotent.
func (b *Broadcaster) Subscribe() (<-chan ProgressEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan ProgressEvent, b.buffer)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers the event to every current subscriber without blocking.
func (b *Broadcaster) Publish(ev ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
