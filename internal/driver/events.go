package driver

import "time"

// Stage describes the step a file is in.
type Stage string

const (
	// StageRead loads the file and resolves its style.
	StageRead Stage = "read"
	// StageFormat lexes, parses and renders the file.
	StageFormat Stage = "format"
	// StageWrite stores the formatted file.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusDone means the file was formatted; Changed on the event tells
	// whether its contents differ.
	StatusDone Status = "done"
	// StatusCached means the cache already knew the file to be formatted.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for one file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Changed bool
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Events of one file arrive in
// order; events of different files may interleave.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
