package spawn

import (
	"log/slog"

	"github.com/udisondev/arena/internal/ai"
	"github.com/udisondev/arena/internal/model"
)

// Feedback builds the presentation sinks of one actor.
type Feedback interface {
	Animator(objectID uint32) ai.Animator
	Audio(objectID uint32) ai.AudioSink
	Highlighter(objectID uint32) ai.Highlighter
}

// LogFeedback renders presentation commands as debug log records.
// A headless arena has no renderer or speakers.
type LogFeedback struct {
	Logger *slog.Logger // nil = slog.Default()
}

func (f LogFeedback) logger(objectID uint32) *slog.Logger {
	l := f.Logger
	if l == nil {
		l = slog.Default()
	}
	return l.With("objectID", objectID)
}

// Animator returns an animator that logs parameter changes at debug level.
func (f LogFeedback) Animator(objectID uint32) ai.Animator {
	return logAnimator{log: f.logger(objectID)}
}

// Audio returns a sound sink that logs cues.
func (f LogFeedback) Audio(objectID uint32) ai.AudioSink {
	return logAudio{log: f.logger(objectID)}
}

// Highlighter returns a highlighter that logs intensity at debug level.
func (f LogFeedback) Highlighter(objectID uint32) ai.Highlighter {
	return logHighlighter{log: f.logger(objectID)}
}

type logAnimator struct{ log *slog.Logger }

func (a logAnimator) SetTrigger(p model.AnimParam) {
	if ai.IsDebugEnabled() {
		a.log.Debug("anim trigger", "param", p)
	}
}

func (a logAnimator) SetBool(p model.AnimParam, v bool) {
	if ai.IsDebugEnabled() {
		a.log.Debug("anim bool", "param", p, "value", v)
	}
}

func (a logAnimator) SetInteger(p model.AnimParam, v int) {
	if ai.IsDebugEnabled() {
		a.log.Debug("anim int", "param", p, "value", v)
	}
}

type logAudio struct{ log *slog.Logger }

// Play logs round-level cues at info, combat cues at debug.
func (a logAudio) Play(cue model.SoundCue) {
	switch cue {
	case model.SoundHit, model.SoundDie:
		if ai.IsDebugEnabled() {
			a.log.Debug("sound", "cue", cue)
		}
	default:
		a.log.Info("sound", "cue", cue)
	}
}

type logHighlighter struct{ log *slog.Logger }

func (h logHighlighter) SetHighlight(v float64) {
	if ai.IsDebugEnabled() {
		h.log.Debug("highlight", "intensity", v)
	}
}
