package model

// SoundCue is a fire-and-forget audio request category.
type SoundCue uint8

const (
	SoundHit SoundCue = iota + 1
	SoundDie
	SoundVictory
	SoundTimeTicking
	SoundGameOver
)

// String returns cue name for logs.
func (c SoundCue) String() string {
	switch c {
	case SoundHit:
		return "Hit"
	case SoundDie:
		return "Die"
	case SoundVictory:
		return "Victory"
	case SoundTimeTicking:
		return "TimeTicking"
	case SoundGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}
