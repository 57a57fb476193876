package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactKey(t *testing.T) {
	tests := []struct {
		name     string
		project  string
		kind     string
		filename string
		want     string
	}{
		{"simple", "interview", "audio", "take1.mp3", "interview-audio.mp3"},
		{"spaces become dashes", "My Interview", "text", "script.txt", "My-Interview-text.txt"},
		{"no extension", "interview", "text", "script", "interview-text"},
		{"nested filename keeps last extension", "interview", "audio", "raw.final.wav", "interview-audio.wav"},
		{"unsafe runes dropped", "a/b?c", "audio", "x.mp3", "abc-audio.mp3"},
		{"surrounding whitespace trimmed", "  interview  ", "audio", "x.mp3", "interview-audio.mp3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArtifactKey(tt.project, tt.kind, tt.filename))
		})
	}
}
