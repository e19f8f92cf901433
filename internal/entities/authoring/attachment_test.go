package authoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

func TestIsVideoHostURL(t *testing.T) {
	testCases := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/shorts/abcdef123", true},
		{"https://vimeo.com/76979871", true},
		{"https://player.vimeo.com/video/76979871", true},
		{"https://example.com/movie.mp4", false},
		{"youtube.com/watch?v=dQw4w9WgXcQ", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.expected, authoring.IsVideoHostURL(tc.url))
		})
	}
}

func TestNewMediaAttachment(t *testing.T) {
	t.Run("accepts small image", func(t *testing.T) {
		a, err := authoring.NewMediaAttachment("l1", "map.png", "image/png", []byte("data"))
		require.NoError(t, err)
		assert.Equal(t, int64(4), a.Media.Size)
		assert.False(t, a.IsVideo())
	})

	t.Run("rejects oversized image", func(t *testing.T) {
		data := make([]byte, authoring.MaxImageBytes+1)
		_, err := authoring.NewMediaAttachment("l1", "huge.png", "image/png", data)
		require.Error(t, err)
		assert.True(t, errors.IsInvalidArgument(err))
		assert.Contains(t, errors.GetMeta(err)["validation_errors"], "size")
	})

	t.Run("accepts video up to video bound", func(t *testing.T) {
		data := make([]byte, authoring.MaxImageBytes+1)
		_, err := authoring.NewMediaAttachment("l1", "clip.mp4", "video/mp4", data)
		assert.NoError(t, err)
	})

	t.Run("rejects other content types", func(t *testing.T) {
		_, err := authoring.NewMediaAttachment("l1", "notes.pdf", "application/pdf", []byte("x"))
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestAttachmentExclusivity(t *testing.T) {
	a := authoring.Attachment{
		LocalID:  "l1",
		VideoURL: "https://youtu.be/dQw4w9WgXcQ",
		Media:    &authoring.Media{FileName: "x.png", ContentType: "image/png", Size: 1},
	}
	err := a.Validate()
	require.Error(t, err)
	assert.Contains(t, errors.GetMeta(err)["validation_errors"], "attachment")

	v, err := authoring.NewVideoAttachment("l2", " https://youtu.be/dQw4w9WgXcQ ")
	require.NoError(t, err)
	assert.True(t, v.IsVideo())
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", v.VideoURL)

	_, err = authoring.NewVideoAttachment("l3", "https://example.com/clip")
	assert.True(t, errors.IsInvalidArgument(err))
}
