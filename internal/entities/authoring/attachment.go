package authoring

import (
	"regexp"
	"strings"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// Upload bounds
const (
	MaxImageBytes int64 = 10 << 20
	MaxVideoBytes int64 = 50 << 20
)

var videoHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.|m\.)?youtube\.com/watch\?(.*&)?v=[\w-]{6,}`),
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/shorts/[\w-]{6,}`),
	regexp.MustCompile(`^https?://youtu\.be/[\w-]{6,}`),
	regexp.MustCompile(`^https?://(www\.|player\.)?vimeo\.com/(video/)?\d+`),
}

// Media is an uploaded blob held locally until the service confirms it.
// Preview holds a transcoded preview while one is being shown.
type Media struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"data,omitempty"`
	Preview     []byte `json:"preview,omitempty"`
}

// Attachment is a local-only attachment: either an uploaded blob or a
// remote video reference, never both.
type Attachment struct {
	LocalID     string `json:"local_id"`
	Media       *Media `json:"media,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// SavedAttachment is a server-confirmed attachment. It no longer holds the
// original payload, only what is needed to fetch and match it.
type SavedAttachment struct {
	ID          string `json:"id"`
	URL         string `json:"url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	LocalID     string `json:"local_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsVideoHostURL reports whether url points at a recognised video host
func IsVideoHostURL(url string) bool {
	url = strings.TrimSpace(url)
	for _, pattern := range videoHostPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// NewMediaAttachment builds an upload attachment after checking type and size
func NewMediaAttachment(localID, fileName, contentType string, data []byte) (Attachment, error) {
	a := Attachment{
		LocalID: localID,
		Media: &Media{
			FileName:    fileName,
			ContentType: contentType,
			Size:        int64(len(data)),
			Data:        data,
		},
	}
	if err := a.Validate(); err != nil {
		return Attachment{}, err
	}
	return a, nil
}

// NewVideoAttachment builds a remote-video reference
func NewVideoAttachment(localID, url string) (Attachment, error) {
	a := Attachment{
		LocalID:  localID,
		VideoURL: strings.TrimSpace(url),
	}
	if err := a.Validate(); err != nil {
		return Attachment{}, err
	}
	return a, nil
}

// Validate checks the blob/video exclusivity and the upload bounds
func (a Attachment) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("local_id", a.LocalID, vb)

	switch {
	case a.Media != nil && a.VideoURL != "":
		vb.Field("attachment", "must be either an upload or a video link, not both")
	case a.Media == nil && a.VideoURL == "":
		vb.Field("attachment", "must be an upload or a video link")
	case a.VideoURL != "":
		if !IsVideoHostURL(a.VideoURL) {
			vb.Field("video_url", "is not a recognised video link")
		}
	default:
		validateMedia(a.Media, vb)
	}

	return vb.Build()
}

func validateMedia(m *Media, vb *errors.ValidationBuilder) {
	errors.ValidateRequired("file_name", m.FileName, vb)

	switch {
	case strings.HasPrefix(m.ContentType, "image/"):
		if m.Size > MaxImageBytes {
			vb.Fieldf("size", "images must be at most %d bytes", MaxImageBytes)
		}
	case strings.HasPrefix(m.ContentType, "video/"):
		if m.Size > MaxVideoBytes {
			vb.Fieldf("size", "videos must be at most %d bytes", MaxVideoBytes)
		}
	default:
		vb.Fieldf("content_type", "%q is not an image or video", m.ContentType)
	}
}

// IsVideo reports whether the attachment is a remote video reference
func (a Attachment) IsVideo() bool {
	return a.VideoURL != ""
}
