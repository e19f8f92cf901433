package reconcile

import (
	"slices"

	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
)

// partition splits a full server attachment list. Attachments with an
// identity replace the saved list and retire the local copy they came from.
// The rest are merged into the local list unless a local one already
// matches them.
func partition(local []authoring.Attachment, server []Attachment) ([]authoring.Attachment, []authoring.SavedAttachment) {
	images := append([]authoring.Attachment{}, local...)
	saved := make([]authoring.SavedAttachment, 0, len(server))

	for _, a := range server {
		if a.ID == "" {
			continue
		}
		saved = append(saved, a.Saved())
		images = slices.DeleteFunc(images, func(l authoring.Attachment) bool { return sameUpload(l, a) })
	}

	for _, a := range server {
		if a.ID != "" {
			continue
		}
		images = mergeUnsaved(images, a)
	}
	return images, saved
}

// promote folds a single server attachment into an owner's two lists
func promote(local []authoring.Attachment, saved []authoring.SavedAttachment, a Attachment) ([]authoring.Attachment, []authoring.SavedAttachment) {
	images := append([]authoring.Attachment{}, local...)
	if a.ID == "" {
		return mergeUnsaved(images, a), saved
	}

	out := append([]authoring.SavedAttachment{}, saved...)
	if i := slices.IndexFunc(out, func(s authoring.SavedAttachment) bool { return s.ID == a.ID }); i >= 0 {
		out[i] = a.Saved()
	} else {
		out = append(out, a.Saved())
	}
	images = slices.DeleteFunc(images, func(l authoring.Attachment) bool { return sameUpload(l, a) })
	return images, out
}

func mergeUnsaved(images []authoring.Attachment, a Attachment) []authoring.Attachment {
	if a.FileName == "" && a.VideoURL == "" && a.URL == "" && a.LocalID == "" {
		return images
	}
	if slices.ContainsFunc(images, func(l authoring.Attachment) bool { return matchesUnsaved(l, a) }) {
		return images
	}
	return append(images, fromServer(a))
}

// sameUpload reports whether l is the local attachment a server-confirmed
// attachment was created from. The local key is authoritative when echoed.
func sameUpload(l authoring.Attachment, a Attachment) bool {
	if a.LocalID != "" {
		return l.LocalID == a.LocalID
	}
	if l.VideoURL != "" {
		return l.VideoURL == a.VideoURL
	}
	return l.Media != nil && l.Media.FileName == a.FileName && l.Media.Size == a.Size
}

// matchesUnsaved is the dedup rule for attachments without an identity:
// file name and size, URL, or local key
func matchesUnsaved(l authoring.Attachment, a Attachment) bool {
	if l.Media != nil && a.FileName != "" && l.Media.FileName == a.FileName && l.Media.Size == a.Size {
		return true
	}
	if l.VideoURL != "" && (l.VideoURL == a.VideoURL || l.VideoURL == a.URL) {
		return true
	}
	return a.LocalID != "" && l.LocalID == a.LocalID
}

func fromServer(a Attachment) authoring.Attachment {
	out := authoring.Attachment{
		LocalID:     a.LocalID,
		Title:       a.Title,
		Description: a.Description,
	}
	switch {
	case a.VideoURL != "":
		out.VideoURL = a.VideoURL
		return out
	case a.FileName == "" && a.URL != "":
		out.VideoURL = a.URL
		return out
	}
	out.Media = &authoring.Media{
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
	}
	return out
}
