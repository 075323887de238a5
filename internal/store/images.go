package store

import "github.com/example/pinmark/internal/annotation"

// AttachImages appends uris to a point's attachments in one change. It
// reports false for unknown ids and non-point annotations.
func (s *Store) AttachImages(id string, uris []string) bool {
	p, ok := s.Find(id).(*annotation.Point)
	if !ok || len(uris) == 0 {
		return false
	}
	next := append(append([]string(nil), p.AttachedImageURLs...), uris...)
	return s.Update(id, annotation.Patch{AttachedImageURLs: &next})
}

// RemoveImage drops the attachment at index.
func (s *Store) RemoveImage(id string, index int) bool {
	p, ok := s.Find(id).(*annotation.Point)
	if !ok || index < 0 || index >= len(p.AttachedImageURLs) {
		return false
	}
	next := make([]string, 0, len(p.AttachedImageURLs)-1)
	next = append(next, p.AttachedImageURLs[:index]...)
	next = append(next, p.AttachedImageURLs[index+1:]...)
	return s.Update(id, annotation.Patch{AttachedImageURLs: &next})
}
