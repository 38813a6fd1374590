package domain

// ImageSelection represents the reference image chosen by the user
type ImageSelection struct {
	Filename    string `json:"filename" yaml:"filename"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Data        []byte `json:"-" yaml:"-"`
}

// Size returns the number of bytes in the selection
func (s *ImageSelection) Size() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}

// ResultHandle references the locally materialized result of the most recent
// successful generation. Handles are never mutated; a new result replaces the
// handle and the old one is released.
type ResultHandle struct {
	ID          string `json:"id" yaml:"id"`
	URI         string `json:"uri" yaml:"uri"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Size        int    `json:"size" yaml:"size"`
	Token       uint64 `json:"token" yaml:"token"`
}
