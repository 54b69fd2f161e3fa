package core

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultBackgroundColor is applied by the editor to notes created without a color.
const DefaultBackgroundColor = "#FFFFFF"

// Palette lists the colors offered by the editor. Other values are stored as-is.
var Palette = []string{
	"#FFFFFF",
	"#F8F9FA",
	"#FFE0E0",
	"#FFE8D9",
	"#FFF3D9",
	"#E3F2E1",
	"#E3F2FF",
	"#F3E5F5",
	"#FFE0E6",
	"#E0E0E0",
}

// Note is the central entity of the domain.
// Timestamps are milliseconds since the Unix epoch.
type Note struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Content         string `json:"content" yaml:"content"`
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	HeaderImage     string `json:"headerImage,omitempty" yaml:"headerImage,omitempty"`
	CreatedAt       int64  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       int64  `json:"updatedAt" yaml:"updatedAt"`
}

// Size is the character count used by the size ordering.
func (n Note) Size() int {
	return utf8.RuneCountInString(n.Content) + utf8.RuneCountInString(n.Title)
}

// Created returns CreatedAt as a time.Time.
func (n Note) Created() time.Time {
	return time.UnixMilli(n.CreatedAt)
}

// Updated returns UpdatedAt as a time.Time.
func (n Note) Updated() time.Time {
	return time.UnixMilli(n.UpdatedAt)
}

// Draft holds the user-settable fields of a note that does not exist yet.
type Draft struct {
	Title           string `json:"title" yaml:"title"`
	Content         string `json:"content" yaml:"content"`
	BackgroundColor string `json:"backgroundColor" yaml:"backgroundColor"`
	HeaderImage     string `json:"headerImage,omitempty" yaml:"headerImage,omitempty"`
}

// Patch is a partial update. Nil fields are left unchanged.
// A HeaderImage pointing at "" clears the image reference.
type Patch struct {
	Title           *string
	Content         *string
	BackgroundColor *string
	HeaderImage     *string
}

// PatchFromDraft builds a Patch that overwrites every field with the draft's values.
func PatchFromDraft(d Draft) Patch {
	return Patch{
		Title:           &d.Title,
		Content:         &d.Content,
		BackgroundColor: &d.BackgroundColor,
		HeaderImage:     &d.HeaderImage,
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.BackgroundColor == nil && p.HeaderImage == nil
}

func (p Patch) apply(n Note) Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.BackgroundColor != nil {
		n.BackgroundColor = *p.BackgroundColor
	}
	if p.HeaderImage != nil {
		n.HeaderImage = *p.HeaderImage
	}
	return n
}

// ShareText formats a note the way it is handed to the clipboard.
func ShareText(n Note) string {
	return n.Title + "\n\n" + n.Content
}

// IsBlank reports whether both title and content are whitespace only.
func IsBlank(title, content string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(content) == ""
}
