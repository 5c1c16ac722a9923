package model

import (
	"strings"
	"time"
)

// ContentType is the kind of AI-generated content an item holds.
type ContentType string

const (
	ContentChat  ContentType = "chat"
	ContentImage ContentType = "image"
	ContentCode  ContentType = "code"
	ContentText  ContentType = "text"
)

// Valid reports whether t is one of the supported content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentChat, ContentImage, ContentCode, ContentText:
		return true
	}
	return false
}

// Message is a single turn of a saved chat transcript.
type Message struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// ContentItem represents a piece of saved content owned by a user.
type ContentItem struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	Title        string      `json:"title"`
	Type         ContentType `json:"type"`
	Source       string      `json:"source"`
	Content      string      `json:"content,omitempty"`
	Tags         []string    `json:"tags"`
	Conversation []Message   `json:"conversation,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	CodeLanguage string      `json:"codeLanguage,omitempty"`
	IsPublic     bool        `json:"isPublic"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Clone returns a deep copy of c.
func (c *ContentItem) Clone() *ContentItem {
	out := *c
	out.Tags = append([]string{}, c.Tags...)
	if c.Conversation != nil {
		out.Conversation = append([]Message(nil), c.Conversation...)
	}
	return &out
}

// ContentFields are the caller-supplied fields of a new item.
type ContentFields struct {
	Title        string      `json:"title"`
	Type         ContentType `json:"type"`
	Source       string      `json:"source"`
	Content      string      `json:"content"`
	Tags         []string    `json:"tags"`
	Conversation []Message   `json:"conversation"`
	ImageURL     string      `json:"imageUrl"`
	CodeLanguage string      `json:"codeLanguage"`
	IsPublic     bool        `json:"isPublic"`
}

// ContentPatch is a partial update of an item. Nil fields keep the stored value;
// the owning user cannot be changed.
type ContentPatch struct {
	Title        *string      `json:"title"`
	Type         *ContentType `json:"type"`
	Source       *string      `json:"source"`
	Content      *string      `json:"content"`
	Tags         []string     `json:"tags"`
	Conversation []Message    `json:"conversation"`
	ImageURL     *string      `json:"imageUrl"`
	CodeLanguage *string      `json:"codeLanguage"`
	IsPublic     *bool        `json:"isPublic"`
}

// Apply merges the patch into c.
func (p ContentPatch) Apply(c *ContentItem) {
	setString(&c.Title, p.Title)
	if p.Type != nil {
		c.Type = *p.Type
	}
	setString(&c.Source, p.Source)
	setString(&c.Content, p.Content)
	if p.Tags != nil {
		c.Tags = append([]string{}, p.Tags...)
	}
	if p.Conversation != nil {
		c.Conversation = append([]Message(nil), p.Conversation...)
	}
	setString(&c.ImageURL, p.ImageURL)
	setString(&c.CodeLanguage, p.CodeLanguage)
	setBool(&c.IsPublic, p.IsPublic)
}

// UpdateContentRequest is the body of PUT /api/content.
type UpdateContentRequest struct {
	ID string `json:"id"`
	ContentPatch
}

// ContentFilter narrows listings by free-text search and content type.
type ContentFilter struct {
	Query string
	Type  ContentType
}

// Matches reports whether the item passes the filter. extra holds additional
// searchable text, such as the author name in the library.
func (f ContentFilter) Matches(c *ContentItem, extra ...string) bool {
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(c.Title), q) {
		return true
	}
	for _, tag := range c.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	for _, s := range extra {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

type ContentListResponse struct {
	Content []ContentItem `json:"content"`
}

type ContentEnvelope struct {
	Message string      `json:"message"`
	Content ContentItem `json:"content"`
}

// Author identifies the owner of a shared item.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SharedContent is a public item as listed in the library.
type SharedContent struct {
	ContentItem
	Author Author `json:"author"`
	// Likes is always zero: there is no endpoint for liking an item yet.
	Likes int `json:"likes"`
}

type LibraryResponse struct {
	Content []SharedContent `json:"content"`
}
