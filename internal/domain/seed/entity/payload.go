package entity

import "fmt"

// PostType is the kind of post the API creates
type PostType string

const (
	PostTypeText PostType = "TEXT"
)

// Payload is the body of one create-post request.
// Community is sent as subName, which is what the posts API expects.
type Payload struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Community string   `json:"subName"`
	PostType  PostType `json:"postType"`
	NSFW      bool     `json:"nsfw"`
	Spoiler   bool     `json:"spoiler"`
}

// NewPayload builds the payload for the post at index i.
// Title and content depend only on i, so reruns produce identical bodies.
func NewPayload(i int, community string) Payload {
	return Payload{
		Title:     fmt.Sprintf("Test Post #%d - Automated Testing", i),
		Content:   fmt.Sprintf("This is test post number %d created for testing purposes.", i),
		Community: community,
		PostType:  PostTypeText,
	}
}
