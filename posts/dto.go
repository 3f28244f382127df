// Package posts, as part of the blog post module.
// This file defines the Data Transfer Objects for post requests. Responses
// use the Post model directly; it already hides nothing that a caller may
// not see.
package posts

// PostRequest is the payload for creating or updating a post. Title and
// content are required; description and tags are optional. The author is
// never taken from the payload — on create it is snapshotted from the
// caller, on update it is left untouched.
type PostRequest struct {
	Title       string   `json:"title" example:"My first post"`
	Description string   `json:"description,omitempty" example:"A short summary"`
	Content     string   `json:"content" example:"Hello, world."`
	Tags        []string `json:"tags,omitempty" example:"go,blogging"`
}

// DeleteResponse acknowledges a successful deletion.
type DeleteResponse struct {
	Message string `json:"message" example:"Post has been deleted successfully."`
}
