package models

import "encoding/json"

type TranscribedPost struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Author          string   `json:"author"`
	Likes           *int     `json:"likes"`
	Comments        *int     `json:"comments"`
	Tags            []string `json:"tags,omitempty"`
	ScreenshotIndex int      `json:"screenshot_index"`
}

// TranscriptionResult holds whatever the vision model managed to read from
// one screenshot. Newer model revisions classify the screenshot and return
// PostContent/Comments for detail views; the legacy shape only fills Posts.
// Comment records stay raw JSON until report assembly so a single malformed
// record cannot sink the batch.
type TranscriptionResult struct {
	ScreenshotType    string            `json:"screenshot_type,omitempty"`
	Posts             []TranscribedPost `json:"posts,omitempty"`
	PostContent       *TranscribedPost  `json:"post_content,omitempty"`
	Comments          []json.RawMessage `json:"comments,omitempty"`
	TotalVisiblePosts int               `json:"total_visible_posts,omitempty"`
	Notes             string            `json:"notes,omitempty"`

	// Soft-failure diagnostics: set when the model text was not valid JSON.
	// Callers treat such a result as "zero posts found", not as an error.
	ParseError  string `json:"parse_error,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

// AllPosts returns the feed posts plus the detail-view post when present.
func (r *TranscriptionResult) AllPosts() []TranscribedPost {
	if r.PostContent == nil {
		return r.Posts
	}
	posts := make([]TranscribedPost, 0, len(r.Posts)+1)
	posts = append(posts, r.Posts...)
	posts = append(posts, *r.PostContent)
	return posts
}
