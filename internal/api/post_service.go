package api

import (
	"context"
	"fmt"
	"net/http"
)

// PostService wraps the feed, comment and reaction endpoints.
type PostService struct {
	c *Client
}

// Feed lists the viewer's feed posts.
func (s *PostService) Feed(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := s.c.do(ctx, http.MethodGet, "/posts/feed", nil, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].normalize()
	}
	return posts, nil
}

// Create publishes a new post.
func (s *PostService) Create(ctx context.Context, authorID, content, postType, privacy string) (*Post, error) {
	var post Post
	err := s.c.do(ctx, http.MethodPost, "/posts", map[string]string{
		"authorId": authorID,
		"content":  content,
		"postType": postType,
		"privacy":  privacy,
	}, &post)
	if err != nil {
		return nil, err
	}
	post.normalize()
	return &post, nil
}

// ByUser lists a single user's posts.
func (s *PostService) ByUser(ctx context.Context, userID string) ([]Post, error) {
	var posts []Post
	if err := s.c.do(ctx, http.MethodGet, "/posts/user/"+userID, nil, &posts); err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].normalize()
	}
	return posts, nil
}

// Comments lists the comments on a post.
func (s *PostService) Comments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%s/comments", postID), nil, &comments); err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].normalize()
	}
	return comments, nil
}

// AddComment attaches a comment to a post.
func (s *PostService) AddComment(ctx context.Context, postID, authorID, content string) (*Comment, error) {
	var comment Comment
	err := s.c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%s/comments", postID), map[string]string{
		"authorId": authorID,
		"content":  content,
	}, &comment)
	if err != nil {
		return nil, err
	}
	comment.normalize()
	return &comment, nil
}

// React adds a reaction to a post or comment.
func (s *PostService) React(ctx context.Context, targetID, userID, targetType, reactionType string) (*Reaction, error) {
	var reaction Reaction
	err := s.c.do(ctx, http.MethodPost, "/reactions/"+targetID, map[string]string{
		"userId":       userID,
		"targetType":   targetType,
		"reactionType": reactionType,
	}, &reaction)
	if err != nil {
		return nil, err
	}
	reaction.normalize()
	return &reaction, nil
}

// Unreact removes the user's reaction from a target.
func (s *PostService) Unreact(ctx context.Context, targetID, userID string) error {
	return s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/reactions/%s/user/%s", targetID, userID), nil, nil)
}

// HasReacted reports whether the user has reacted to a target.
func (s *PostService) HasReacted(ctx context.Context, targetID, userID string) (bool, error) {
	var res struct {
		Reacted bool `json:"reacted"`
	}
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/reactions/%s/user/%s", targetID, userID), nil, &res); err != nil {
		return false, err
	}
	return res.Reacted, nil
}
