package api

import (
	"context"
	"fmt"
	"net/http"
)

// UserService wraps the user, friend, match and suggestion endpoints.
type UserService struct {
	c *Client
}

// Get fetches a user profile by id.
func (s *UserService) Get(ctx context.Context, userID string) (*User, error) {
	var u User
	if err := s.c.do(ctx, http.MethodGet, "/users/"+userID, nil, &u); err != nil {
		return nil, err
	}
	u.normalize()
	return &u, nil
}

// Update patches the user's profile fields.
func (s *UserService) Update(ctx context.Context, userID string, fields map[string]any) (*User, error) {
	var u User
	if err := s.c.do(ctx, http.MethodPut, "/users/"+userID, fields, &u); err != nil {
		return nil, err
	}
	u.normalize()
	return &u, nil
}

// Friends lists the user's friends.
func (s *UserService) Friends(ctx context.Context, userID string) ([]User, error) {
	return s.userList(ctx, fmt.Sprintf("/users/%s/friends", userID))
}

// FriendsCount returns the user's friend count.
func (s *UserService) FriendsCount(ctx context.Context, userID string) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	if err := s.c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s/friends/count", userID), nil, &res); err != nil {
		return 0, err
	}
	return res.Count, nil
}

// Matches lists the users the viewer has matched with.
func (s *UserService) Matches(ctx context.Context, userID string) ([]User, error) {
	return s.userList(ctx, "/matches/"+userID)
}

// PendingMatches lists match proposals awaiting the other side's response.
func (s *UserService) PendingMatches(ctx context.Context, userID string) ([]Match, error) {
	var matches []Match
	if err := s.c.do(ctx, http.MethodGet, "/match/pending/"+userID, nil, &matches); err != nil {
		return nil, err
	}
	for i := range matches {
		matches[i].normalize()
	}
	return matches, nil
}

// Suggestions lists users the viewer might want to connect with.
func (s *UserService) Suggestions(ctx context.Context, userID string) ([]User, error) {
	return s.userList(ctx, fmt.Sprintf("/users/%s/suggestions", userID))
}

// SendFriendRequest proposes a friend connection. The backend answers 409
// when a request between the pair already exists; callers see ErrConflict.
func (s *UserService) SendFriendRequest(ctx context.Context, senderID, receiverID string) (*FriendRequest, error) {
	var req FriendRequest
	err := s.c.do(ctx, http.MethodPost, "/friends/request", map[string]string{
		"senderId":   senderID,
		"receiverId": receiverID,
	}, &req)
	if err != nil {
		return nil, err
	}
	req.normalize()
	return &req, nil
}

// RespondFriendRequest accepts or rejects a pending request. decision is
// RequestAccepted or RequestRejected.
func (s *UserService) RespondFriendRequest(ctx context.Context, requestID, decision string) (*FriendRequest, error) {
	var req FriendRequest
	err := s.c.do(ctx, http.MethodPut, "/friends/request/"+requestID, map[string]string{
		"response": decision,
	}, &req)
	if err != nil {
		return nil, err
	}
	req.normalize()
	return &req, nil
}

// PendingRequests lists friend requests awaiting the viewer's decision, with
// the sender embedded.
func (s *UserService) PendingRequests(ctx context.Context, userID string) ([]FriendRequest, error) {
	var reqs []FriendRequest
	if err := s.c.do(ctx, http.MethodGet, "/friends/requests/pending/"+userID, nil, &reqs); err != nil {
		return nil, err
	}
	for i := range reqs {
		reqs[i].normalize()
	}
	return reqs, nil
}

func (s *UserService) userList(ctx context.Context, path string) ([]User, error) {
	var users []User
	if err := s.c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		users[i].normalize()
	}
	return users, nil
}
