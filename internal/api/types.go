package api

import (
	"encoding/json"
	"slices"
	"time"
)

// The backend exposes entity identifiers under either "id" or "_id" depending
// on which collection produced them. Every entity is normalized exactly once,
// as it crosses this boundary; downstream code only ever sees ID.

// User is a platform user: the viewer, a participant, a friend or a match.
type User struct {
	ID              string   `json:"id"`
	LegacyID        string   `json:"_id,omitempty"`
	Name            string   `json:"name"`
	Username        string   `json:"username"`
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	ProfilePicture  string   `json:"profilePicture"`
	Bio             string   `json:"bio"`
	Interests       []string `json:"interests"`
	FriendCount     int      `json:"friendCount"`
	ThemePreference string   `json:"themePreference"`
}

func (u *User) normalize() {
	if u.ID == "" {
		u.ID = u.LegacyID
	}
	u.LegacyID = ""
}

// DisplayName returns the best available human-readable name.
func (u *User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	default:
		return "User"
	}
}

// UserRef decodes a sender reference that the backend serializes either as a
// bare identifier string or as an embedded user object.
type UserRef struct {
	User
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		r.User = User{ID: id}
		return nil
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return err
	}
	u.normalize()
	r.User = u
	return nil
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Message is a single chat message. Within a conversation messages are
// append-only and arrive in the backend's creation-time order.
type Message struct {
	ID        string    `json:"id"`
	LegacyID  string    `json:"_id,omitempty"`
	ChatID    string    `json:"chatId"`
	Sender    UserRef   `json:"sender"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	ReadBy    []string  `json:"readBy"`
	CreatedAt time.Time `json:"createdAt"`
	Timestamp time.Time `json:"timestamp"`
}

func (m *Message) normalize() {
	if m.ID == "" {
		m.ID = m.LegacyID
	}
	m.LegacyID = ""
	if m.SenderID == "" {
		m.SenderID = m.Sender.ID
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.Timestamp
	}
}

// ReadFor reports whether the message has been read from userID's point of view.
func (m *Message) ReadFor(userID string) bool {
	return m.Read || slices.Contains(m.ReadBy, userID)
}

// Chat is a two-party conversation with its participants and messages embedded.
type Chat struct {
	ID           string    `json:"id"`
	LegacyID     string    `json:"_id,omitempty"`
	Participants []User    `json:"participants"`
	Messages     []Message `json:"messages"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (c *Chat) normalize() {
	if c.ID == "" {
		c.ID = c.LegacyID
	}
	c.LegacyID = ""
	for i := range c.Participants {
		c.Participants[i].normalize()
	}
	for i := range c.Messages {
		c.Messages[i].normalize()
	}
}

// FriendRequest is a pending friend-connection proposal.
type FriendRequest struct {
	ID         string    `json:"id"`
	LegacyID   string    `json:"_id,omitempty"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Status     string    `json:"status"`
	Sender     UserRef   `json:"sender"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *FriendRequest) normalize() {
	if r.ID == "" {
		r.ID = r.LegacyID
	}
	r.LegacyID = ""
	if r.SenderID == "" {
		r.SenderID = r.Sender.ID
	}
}

// Request decision strings accepted by the respond endpoint.
const (
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Match pairs the viewer with a compatible user, with scoring metadata.
type Match struct {
	ID              string   `json:"id"`
	LegacyID        string   `json:"_id,omitempty"`
	Users           []User   `json:"users"`
	MatchScore      float64  `json:"matchScore"`
	CommonInterests []string `json:"commonInterests"`
}

func (m *Match) normalize() {
	if m.ID == "" {
		m.ID = m.LegacyID
	}
	m.LegacyID = ""
	for i := range m.Users {
		m.Users[i].normalize()
	}
}

// Post is a feed entry.
type Post struct {
	ID            string    `json:"id"`
	LegacyID      string    `json:"_id,omitempty"`
	AuthorID      string    `json:"authorId"`
	Author        UserRef   `json:"author"`
	Content       string    `json:"content"`
	PostType      string    `json:"postType"`
	Privacy       string    `json:"privacy"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (p *Post) normalize() {
	if p.ID == "" {
		p.ID = p.LegacyID
	}
	p.LegacyID = ""
	if p.AuthorID == "" {
		p.AuthorID = p.Author.ID
	}
}

// Comment is a reply attached to a post.
type Comment struct {
	ID         string    `json:"id"`
	LegacyID   string    `json:"_id,omitempty"`
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	Author     UserRef   `json:"author"`
	Content    string    `json:"content"`
	LikesCount int       `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c *Comment) normalize() {
	if c.ID == "" {
		c.ID = c.LegacyID
	}
	c.LegacyID = ""
	if c.AuthorID == "" {
		c.AuthorID = c.Author.ID
	}
}

// Reaction is a like/love/etc on a post or comment.
type Reaction struct {
	ID           string    `json:"id"`
	LegacyID     string    `json:"_id,omitempty"`
	UserID       string    `json:"userId"`
	TargetID     string    `json:"targetId"`
	TargetType   string    `json:"targetType"`
	ReactionType string    `json:"reactionType"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r *Reaction) normalize() {
	if r.ID == "" {
		r.ID = r.LegacyID
	}
	r.LegacyID = ""
}
