package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/api"
	"github.com/dvmonroy/amora/internal/auth"
	"github.com/dvmonroy/amora/internal/bus"
	"github.com/dvmonroy/amora/internal/chat"
	"github.com/dvmonroy/amora/internal/config"
	"github.com/dvmonroy/amora/internal/contacts"
	"github.com/dvmonroy/amora/internal/friends"
	"github.com/dvmonroy/amora/internal/logging"
	"github.com/dvmonroy/amora/internal/profile"
)

// cli bundles what every command needs.
type cli struct {
	cfg      *config.Config
	client   *api.Client
	sessions *auth.Store
	logger   *zap.Logger
	bus      *bus.Bus
	jsonOut  bool
}

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	flag.Parse()

	_ = godotenv.Load()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fatal(err)
	}
	if err := profile.EnsureDir(profileName); err != nil {
		fatal(err)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	logger, err := logging.NewFileOnly(profile.LogPath(profileName), profileName)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Resolve(profile.ConfigPath())
	c := &cli{
		cfg:      cfg,
		client:   api.New(cfg.ServerURL, cfg.RequestTimeout(), logger),
		sessions: auth.NewStore(profile.SessionPath(profileName)),
		logger:   logger,
		bus:      bus.New(),
		jsonOut:  *jsonFlag,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		c.cmdLogin(ctx, args[1:])
	case "register":
		c.cmdRegister(ctx, args[1:])
	case "logout":
		c.cmdLogout()
	case "whoami":
		c.cmdWhoami()
	case "chats":
		c.cmdChats(ctx, strings.Join(args[1:], " "))
	case "messages":
		c.requireArgs(args, 2, "messages <chat-id>")
		c.cmdMessages(ctx, args[1])
	case "send":
		c.requireArgs(args, 3, "send <chat-id|user:ID> <text>")
		c.cmdSend(ctx, args[1], strings.Join(args[2:], " "))
	case "contacts":
		c.cmdContacts(ctx, strings.Join(args[1:], " "))
	case "requests":
		c.cmdRequests(ctx)
	case "accept":
		c.requireArgs(args, 2, "accept <request-id>")
		c.cmdRespond(ctx, args[1], api.RequestAccepted)
	case "reject":
		c.requireArgs(args, 2, "reject <request-id>")
		c.cmdRespond(ctx, args[1], api.RequestRejected)
	case "request":
		c.requireArgs(args, 2, "request <user-id>")
		c.cmdSendRequest(ctx, args[1])
	case "suggestions":
		c.cmdSuggestions(ctx)
	case "matches":
		c.cmdMatches(ctx, args[1:])
	case "feed":
		c.cmdFeed(ctx)
	case "posts":
		c.requireArgs(args, 2, "posts <user-id>")
		c.cmdPosts(ctx, args[1])
	case "post":
		c.requireArgs(args, 2, "post <text>")
		c.cmdPost(ctx, strings.Join(args[1:], " "))
	case "comments":
		c.requireArgs(args, 2, "comments <post-id>")
		c.cmdComments(ctx, args[1])
	case "comment":
		c.requireArgs(args, 3, "comment <post-id> <text>")
		c.cmdComment(ctx, args[1], strings.Join(args[2:], " "))
	case "like":
		c.requireArgs(args, 2, "like <post-id>")
		c.cmdLike(ctx, args[1])
	case "unlike":
		c.requireArgs(args, 2, "unlike <post-id>")
		c.cmdUnlike(ctx, args[1])
	case "theme":
		c.requireArgs(args, 2, "theme <light|dark>")
		c.cmdTheme(ctx, args[1])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: amora [--profile <name>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login -email <e> -password <p>   Sign in and persist the session")
	fmt.Fprintln(os.Stderr, "  register -name <n> -email <e> -password <p>")
	fmt.Fprintln(os.Stderr, "  logout                           Drop the persisted session")
	fmt.Fprintln(os.Stderr, "  whoami                           Show the signed-in identity")
	fmt.Fprintln(os.Stderr, "  chats [query]                    List recent conversations, filtered by name")
	fmt.Fprintln(os.Stderr, "  messages <chat-id>               Show a conversation's messages")
	fmt.Fprintln(os.Stderr, "  send <chat-id|user:ID> <text>    Send a message")
	fmt.Fprintln(os.Stderr, "  contacts [query]                 List friends and matches, filtered by name")
	fmt.Fprintln(os.Stderr, "  requests                         List pending friend requests")
	fmt.Fprintln(os.Stderr, "  accept <request-id>              Accept a friend request")
	fmt.Fprintln(os.Stderr, "  reject <request-id>              Reject a friend request")
	fmt.Fprintln(os.Stderr, "  request <user-id>                Send a friend request")
	fmt.Fprintln(os.Stderr, "  suggestions                      List suggested connections")
	fmt.Fprintln(os.Stderr, "  matches [pending]                List matches")
	fmt.Fprintln(os.Stderr, "  feed                             Show the feed")
	fmt.Fprintln(os.Stderr, "  posts <user-id>                  List a user's posts")
	fmt.Fprintln(os.Stderr, "  post <text>                      Publish a post")
	fmt.Fprintln(os.Stderr, "  comments <post-id>               List a post's comments")
	fmt.Fprintln(os.Stderr, "  comment <post-id> <text>         Comment on a post")
	fmt.Fprintln(os.Stderr, "  like <post-id>                   Like a post")
	fmt.Fprintln(os.Stderr, "  unlike <post-id>                 Remove a like")
	fmt.Fprintln(os.Stderr, "  theme <light|dark>               Set the theme preference")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func (c *cli) requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Fprintf(os.Stderr, "usage: amora %s\n", usage)
		os.Exit(1)
	}
}

// requireSession loads the persisted session and installs its token.
func (c *cli) requireSession() *auth.Session {
	s, err := c.sessions.Load()
	if err != nil {
		fatal(fmt.Errorf("not signed in, run: amora login"))
	}
	if !s.TokenValid(time.Now()) {
		fatal(fmt.Errorf("session expired, run: amora login"))
	}
	c.client.SetToken(s.Token)
	return s
}

func (c *cli) output(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (c *cli) cmdLogin(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", os.Getenv("AMORA_EMAIL"), "account email")
	password := fs.String("password", os.Getenv("AMORA_PASSWORD"), "account password")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		fatal(fmt.Errorf("email and password required"))
	}

	res, err := c.client.Auth.Login(ctx, *email, *password)
	if err != nil {
		fatal(err)
	}
	s := &auth.Session{
		UserID: res.User.ID,
		Name:   res.User.DisplayName(),
		Email:  res.User.Email,
		Token:  res.Token,
		Theme:  res.User.ThemePreference,
	}
	if err := c.sessions.Save(s); err != nil {
		fatal(err)
	}
	fmt.Printf("signed in as %s (%s)\n", s.Name, s.UserID)
}

func (c *cli) cmdRegister(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)
	if *name == "" || *email == "" || *password == "" {
		fatal(fmt.Errorf("name, email and password required"))
	}

	if err := c.client.Auth.Register(ctx, *name, *email, *password); err != nil {
		fatal(err)
	}
	c.cmdLogin(ctx, []string{"-email", *email, "-password", *password})
}

func (c *cli) cmdLogout() {
	if err := c.sessions.Clear(); err != nil {
		fatal(err)
	}
	fmt.Println("signed out")
}

func (c *cli) cmdWhoami() {
	s := c.requireSession()
	if c.jsonOut {
		c.output(s)
		return
	}
	fmt.Printf("User:  %s\n", s.Name)
	fmt.Printf("ID:    %s\n", s.UserID)
	fmt.Printf("Email: %s\n", s.Email)
}

func (c *cli) cmdChats(ctx context.Context, query string) {
	s := c.requireSession()
	people := contacts.NewService(c.client.User, c.client.Chat, nil, c.logger)
	recent, _, err := people.Refresh(ctx, s.UserID)
	if err != nil {
		fatal(err)
	}
	recent = contacts.FilterConversations(recent, query)
	if c.jsonOut {
		c.output(recent)
		return
	}
	for _, r := range recent {
		marker := " "
		if r.Unread > 0 {
			marker = "*"
		}
		fmt.Printf("%s %-24s  %-40s  %s  %s\n",
			marker, r.Other.DisplayName(), truncate(r.LastMessage, 40),
			r.LastAt.Format("01/02 15:04"), r.ChatID)
	}
}

func (c *cli) cmdMessages(ctx context.Context, chatID string) {
	s := c.requireSession()
	ses := chat.NewSession(c.client.Chat, c.bus, nil, c.logger, s.UserID, c.cfg.PollInterval())
	defer ses.Close()

	opened, err := ses.Open(ctx, chat.Target{ChatID: chatID})
	if err != nil {
		fatal(err)
	}
	if c.jsonOut {
		c.output(opened.Messages)
		return
	}
	for _, m := range opened.Messages {
		sender := opened.Other.DisplayName()
		if m.SenderID == s.UserID {
			sender = "You"
		}
		fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("01/02 15:04"), sender, m.Content)
	}
}

func (c *cli) cmdSend(ctx context.Context, target, text string) {
	s := c.requireSession()
	ses := chat.NewSession(c.client.Chat, c.bus, nil, c.logger, s.UserID, c.cfg.PollInterval())
	defer ses.Close()

	t := chat.Target{ChatID: target}
	if peer, ok := strings.CutPrefix(target, "user:"); ok {
		t = chat.Target{PeerID: peer}
	}
	if _, err := ses.Open(ctx, t); err != nil {
		fatal(err)
	}
	msg, err := ses.Send(ctx, text)
	if err != nil {
		fatal(err)
	}
	if msg == nil {
		fatal(fmt.Errorf("nothing to send"))
	}
	fmt.Printf("sent %s\n", msg.ID)
}

func (c *cli) cmdContacts(ctx context.Context, query string) {
	s := c.requireSession()
	people := contacts.NewService(c.client.User, c.client.Chat, nil, c.logger)
	all, err := people.Contacts(ctx, s.UserID)
	if err != nil {
		fatal(err)
	}
	all = contacts.FilterByName(all, query)
	if c.jsonOut {
		c.output(all)
		return
	}
	for _, u := range all {
		fmt.Printf("%-24s  %s\n", u.DisplayName(), u.ID)
	}
}

func (c *cli) cmdRequests(ctx context.Context) {
	s := c.requireSession()
	inbox := friends.NewInbox(c.client.User, c.bus, c.logger, s.UserID)
	if err := inbox.Refresh(ctx); err != nil {
		fatal(err)
	}
	pending := inbox.Pending()
	if c.jsonOut {
		c.output(pending)
		return
	}
	if len(pending) == 0 {
		fmt.Println("no pending requests")
		return
	}
	for _, r := range pending {
		fmt.Printf("%-24s  %s  %s\n", r.Sender.DisplayName(), r.CreatedAt.Format("01/02"), r.ID)
	}
}

func (c *cli) cmdRespond(ctx context.Context, requestID, decision string) {
	s := c.requireSession()
	inbox := friends.NewInbox(c.client.User, c.bus, c.logger, s.UserID)
	if err := inbox.Refresh(ctx); err != nil {
		fatal(err)
	}
	var err error
	if decision == api.RequestAccepted {
		err = inbox.Accept(ctx, requestID)
	} else {
		err = inbox.Reject(ctx, requestID)
	}
	if err != nil {
		fatal(err)
	}
	fmt.Printf("request %s %s\n", requestID, decision)
}

func (c *cli) cmdSendRequest(ctx context.Context, userID string) {
	s := c.requireSession()
	deck := friends.NewDeck(c.client.User, c.bus, c.logger, s.UserID)
	if err := deck.Send(ctx, userID); err != nil {
		fatal(err)
	}
	fmt.Printf("request sent to %s\n", userID)
}

func (c *cli) cmdSuggestions(ctx context.Context) {
	s := c.requireSession()
	users, err := c.client.User.Suggestions(ctx, s.UserID)
	if err != nil {
		fatal(err)
	}
	if c.jsonOut {
		c.output(users)
		return
	}
	for _, u := range users {
		fmt.Printf("%-24s  %-40s  %s\n", u.DisplayName(), truncate(strings.Join(u.Interests, ", "), 40), u.ID)
	}
}

func (c *cli) cmdMatches(ctx context.Context, args []string) {
	s := c.requireSession()

	if len(args) > 0 && args[0] == "pending" {
		matches, err := c.client.User.PendingMatches(ctx, s.UserID)
		if err != nil {
			fatal(err)
		}
		if c.jsonOut {
			c.output(matches)
			return
		}
		for _, m := range matches {
			var other string
			for _, u := range m.Users {
				if u.ID != s.UserID {
					other = u.DisplayName()
					break
				}
			}
			fmt.Printf("%-24s  score %.0f  %s\n", other, m.MatchScore, strings.Join(m.CommonInterests, ", "))
		}
		return
	}

	users, err := c.client.User.Matches(ctx, s.UserID)
	if err != nil {
		fatal(err)
	}
	if c.jsonOut {
		c.output(users)
		return
	}
	for _, u := range users {
		fmt.Printf("%-24s  %s\n", u.DisplayName(), u.ID)
	}
}

func (c *cli) cmdFeed(ctx context.Context) {
	c.requireSession()
	posts, err := c.client.Post.Feed(ctx)
	if err != nil {
		fatal(err)
	}
	if c.jsonOut {
		c.output(posts)
		return
	}
	for _, p := range posts {
		fmt.Printf("[%s] %s (%d likes, %d comments)\n%s\n\n",
			p.CreatedAt.Format("01/02 15:04"), p.Author.DisplayName(),
			p.LikesCount, p.CommentsCount, p.Content)
	}
}

func (c *cli) cmdPosts(ctx context.Context, userID string) {
	c.requireSession()
	posts, err := c.client.Post.ByUser(ctx, userID)
	if err != nil {
		fatal(err)
	}
	if c.jsonOut {
		c.output(posts)
		return
	}
	for _, p := range posts {
		fmt.Printf("[%s] %s (%d likes, %d comments)\n%s\n\n",
			p.CreatedAt.Format("01/02 15:04"), p.Author.DisplayName(),
			p.LikesCount, p.CommentsCount, p.Content)
	}
}

func (c *cli) cmdPost(ctx context.Context, text string) {
	s := c.requireSession()
	post, err := c.client.Post.Create(ctx, s.UserID, text, "text", "public")
	if err != nil {
		fatal(err)
	}
	fmt.Printf("posted %s\n", post.ID)
}

func (c *cli) cmdComments(ctx context.Context, postID string) {
	c.requireSession()
	comments, err := c.client.Post.Comments(ctx, postID)
	if err != nil {
		fatal(err)
	}
	if c.jsonOut {
		c.output(comments)
		return
	}
	for _, cm := range comments {
		fmt.Printf("[%s] %s: %s\n", cm.CreatedAt.Format("01/02 15:04"), cm.Author.DisplayName(), cm.Content)
	}
}

func (c *cli) cmdComment(ctx context.Context, postID, text string) {
	s := c.requireSession()
	cm, err := c.client.Post.AddComment(ctx, postID, s.UserID, text)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("comment %s added\n", cm.ID)
}

func (c *cli) cmdLike(ctx context.Context, postID string) {
	s := c.requireSession()
	liked, err := c.client.Post.HasReacted(ctx, postID, s.UserID)
	if err != nil {
		fatal(err)
	}
	if liked {
		fmt.Println("already liked")
		return
	}
	if _, err := c.client.Post.React(ctx, postID, s.UserID, "post", "like"); err != nil {
		fatal(err)
	}
	fmt.Println("liked")
}

func (c *cli) cmdUnlike(ctx context.Context, postID string) {
	s := c.requireSession()
	if err := c.client.Post.Unreact(ctx, postID, s.UserID); err != nil {
		fatal(err)
	}
	fmt.Println("unliked")
}

func (c *cli) cmdTheme(ctx context.Context, theme string) {
	s := c.requireSession()
	if _, err := c.client.User.Update(ctx, s.UserID, map[string]any{"themePreference": theme}); err != nil {
		fatal(err)
	}
	s.Theme = theme
	if err := c.sessions.Save(s); err != nil {
		fatal(err)
	}
	fmt.Printf("theme set to %s\n", theme)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
