// Package tui is the terminal user interface: a tview application over the
// client's services, driven by bus events and key bindings.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/dvmonroy/amora/internal/app"
	"github.com/dvmonroy/amora/internal/bus"
	"github.com/dvmonroy/amora/internal/chat"
	"github.com/dvmonroy/amora/internal/contacts"
	"github.com/dvmonroy/amora/internal/status"
	"github.com/dvmonroy/amora/internal/tui/keys"
	"github.com/dvmonroy/amora/internal/tui/model"
	"github.com/dvmonroy/amora/internal/tui/views"
)

const flashDuration = 5 * time.Second

// App is the TUI shell: pages, views, bindings and the event loop glue.
type App struct {
	tv       *tview.Application
	pages    *tview.Pages
	vm       *model.ViewModel
	core     *app.App
	bus      *bus.Bus
	machine  *status.Machine
	registry *keys.Registry
	logger   *zap.Logger

	statusBar   *views.StatusBar
	login       *views.Login
	chatList    *views.ChatList
	contactList *views.ContactList
	thread      *views.Thread
	composer    *views.Composer
	requests    *views.Requests
	suggestions *views.Suggestions
	search      *tview.InputField
	homeFlex    *tview.Flex

	// peerName and searchQuery are only touched from the UI goroutine.
	peerName    string
	searchQuery string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp wires the TUI over the application controller.
func NewApp(core *app.App, b *bus.Bus, machine *status.Machine, profileName string, logger *zap.Logger) *App {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		tv:          tview.NewApplication(),
		pages:       tview.NewPages(),
		vm:          model.NewViewModel(core),
		core:        core,
		bus:         b,
		machine:     machine,
		registry:    keys.NewRegistry(),
		logger:      logger,
		statusBar:   views.NewStatusBar(),
		login:       views.NewLogin(),
		chatList:    views.NewChatList(),
		contactList: views.NewContactList(),
		thread:      views.NewThread(),
		composer:    views.NewComposer(),
		requests:    views.NewRequests(),
		suggestions: views.NewSuggestions(),
		search:      tview.NewInputField().SetLabel("/"),
		ctx:         ctx,
		cancel:      cancel,
	}

	a.statusBar.SetProfile(profileName)
	if s := core.Session(); s != nil {
		applyTheme(s.Theme)
	} else {
		applyTheme(ThemeDark)
	}
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()
	return a
}

func (a *App) setupBindings() {
	a.registry.Global("quit", &keys.Binding{
		Key: tcell.KeyRune, Rune: 'q',
		Hint:    "q:quit",
		Handler: func() { a.Stop() },
	})
	a.registry.Page("home", "requests", &keys.Binding{
		Key: tcell.KeyRune, Rune: 'r',
		Hint:    "r:requests",
		Handler: func() { a.showRequests() },
	})
	a.registry.Page("home", "contacts", &keys.Binding{
		Key:     tcell.KeyTab,
		Hint:    "tab:switch pane",
		Handler: func() { a.togglePane() },
	})
	a.registry.Page("home", "search", &keys.Binding{
		Key: tcell.KeyRune, Rune: '/',
		Hint:    "/:search",
		Handler: func() { a.showSearch() },
	})
	a.registry.Page("home", "theme", &keys.Binding{
		Key: tcell.KeyRune, Rune: 't',
		Hint:    "t:theme",
		Handler: func() { a.toggleTheme() },
	})
	a.registry.Page("home", "logout", &keys.Binding{
		Key: tcell.KeyRune, Rune: 'L',
		Hint:    "L:logout",
		Handler: func() { a.signOut() },
	})
	a.registry.Page("requests", "accept", &keys.Binding{
		Key: tcell.KeyRune, Rune: 'a',
		Hint:    "a:accept",
		Handler: func() { a.respondSelected(true) },
	})
	a.registry.Page("requests", "decline", &keys.Binding{
		Key: tcell.KeyRune, Rune: 'd',
		Hint:    "d:decline",
		Handler: func() { a.respondSelected(false) },
	})
	a.registry.Page("requests", "send", &keys.Binding{
		Key: tcell.KeyRune, Rune: 's',
		Hint:    "s:send request",
		Handler: func() { a.sendSelectedRequest() },
	})
	a.registry.Page("requests", "focus", &keys.Binding{
		Key:     tcell.KeyTab,
		Hint:    "tab:switch pane",
		Handler: func() { a.toggleRequestPane() },
	})
}

func (a *App) setupCallbacks() {
	a.login.SetOnSignIn(func(email, password string) {
		go func() {
			if err := a.core.SignIn(a.ctx, email, password); err != nil {
				a.flash("Sign in failed: " + err.Error())
				return
			}
			a.enterHome()
		}()
	})
	a.login.SetOnRegister(func(name, email, password string) {
		go func() {
			if err := a.core.Register(a.ctx, name, email, password); err != nil {
				a.flash("Registration failed: " + err.Error())
				return
			}
			a.enterHome()
		}()
	})

	a.chatList.SetSelectedFunc(func(row, col int) {
		if conv := a.chatList.Selected(); conv != nil {
			a.openConversation(chat.Target{ChatID: conv.ChatID}, conv.Other.DisplayName())
		}
	})
	a.contactList.SetSelectedFunc(func(row, col int) {
		if u := a.contactList.Selected(); u != nil {
			a.openConversation(chat.Target{PeerID: u.ID}, u.DisplayName())
		}
	})

	a.search.SetChangedFunc(func(text string) {
		a.searchQuery = text
		a.renderHomeLists()
	})
	a.search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			a.hideSearch()
			return
		}
		// Enter keeps the filter applied and moves focus to the results.
		a.tv.SetFocus(a.chatList)
	})

	a.composer.SetOnSend(func(text string) {
		go func() {
			if err := a.vm.Send(a.ctx, text); err != nil {
				// Keep the typed text so the user can retry.
				a.flash("Send failed: " + err.Error())
				return
			}
			a.tv.QueueUpdateDraw(func() {
				a.composer.SetText("")
				a.renderThread()
			})
		}()
	})
}

func (a *App) setupLayout() {
	a.homeFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.chatList, 0, 2, true).
		AddItem(a.contactList, 0, 1, false)

	chatFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.thread, 0, 1, false).
		AddItem(a.composer, 1, 0, true)

	requestsFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.requests, 0, 1, true).
		AddItem(a.suggestions, 0, 1, false)

	a.pages.AddPage("login", center(a.login, 50, 13), true, true)
	a.pages.AddPage("home", a.homeFlex, true, false)
	a.pages.AddPage("chat", chatFlex, true, false)
	a.pages.AddPage("requests", requestsFlex, true, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.tv.SetRoot(root, true)

	a.tv.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		page, _ := a.pages.GetFrontPage()

		if event.Key() == tcell.KeyEscape {
			switch page {
			case "chat":
				a.vm.CloseConversation()
				a.showHome()
				return nil
			case "requests":
				a.showHome()
				return nil
			}
		}

		// Text inputs receive all keys untouched.
		switch a.tv.GetFocus().(type) {
		case *tview.InputField, *tview.Form, *views.Composer, *views.Login:
			return event
		}

		if a.registry.Dispatch(page, event) {
			return nil
		}
		return event
	})
}

func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// Run starts the event loop. The starting page depends on whether a session
// was restored.
func (a *App) Run() error {
	go a.watchBus()

	if a.machine.Current() == status.Online {
		a.vm.LoadCached(a.ctx)
		a.enterHome()
	}
	a.statusBar.SetState(string(a.machine.Current()))

	return a.tv.Run()
}

// Stop tears down the event loop.
func (a *App) Stop() {
	a.cancel()
	a.tv.Stop()
}

func (a *App) enterHome() {
	go func() {
		if err := a.vm.LoadHome(a.ctx); err != nil {
			a.flash("Load failed: " + err.Error())
		}
		a.tv.QueueUpdateDraw(func() {
			a.showHome()
		})
	}()
}

func (a *App) showHome() {
	a.pages.SwitchToPage("home")
	a.statusBar.SetHints(a.registry.Hints("home"))
	a.tv.SetFocus(a.chatList)
	a.renderHomeLists()
}

// renderHomeLists fills both home panes, applying the search filter when one
// is typed. The conversation order is whatever the server sent.
func (a *App) renderHomeLists() {
	a.chatList.Update(contacts.FilterConversations(a.vm.Recent(), a.searchQuery))
	a.contactList.Update(contacts.FilterByName(a.vm.Fresh(), a.searchQuery))
}

func (a *App) showSearch() {
	if a.homeFlex.GetItemCount() == 3 {
		a.tv.SetFocus(a.search)
		return
	}
	a.homeFlex.Clear()
	a.homeFlex.
		AddItem(a.search, 1, 0, false).
		AddItem(a.chatList, 0, 2, true).
		AddItem(a.contactList, 0, 1, false)
	a.tv.SetFocus(a.search)
}

func (a *App) hideSearch() {
	a.search.SetText("")
	a.searchQuery = ""
	a.homeFlex.Clear()
	a.homeFlex.
		AddItem(a.chatList, 0, 2, true).
		AddItem(a.contactList, 0, 1, false)
	a.renderHomeLists()
	a.tv.SetFocus(a.chatList)
}

func (a *App) togglePane() {
	if a.tv.GetFocus() == a.chatList {
		a.tv.SetFocus(a.contactList)
	} else {
		a.tv.SetFocus(a.chatList)
	}
}

func (a *App) toggleRequestPane() {
	if a.tv.GetFocus() == a.requests {
		a.tv.SetFocus(a.suggestions)
	} else {
		a.tv.SetFocus(a.requests)
	}
}

func (a *App) openConversation(target chat.Target, peerName string) {
	go func() {
		opened, err := a.vm.OpenConversation(a.ctx, target)
		if err != nil {
			a.flash("Open failed: " + err.Error())
			return
		}
		name := opened.Other.DisplayName()
		if name == "User" {
			name = peerName
		}
		a.tv.QueueUpdateDraw(func() {
			a.peerName = name
			a.thread.SetPeerName(name)
			a.renderThread()
			a.pages.SwitchToPage("chat")
			a.statusBar.SetHints("esc:back  enter:send")
			a.tv.SetFocus(a.composer)
		})
	}()
}

func (a *App) renderThread() {
	a.thread.Update(a.vm.Messages(), a.vm.ViewerID(), a.peerName)
}

func (a *App) showRequests() {
	go func() {
		if err := a.vm.LoadRequests(a.ctx); err != nil {
			a.flash("Load failed: " + err.Error())
		}
		if err := a.vm.LoadSuggestions(a.ctx); err != nil {
			a.flash("Load failed: " + err.Error())
		}
		a.tv.QueueUpdateDraw(func() {
			a.requests.Update(a.vm.Pending())
			a.suggestions.Update(a.vm.Suggestions())
			a.pages.SwitchToPage("requests")
			a.statusBar.SetHints(a.registry.Hints("requests"))
			a.tv.SetFocus(a.requests)
		})
	}()
}

func (a *App) respondSelected(accept bool) {
	req := a.requests.Selected()
	if req == nil {
		return
	}
	id := req.ID
	go func() {
		var err error
		if accept {
			err = a.vm.Accept(a.ctx, id)
		} else {
			err = a.vm.Reject(a.ctx, id)
		}
		if err != nil {
			a.flash("Request failed: " + err.Error())
			return
		}
		a.tv.QueueUpdateDraw(func() {
			a.requests.Update(a.vm.Pending())
		})
	}()
}

func (a *App) sendSelectedRequest() {
	u := a.suggestions.Selected()
	if u == nil {
		return
	}
	id := u.ID
	go func() {
		if err := a.vm.SendRequest(a.ctx, id); err != nil {
			a.flash("Send failed: " + err.Error())
			return
		}
		a.flash("Request sent")
		a.tv.QueueUpdateDraw(func() {
			a.suggestions.Update(a.vm.Suggestions())
		})
	}()
}

func (a *App) toggleTheme() {
	s := a.core.Session()
	if s == nil {
		return
	}
	theme := nextTheme(s.Theme)
	applyTheme(theme)
	go func() {
		if err := a.core.SetTheme(a.ctx, theme); err != nil {
			a.flash("Theme save failed: " + err.Error())
		}
		a.tv.QueueUpdateDraw(func() {
			a.showHome()
		})
	}()
}

func (a *App) signOut() {
	go func() {
		if err := a.core.SignOut(); err != nil {
			a.flash("Logout failed: " + err.Error())
			return
		}
		a.tv.QueueUpdateDraw(func() {
			a.pages.SwitchToPage("login")
			a.statusBar.SetHints("")
			a.tv.SetFocus(a.login)
		})
	}()
}

// watchBus re-renders pages when domain events land and keeps the state
// segment of the status bar current.
func (a *App) watchBus() {
	events, unsub := a.bus.Subscribe(32, "chat.", "session.")
	defer unsub()

	for {
		select {
		case <-a.ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			switch evt.Kind {
			case bus.KindChatMessages:
				a.tv.QueueUpdateDraw(func() {
					if page, _ := a.pages.GetFrontPage(); page == "chat" {
						a.renderThread()
					}
				})
			case bus.KindStatusChanged:
				if change, ok := evt.Payload.(status.Change); ok {
					a.tv.QueueUpdateDraw(func() {
						a.statusBar.SetState(string(change.To))
					})
				}
			}
		}
	}
}

func (a *App) flash(msg string) {
	a.logger.Info("flash", zap.String("message", msg))
	a.vm.Flash.Set(msg, flashDuration)
	a.tv.QueueUpdateDraw(func() {
		a.statusBar.SetFlash(a.vm.Flash.Get())
	})
}
