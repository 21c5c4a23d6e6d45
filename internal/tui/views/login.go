package views

import (
	"github.com/rivo/tview"
)

// Login is the sign-in / registration form shown while signed out.
type Login struct {
	*tview.Form
	registering bool
	onSignIn    func(email, password string)
	onRegister  func(name, email, password string)
}

// NewLogin creates the login form in sign-in mode.
func NewLogin() *Login {
	l := &Login{Form: tview.NewForm()}
	l.Form.SetBorder(true)
	l.buildSignIn()
	return l
}

// SetOnSignIn sets the sign-in submit callback.
func (l *Login) SetOnSignIn(fn func(email, password string)) {
	l.onSignIn = fn
}

// SetOnRegister sets the registration submit callback.
func (l *Login) SetOnRegister(fn func(name, email, password string)) {
	l.onRegister = fn
}

func (l *Login) buildSignIn() {
	l.registering = false
	l.Clear(true)
	l.SetTitle(" Sign in ")
	l.AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddButton("Sign in", func() {
			if l.onSignIn != nil {
				l.onSignIn(l.fieldText("Email"), l.fieldText("Password"))
			}
		}).
		AddButton("Create account", func() { l.buildRegister() })
}

func (l *Login) buildRegister() {
	l.registering = true
	l.Clear(true)
	l.SetTitle(" Create account ")
	l.AddInputField("Name", "", 40, nil, nil).
		AddInputField("Email", "", 40, nil, nil).
		AddPasswordField("Password", "", 40, '*', nil).
		AddButton("Register", func() {
			if l.onRegister != nil {
				l.onRegister(l.fieldText("Name"), l.fieldText("Email"), l.fieldText("Password"))
			}
		}).
		AddButton("Back", func() { l.buildSignIn() })
}

func (l *Login) fieldText(label string) string {
	item := l.GetFormItemByLabel(label)
	if field, ok := item.(*tview.InputField); ok {
		return field.GetText()
	}
	return ""
}
