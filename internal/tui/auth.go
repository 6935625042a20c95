package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/internal/session"
	"github.com/insurely/insurely/pkg/domain"
)

type loginResultMsg struct {
	gen  int
	role string // role picked on the form
	sess *session.Session
	err  error
}

type registerResultMsg struct {
	gen  int
	sess *session.Session
	err  error
}

// loginModel is the sign-in screen.
type loginModel struct {
	session *session.Manager
	gen     int
	form    formModel
}

func newLoginModel(s *session.Manager, gen int) loginModel {
	roles := []string{domain.RoleCustomer, domain.RoleAgent, domain.RoleAdmin}
	return loginModel{
		session: s,
		gen:     gen,
		form: newForm("Log in",
			formField{key: "email", label: "Email"},
			formField{key: "password", label: "Password", secret: true},
			formField{key: "role", label: "Role", picker: true, value: domain.RoleCustomer,
				choices: roles, labels: []string{"Customer", "Agent", "Admin"}},
		),
	}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, msgLoginFailed)
			return m, nil
		}
		m.form.submitting = false
		return m, navigateTo(nav.LandingFor(msg.role, msg.sess.User.Role))

	case tea.KeyMsg:
		if msg.String() == "ctrl+n" {
			return m, navigateTo(nav.PathRegister)
		}
		var action formAction
		m.form, action = m.form.update(msg)
		switch action {
		case formCancel:
			return m, navigateTo(nav.PathHome)
		case formSubmit:
			return m.submit()
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	f := forms.LoginForm{
		Email:    strings.TrimSpace(m.form.value("email")),
		Password: m.form.value("password"),
		Role:     m.form.value("role"),
	}
	if err := forms.Validate(f); err != nil {
		m.form.setError(err, msgLoginFailed)
		return m, nil
	}
	if m.session == nil {
		return m, nil
	}
	m.form.errs = nil
	m.form.status = ""
	m.form.submitting = true
	s, gen := m.session, m.gen
	return m, func() tea.Msg {
		sess, err := s.Login(context.Background(), f.Email, f.Password, f.Role)
		return loginResultMsg{gen: gen, role: f.Role, sess: sess, err: err}
	}
}

func (m loginModel) View() string {
	return "\n" + m.form.View()
}

func (m loginModel) help() string {
	return helpBar("tab", "next", "←/→", "role", "enter", "log in", "ctrl+n", "sign up", "esc", "home")
}

// registerModel is the customer sign-up screen.
type registerModel struct {
	session *session.Manager
	gen     int
	form    formModel
}

func newRegisterModel(s *session.Manager, gen int) registerModel {
	return registerModel{
		session: s,
		gen:     gen,
		form: newForm("Create an account",
			formField{key: "name", label: "Full name"},
			formField{key: "email", label: "Email"},
			formField{key: "password", label: "Password", secret: true},
			formField{key: "confirmPassword", label: "Confirm password", secret: true},
		),
	}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, msgRegisterFailed)
			return m, nil
		}
		m.form.submitting = false
		return m, navigateTo(nav.PathDashboard)

	case tea.KeyMsg:
		if msg.String() == "ctrl+l" {
			return m, navigateTo(nav.PathLogin)
		}
		var action formAction
		m.form, action = m.form.update(msg)
		switch action {
		case formCancel:
			return m, navigateTo(nav.PathHome)
		case formSubmit:
			return m.submit()
		}
	}
	return m, nil
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	f := forms.RegisterForm{
		Name:            strings.TrimSpace(m.form.value("name")),
		Email:           strings.TrimSpace(m.form.value("email")),
		Password:        m.form.value("password"),
		ConfirmPassword: m.form.value("confirmPassword"),
	}
	if err := forms.Validate(f); err != nil {
		m.form.setError(err, msgRegisterFailed)
		return m, nil
	}
	if m.session == nil {
		return m, nil
	}
	m.form.errs = nil
	m.form.status = ""
	m.form.submitting = true
	s, gen := m.session, m.gen
	return m, func() tea.Msg {
		sess, err := s.Signup(context.Background(), f.Name, f.Email, f.Password)
		return registerResultMsg{gen: gen, sess: sess, err: err}
	}
}

func (m registerModel) View() string {
	return "\n" + m.form.View()
}

func (m registerModel) help() string {
	return helpBar("tab", "next", "enter", "create account", "ctrl+l", "log in", "esc", "home")
}
