package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

type productsLoadedMsg struct {
	gen      int
	products []domain.PolicyProduct
	err      error
}

type productDeletedMsg struct {
	gen int
	id  string
	err error
}

type productCreatedMsg struct {
	gen     int
	product *domain.PolicyProduct
	err     error
}

// policiesModel is the product catalog. Admins can add and remove products.
type policiesModel struct {
	client   *client.Client
	gen      int
	admin    bool
	products []domain.PolicyProduct
	cursor   int
	loading  bool
	err      string
	status   string
	formOpen bool
	form     formModel
	width    int
	height   int
}

func newPoliciesModel(c *client.Client, gen int, identity *domain.User) policiesModel {
	return policiesModel{
		client:  c,
		gen:     gen,
		admin:   identity.HasRole(domain.RoleAdmin),
		loading: c != nil,
	}
}

func (m policiesModel) Init() tea.Cmd {
	c, gen := m.client, m.gen
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		products, err := c.ListPolicyProducts(context.Background())
		return productsLoadedMsg{gen: gen, products: products, err: err}
	}
}

func newProductForm() formModel {
	return newForm("New policy product",
		formField{key: "code", label: "Code"},
		formField{key: "title", label: "Title"},
		formField{key: "description", label: "Description"},
		formField{key: "premium", label: "Premium", kind: inputAmount},
		formField{key: "termMonths", label: "Term (months)", kind: inputNumber, value: "12"},
	)
}

func (m policiesModel) Update(msg tea.Msg) (policiesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = userMessage(msg.err, msgLoadPolicies)
			return m, nil
		}
		m.err = ""
		m.products = msg.products
		m.cursor = moveCursor(m.cursor, 0, len(m.products))

	case productDeletedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.status = userMessage(msg.err, msgDeleteFailed)
			return m, nil
		}
		m.status = "deleted " + shortID(msg.id)
		return m, m.Init()

	case productCreatedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, "Failed to create policy product.")
			return m, nil
		}
		m.formOpen = false
		m.status = "created " + msg.product.Title
		return m, m.Init()

	case copyResultMsg:
		if msg.gen == m.gen {
			m.status = copyStatus(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if m.formOpen {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m policiesModel) handleKey(msg tea.KeyMsg) (policiesModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.cursor = moveCursor(m.cursor, 1, len(m.products))
	case "k", "up":
		m.cursor = moveCursor(m.cursor, -1, len(m.products))
	case "enter":
		if p, ok := m.selected(); ok {
			return m, navigateTo(nav.Build(nav.PathPolicyDetail, nav.Params{"id": p.ID}))
		}
	case "c":
		if p, ok := m.selected(); ok {
			return m, copyCmd(m.gen, p.ID)
		}
	case "n":
		if m.admin {
			m.formOpen = true
			m.form = newProductForm()
		}
	case "d":
		p, ok := m.selected()
		if !m.admin || !ok || m.client == nil {
			return m, nil
		}
		c, gen := m.client, m.gen
		m.status = "deleting " + p.Title + "..."
		return m, func() tea.Msg {
			_, err := c.DeletePolicyProduct(context.Background(), p.ID)
			return productDeletedMsg{gen: gen, id: p.ID, err: err}
		}
	}
	return m, nil
}

func (m policiesModel) updateForm(msg tea.KeyMsg) (policiesModel, tea.Cmd) {
	var action formAction
	m.form, action = m.form.update(msg)
	switch action {
	case formCancel:
		m.formOpen = false
	case formSubmit:
		premium, _ := strconv.ParseFloat(strings.TrimSpace(m.form.value("premium")), 64)
		term, _ := strconv.Atoi(strings.TrimSpace(m.form.value("termMonths")))
		f := forms.ProductForm{
			Code:        strings.TrimSpace(m.form.value("code")),
			Title:       strings.TrimSpace(m.form.value("title")),
			Description: strings.TrimSpace(m.form.value("description")),
			Premium:     premium,
			TermMonths:  term,
		}
		if err := forms.Validate(f); err != nil {
			m.form.setError(err, "")
			return m, nil
		}
		if m.client == nil {
			return m, nil
		}
		m.form.submitting = true
		c, gen := m.client, m.gen
		return m, func() tea.Msg {
			p, err := c.CreatePolicyProduct(context.Background(), f.Product())
			return productCreatedMsg{gen: gen, product: p, err: err}
		}
	}
	return m, nil
}

func (m policiesModel) selected() (domain.PolicyProduct, bool) {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return domain.PolicyProduct{}, false
	}
	return m.products[m.cursor], true
}

func (m policiesModel) View() string {
	if m.formOpen {
		return "\n" + m.form.View()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("Policy catalog"))
	switch {
	case m.loading:
		b.WriteString("  " + dimStyle.Render("loading..."))
		return b.String()
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err))
		return b.String()
	case len(m.products) == 0:
		b.WriteString("  " + dimStyle.Render("no policy products available"))
		return b.String()
	}

	rows := make([]string, len(m.products))
	for i, p := range m.products {
		rows[i] = fmt.Sprintf(" %s  %s  %s  %s",
			metaStyle.Render(fmt.Sprintf("%-8s", truncStr(p.Code, 8))),
			selectedStyle.Render(fmt.Sprintf("%-28s", truncStr(p.Title, 28))),
			moneyStyle.Render(fmt.Sprintf("%10s", formatMoney(p.Premium))),
			dimStyle.Render(fmt.Sprintf("%d months", p.TermMonths)))
	}
	b.WriteString(renderList(rows, m.cursor, m.height-6))

	if p, ok := m.selected(); ok && p.Description != "" {
		b.WriteString("\n  " + normalStyle.Render(truncStr(oneLine(p.Description), max(m.width-4, 20))) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n  " + noticeStyle.Render(m.status))
	}
	return b.String()
}

func (m policiesModel) help() string {
	if m.formOpen {
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
	}
	if m.admin {
		return helpBar("j/k", "move", "enter", "details", "n", "new", "d", "delete", "c", "copy ID", "?", "help")
	}
	return helpBar("j/k", "move", "enter", "details", "c", "copy ID", "?", "help")
}
