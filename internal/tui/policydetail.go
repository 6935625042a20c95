package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/internal/nav"
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

type productLoadedMsg struct {
	gen     int
	product *domain.PolicyProduct
	err     error
}

type purchaseResultMsg struct {
	gen    int
	policy *domain.UserPolicy
	err    error
}

// policyDetailModel shows one product and the purchase form for it.
type policyDetailModel struct {
	client  *client.Client
	gen     int
	id      string
	product *domain.PolicyProduct
	loading bool
	err     string
	form    formModel
	now     func() time.Time
}

func newPolicyDetailModel(c *client.Client, gen int, id string) policyDetailModel {
	return policyDetailModel{client: c, gen: gen, id: id, loading: c != nil, now: time.Now}
}

func (m policyDetailModel) Init() tea.Cmd {
	c, gen, id := m.client, m.gen, m.id
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := c.GetPolicyProduct(context.Background(), id)
		return productLoadedMsg{gen: gen, product: p, err: err}
	}
}

func (m policyDetailModel) purchaseForm(p *domain.PolicyProduct) formModel {
	term := p.TermMonths
	if term <= 0 {
		term = 12
	}
	return newForm("Purchase",
		formField{key: "startDate", label: "Start date", kind: inputDate, value: m.now().Format(forms.DateLayout)},
		formField{key: "termMonths", label: "Term (months)", kind: inputNumber, value: strconv.Itoa(term)},
		formField{key: "nomineeName", label: "Nominee name"},
		formField{key: "nomineeRelation", label: "Nominee relation"},
	)
}

func (m policyDetailModel) Update(msg tea.Msg) (policyDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = userMessage(msg.err, msgLoadPolicy)
			return m, nil
		}
		m.product = msg.product
		m.form = m.purchaseForm(msg.product)

	case purchaseResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, msgPurchaseFailed)
			return m, nil
		}
		m.form.submitting = false
		return m, navigateTo(nav.PathDashboard)

	case tea.KeyMsg:
		if m.product == nil {
			if msg.String() == "esc" {
				return m, navigateTo(nav.PathPolicies)
			}
			return m, nil
		}
		var action formAction
		m.form, action = m.form.update(msg)
		switch action {
		case formCancel:
			return m, navigateTo(nav.PathPolicies)
		case formSubmit:
			return m.submit()
		}
	}
	return m, nil
}

func (m policyDetailModel) submit() (policyDetailModel, tea.Cmd) {
	term, _ := strconv.Atoi(strings.TrimSpace(m.form.value("termMonths")))
	f := forms.PurchaseForm{
		StartDate:       strings.TrimSpace(m.form.value("startDate")),
		TermMonths:      term,
		NomineeName:     strings.TrimSpace(m.form.value("nomineeName")),
		NomineeRelation: strings.TrimSpace(m.form.value("nomineeRelation")),
	}
	if err := forms.Validate(f); err != nil {
		m.form.setError(err, msgPurchaseFailed)
		return m, nil
	}
	if m.client == nil {
		return m, nil
	}
	m.form.errs = nil
	m.form.status = ""
	m.form.submitting = true
	c, gen, id := m.client, m.gen, m.product.ID
	return m, func() tea.Msg {
		up, err := c.PurchasePolicy(context.Background(), id, f.Request())
		return purchaseResultMsg{gen: gen, policy: up, err: err}
	}
}

func (m policyDetailModel) View() string {
	var b strings.Builder
	switch {
	case m.loading:
		return "\n  " + dimStyle.Render("loading...")
	case m.err != "":
		return "\n  " + errorStyle.Render(m.err)
	case m.product == nil:
		return "\n  " + dimStyle.Render("policy not found")
	}
	p := m.product
	fmt.Fprintf(&b, "\n  %s  %s\n", titleStyle.Render(p.Title), metaStyle.Render(p.Code))
	if p.Description != "" {
		fmt.Fprintf(&b, "  %s\n", normalStyle.Render(oneLine(p.Description)))
	}
	fmt.Fprintf(&b, "\n  %s %s   %s %s",
		metaStyle.Render("Premium"), moneyStyle.Render(formatMoney(p.Premium)),
		metaStyle.Render("Term"), selectedStyle.Render(fmt.Sprintf("%d months", p.TermMonths)))
	if p.MinSumInsured > 0 {
		fmt.Fprintf(&b, "   %s %s", metaStyle.Render("Min cover"), selectedStyle.Render(formatMoney(p.MinSumInsured)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.form.View())
	return b.String()
}

func (m policyDetailModel) help() string {
	if m.product == nil {
		return helpBar("esc", "back")
	}
	return helpBar("tab", "next", "ctrl+s", "buy", "esc", "back")
}
