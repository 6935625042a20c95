package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/insurely/insurely/internal/forms"
	"github.com/insurely/insurely/pkg/client"
	"github.com/insurely/insurely/pkg/domain"
)

var paymentMethods = []string{domain.DefaultPaymentMethod, "CARD", "UPI", "NETBANKING"}

type paymentsLoadedMsg struct {
	gen      int
	payments []domain.Payment
	err      error
}

type paymentPoliciesMsg struct {
	gen      int
	policies []domain.UserPolicy
	err      error
}

type paymentRecordedMsg struct {
	gen     int
	payment *domain.Payment
	err     error
}

// newPaymentReference returns a fresh reference for the payment form.
func newPaymentReference() string {
	return "PAY-" + strings.ToUpper(uuid.NewString()[:8])
}

// paymentsModel lists the customer's payments and records new ones.
type paymentsModel struct {
	client   *client.Client
	gen      int
	payments []domain.Payment
	policies []domain.UserPolicy
	cursor   int
	loading  bool
	err      string
	status   string
	formOpen bool
	form     formModel
	width    int
	height   int
}

func newPaymentsModel(c *client.Client, gen int) paymentsModel {
	return paymentsModel{client: c, gen: gen, loading: c != nil}
}

func (m paymentsModel) Init() tea.Cmd {
	c, gen := m.client, m.gen
	if c == nil {
		return nil
	}
	return tea.Batch(
		func() tea.Msg {
			payments, err := c.ListMyPayments(context.Background())
			return paymentsLoadedMsg{gen: gen, payments: payments, err: err}
		},
		func() tea.Msg {
			policies, err := c.ListMyPolicies(context.Background())
			return paymentPoliciesMsg{gen: gen, policies: policies, err: err}
		},
	)
}

func (m paymentsModel) newPaymentForm() formModel {
	f := newForm("Record a payment",
		formField{key: "policyId", label: "Policy", picker: true},
		formField{key: "amount", label: "Amount", kind: inputAmount},
		formField{key: "method", label: "Method", picker: true, value: domain.DefaultPaymentMethod,
			choices: paymentMethods, labels: paymentMethods},
		formField{key: "reference", label: "Reference", value: newPaymentReference()},
	)
	ids, labels := activePolicyChoices(m.policies)
	f.setChoices("policyId", ids, labels)
	if len(ids) > 0 {
		f.set("amount", strconv.FormatFloat(m.policies[indexOfPolicy(m.policies, ids[0])].PolicyProduct.Premium, 'f', 2, 64))
	}
	return f
}

func indexOfPolicy(policies []domain.UserPolicy, id string) int {
	for i, p := range policies {
		if p.ID == id {
			return i
		}
	}
	return 0
}

func (m paymentsModel) Update(msg tea.Msg) (paymentsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case paymentsLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = userMessage(msg.err, msgLoadPayments)
			return m, nil
		}
		m.err = ""
		m.payments = msg.payments
		m.cursor = moveCursor(m.cursor, 0, len(m.payments))

	case paymentPoliciesMsg:
		if msg.gen != m.gen || msg.err != nil {
			return m, nil
		}
		m.policies = msg.policies
		if m.formOpen {
			ids, labels := activePolicyChoices(m.policies)
			m.form.setChoices("policyId", ids, labels)
		}

	case paymentRecordedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.form.setError(msg.err, msgRecordPayment)
			return m, nil
		}
		m.formOpen = false
		m.payments = append([]domain.Payment{*msg.payment}, m.payments...)
		m.cursor = 0
		m.status = "payment recorded"

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
		switch msg.String() {
		case "j", "down":
			m.cursor = moveCursor(m.cursor, 1, len(m.payments))
		case "k", "up":
			m.cursor = moveCursor(m.cursor, -1, len(m.payments))
		case "n":
			m.formOpen = true
			m.form = m.newPaymentForm()
			m.status = ""
		case "c":
			if m.cursor < len(m.payments) {
				return m, copyCmd(m.gen, m.payments[m.cursor].Reference)
			}
		}
	}
	return m, nil
}

func (m paymentsModel) updateForm(msg tea.KeyMsg) (paymentsModel, tea.Cmd) {
	var action formAction
	m.form, action = m.form.update(msg)
	switch action {
	case formCancel:
		m.formOpen = false
	case formSubmit:
		amount, _ := strconv.ParseFloat(strings.TrimSpace(m.form.value("amount")), 64)
		f := forms.PaymentForm{
			PolicyID:  m.form.value("policyId"),
			Amount:    amount,
			Method:    m.form.value("method"),
			Reference: strings.TrimSpace(m.form.value("reference")),
		}
		if err := forms.Validate(f); err != nil {
			m.form.setError(err, msgRecordPayment)
			return m, nil
		}
		if m.client == nil {
			return m, nil
		}
		m.form.errs = nil
		m.form.status = ""
		m.form.submitting = true
		c, gen := m.client, m.gen
		return m, func() tea.Msg {
			p, err := c.RecordPayment(context.Background(), f.Request())
			return paymentRecordedMsg{gen: gen, payment: p, err: err}
		}
	}
	return m, nil
}

func (m paymentsModel) View() string {
	if m.formOpen {
		return "\n" + m.form.View()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n", titleStyle.Render("Payments"))
	switch {
	case m.loading:
		return b.String() + "  " + dimStyle.Render("loading...")
	case m.err != "":
		return b.String() + "  " + errorStyle.Render(m.err)
	}

	fmt.Fprintf(&b, "  %s %s   %s %s   %s %s\n\n",
		metaStyle.Render("Payments"), selectedStyle.Render(strconv.Itoa(len(m.payments))),
		metaStyle.Render("Total"), moneyStyle.Render(formatMoney(domain.TotalAmount(m.payments))),
		metaStyle.Render("Average"), moneyStyle.Render(formatMoney(domain.AverageAmount(m.payments))))

	if len(m.payments) == 0 {
		b.WriteString("  " + dimStyle.Render("no payments yet, press n to record one") + "\n")
	} else {
		rows := make([]string, len(m.payments))
		for i, p := range m.payments {
			rows[i] = fmt.Sprintf(" %s  %s  %-12s  %s",
				formatDate(p.CreatedAt),
				moneyStyle.Render(fmt.Sprintf("%10s", formatMoney(p.Amount))),
				p.Method,
				metaStyle.Render(p.Reference))
		}
		b.WriteString(renderList(rows, m.cursor, m.height-8))
	}
	if m.status != "" {
		b.WriteString("\n  " + noticeStyle.Render(m.status))
	}
	return b.String()
}

func (m paymentsModel) help() string {
	if m.formOpen {
		return helpBar("tab", "next", "←/→", "choose", "ctrl+s", "save", "esc", "cancel")
	}
	return helpBar("j/k", "move", "n", "record payment", "c", "copy reference", "r", "refresh", "?", "help")
}
