package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/flowtada/crm/internal/usecase"
)

type EmailSender struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	SalesEmail string
}

func NewEmailSender(host string, port int, user, password, from, salesEmail string) *EmailSender {
	return &EmailSender{
		Host:       host,
		Port:       port,
		User:       user,
		Password:   password,
		From:       from,
		SalesEmail: salesEmail,
	}
}

var leadAlertTmpl = template.Must(template.New("lead_alert").Parse(`A new lead just came in via {{.Source}}.

Name: {{.FirstName}} {{.LastName}}
Email: {{.Email}}
{{if .Company}}Company: {{.Company}}
{{end}}{{if .Message}}Message:
{{.Message}}
{{end}}
Follow up from the CRM dashboard.
`))

var credentialTmpl = template.Must(template.New("credential").Parse(`Hi {{.FirstName}},

Your FlowTada trial account is ready. Sign in with your email address and the
one-time access code below:

    {{.Token}}

The code works once and expires within a day. Sign in here:

    {{.LoginURL}}

The FlowTada Team
`))

// SendLeadAlert notifies the sales inbox about a freshly captured lead.
func (s *EmailSender) SendLeadAlert(n usecase.LeadCapturedNotification) error {
	var body bytes.Buffer
	if err := leadAlertTmpl.Execute(&body, n); err != nil {
		return fmt.Errorf("render lead alert: %w", err)
	}
	subject := fmt.Sprintf("New lead: %s %s (%s)", n.FirstName, n.LastName, n.Source)
	return s.send(s.SalesEmail, subject, body.String())
}

// SendCredential delivers a one-time login token to a new trial user.
func (s *EmailSender) SendCredential(n usecase.CredentialIssuedNotification) error {
	var body bytes.Buffer
	if err := credentialTmpl.Execute(&body, n); err != nil {
		return fmt.Errorf("render credential mail: %w", err)
	}
	subject := "Your FlowTada trial access"
	return s.send(n.Email, subject, body.String())
}

func (s *EmailSender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
