package mail

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/url"

	"github.com/dajohi/goemail"
)

// Mailer sends outbound email for the association site. A disabled mailer
// (no SMTP credentials configured) reports itself through IsEnabled so
// callers can decide whether a send failure is fatal.
type Mailer interface {
	IsEnabled() bool
	SendTo(subject, body string, recipients []string) error
}

// client provides an SMTP client for sending emails from a preset address.
type client struct {
	smtp        *goemail.SMTP
	mailName    string
	mailAddress string
	disabled    bool
}

func (c *client) IsEnabled() bool {
	return !c.disabled
}

func (c *client) SendTo(subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return nil
	}
	if c.disabled {
		return fmt.Errorf("mail is disabled")
	}

	msg := goemail.NewMessage(c.mailAddress, subject, body)
	msg.SetName(c.mailName)
	for _, v := range recipients {
		msg.AddBCC(v)
	}

	return c.smtp.Send(msg)
}

// NewClient returns a Mailer. Email is considered disabled if any of the
// required SMTP credentials are missing.
func NewClient(host, user, password, emailAddress string, skipVerify bool) (Mailer, error) {
	if host == "" || user == "" || password == "" {
		return &client{disabled: true}, nil
	}

	h := fmt.Sprintf("smtps://%v:%v@%v", user, password, host)
	u, err := url.Parse(h)
	if err != nil {
		return nil, err
	}

	a, err := mail.ParseAddress(emailAddress)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: skipVerify,
	}

	smtp, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, err
	}

	return &client{
		smtp:        smtp,
		mailName:    a.Name,
		mailAddress: a.Address,
	}, nil
}
