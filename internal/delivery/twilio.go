package delivery

import (
	"context"
	"fmt"
	"html"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// newTwilioClient returns nil when the account credentials are absent, which
// puts both phone channels in simulated mode.
func newTwilioClient(accountSID, authToken string) *twilio.RestClient {
	if accountSID == "" || authToken == "" {
		return nil
	}
	return twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
}

// CallSender delivers voice notes by placing a call that plays the audio URL.
type CallSender struct {
	client *twilio.RestClient
	from   string
}

func NewCallSender(accountSID, authToken, from string) *CallSender {
	return &CallSender{client: newTwilioClient(accountSID, authToken), from: from}
}

func (c *CallSender) Channel() Channel { return ChannelCall }

func (c *CallSender) Send(ctx context.Context, req Request, audio AudioRef) (Outcome, error) {
	to, err := NormalizePhone(req.Destination)
	if err != nil {
		return Outcome{Detail: fmt.Sprintf("invalid phone number %q", req.Destination)}, err
	}

	if c.client == nil || c.from == "" {
		return Outcome{
			Success:   true,
			Simulated: true,
			Detail:    fmt.Sprintf("twilio credentials not configured; would have called %s with the voice note", to),
		}, nil
	}

	twiml := fmt.Sprintf("<Response><Play>%s</Play>", audio.URL)
	if req.Message != "" {
		twiml += fmt.Sprintf("<Say>%s</Say>", html.EscapeString(req.Message))
	}
	twiml += "</Response>"

	params := &twilioapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetTwiml(twiml)

	if _, err := c.client.Api.CreateCall(params); err != nil {
		return Outcome{Detail: fmt.Sprintf("failed to call %s", to)},
			fmt.Errorf("%w: twilio call: %v", ErrDeliveryFailed, err)
	}

	return Outcome{
		Success: true,
		Detail:  fmt.Sprintf("voice note call placed to %s", to),
	}, nil
}

// SMSSender delivers a text message carrying a link to the voice note.
type SMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewSMSSender(accountSID, authToken, from string) *SMSSender {
	return &SMSSender{client: newTwilioClient(accountSID, authToken), from: from}
}

func (s *SMSSender) Channel() Channel { return ChannelSMS }

func (s *SMSSender) Send(ctx context.Context, req Request, audio AudioRef) (Outcome, error) {
	to, err := NormalizePhone(req.Destination)
	if err != nil {
		return Outcome{Detail: fmt.Sprintf("invalid phone number %q", req.Destination)}, err
	}

	if s.client == nil || s.from == "" {
		return Outcome{
			Success:   true,
			Simulated: true,
			Detail:    fmt.Sprintf("twilio credentials not configured; would have sent SMS to %s with the voice note link", to),
		}, nil
	}

	body := fmt.Sprintf("Here's your weather and motivation voice note for today. Listen here: %s", audio.URL)
	if req.Message != "" {
		body = fmt.Sprintf("%s\n\nListen to your voice note: %s", req.Message, audio.URL)
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return Outcome{Detail: fmt.Sprintf("failed to send SMS to %s", to)},
			fmt.Errorf("%w: twilio sms: %v", ErrDeliveryFailed, err)
	}

	return Outcome{
		Success: true,
		Detail:  fmt.Sprintf("SMS with voice note link sent to %s", to),
	}, nil
}
