package delivery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateDestination checks (and for phone channels, normalizes) a
// destination for the given channel. It returns the destination to actually
// send to. The same rules apply to immediate sends and schedule validation.
func ValidateDestination(channel Channel, destination string) (string, error) {
	switch channel {
	case ChannelEmail:
		return destination, validateEmail(destination)
	case ChannelChat:
		return destination, validateChat(destination)
	case ChannelCall, ChannelSMS:
		return NormalizePhone(destination)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedChannel, channel)
}

func validateEmail(addr string) error {
	if err := validate.Var(addr, "required,email"); err != nil {
		return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidDestination, addr)
	}
	return nil
}

// validateChat accepts a numeric Telegram chat ID or an @username.
func validateChat(dest string) error {
	if dest == "" {
		return fmt.Errorf("%w: chat destination is empty", ErrInvalidDestination)
	}
	if strings.HasPrefix(dest, "@") {
		if len(dest) < 2 {
			return fmt.Errorf("%w: %q is not a valid chat username", ErrInvalidDestination, dest)
		}
		return nil
	}
	if _, err := strconv.ParseInt(dest, 10, 64); err != nil {
		return fmt.Errorf("%w: %q is not a valid chat id", ErrInvalidDestination, dest)
	}
	return nil
}

// NormalizePhone strips everything but digits (and a leading plus), prepends
// a plus when missing, and validates the result as E.164.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	phone := b.String()
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	if err := validate.Var(phone, "e164"); err != nil {
		return "", fmt.Errorf("%w: %q is not a valid phone number", ErrInvalidDestination, raw)
	}
	return phone, nil
}
