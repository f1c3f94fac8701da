package whatsapp

// OutboundMessage is one WhatsApp message bound for a user.
type OutboundMessage struct {
	// ID is a client-generated UUID logged alongside the delivery outcome
	// so duplicate sends can be spotted.
	ID string

	// To is the recipient: an E.164 phone number, with or without the
	// "whatsapp:" channel prefix. Send adds the prefix when missing.
	To string

	// Body is the UTF-8 message text.
	Body string
}
