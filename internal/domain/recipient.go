package domain

// MinRecipientLength is the shortest accepted recipient after quote and
// whitespace stripping.
const MinRecipientLength = 7

// Recipient is a destination phone number. No format is enforced beyond
// MinRecipientLength; the backend rejects what WhatsApp cannot deliver.
type Recipient = string
