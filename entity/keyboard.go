package entity

// Button is a keyboard button. Inline buttons carry either Url or CallbackData;
// reply buttons may request the user's contact.
type Button struct {
	Text           string
	Url            string
	CallbackData   string
	RequestContact bool
}

// Keyboard describes the markup attached to an outgoing message.
// At most one of Inline, Reply or Remove is expected to be set.
type Keyboard struct {
	Inline [][]Button
	Reply  [][]Button
	Remove bool
}

func InlineKeyboard(rows ...[]Button) *Keyboard {
	return &Keyboard{Inline: rows}
}

func ReplyKeyboard(rows ...[]Button) *Keyboard {
	return &Keyboard{Reply: rows}
}

func RemoveKeyboard() *Keyboard {
	return &Keyboard{Remove: true}
}

// MemberStatus is the channel membership status reported by the platform.
type MemberStatus string

const (
	MemberCreator       MemberStatus = "creator"
	MemberAdministrator MemberStatus = "administrator"
	MemberMember        MemberStatus = "member"
	MemberRestricted    MemberStatus = "restricted"
	MemberLeft          MemberStatus = "left"
	MemberKicked        MemberStatus = "kicked"
)

// IsSubscribed reports whether the status counts as a channel subscription.
func (s MemberStatus) IsSubscribed() bool {
	switch s {
	case MemberMember, MemberAdministrator, MemberCreator:
		return true
	default:
		return false
	}
}
