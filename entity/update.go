package entity

// Callback is an inline button press.
type Callback struct {
	Id   string `json:"id" validate:"required"`
	Data string `json:"data"`
}

// Update is the transport-neutral inbound event: either a callback or a plain message.
type Update struct {
	UpdateId  int64     `json:"update_id"`
	ChatId    int64     `json:"chat_id" validate:"required"`
	Text      string    `json:"text,omitempty"`
	MessageId int64     `json:"message_id,omitempty"`
	Phone     string    `json:"phone,omitempty"` // contact attachment
	HasMedia  bool      `json:"has_media,omitempty"`
	Callback  *Callback `json:"callback,omitempty"`
}

func (u *Update) IsCallback() bool {
	return u.Callback != nil
}

// Input returns the text the state machine reacts to: callback data or message text.
func (u *Update) Input() string {
	if u.Callback != nil {
		return u.Callback.Data
	}
	return u.Text
}

// IsCommand reports whether a message starts with the command prefix.
func (u *Update) IsCommand() bool {
	return u.Callback == nil && len(u.Text) > 0 && u.Text[0] == '/'
}
