package admin

// Policy decides whether a chat may use the admin command surface.
type Policy interface {
	IsAdmin(chatId int64) bool
}

// FixedID grants access to a single configured chat. Zero disables the surface.
type FixedID int64

func (id FixedID) IsAdmin(chatId int64) bool {
	return id != 0 && int64(id) == chatId
}
