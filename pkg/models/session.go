package models

// Session identifies the authenticated user a sync engine instance is bound
// to. It is passed explicitly on login and cleared on logout; nothing in the
// module holds session state at package level.
type Session struct {
	UserID      string
	AccessToken string
}
