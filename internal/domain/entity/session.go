package entity

import "time"

// Session store keys
const (
	KeyIsAuthenticated = "isAuthenticated"
	KeyAccessToken     = "access_token"
	KeyUser            = "user"
	KeyReservations    = "reservations"
)

// User is the profile of the signed-in traveller
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NoticeLevel defines how a notice is presented
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is a user visible notification
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}
