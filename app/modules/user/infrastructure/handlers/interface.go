package userhandlers

import "net/http"

// Handlers is the HTTP surface of the user module.
type Handlers interface {
	HandleListUsers(w http.ResponseWriter, r *http.Request)
	HandleCreateUser(w http.ResponseWriter, r *http.Request)
	HandleGetUser(w http.ResponseWriter, r *http.Request)
	HandleUpdateUser(w http.ResponseWriter, r *http.Request)
	HandleDeleteUser(w http.ResponseWriter, r *http.Request)
	HandleAddFavorite(w http.ResponseWriter, r *http.Request)
	HandleRemoveFavorite(w http.ResponseWriter, r *http.Request)
}
