package clubhandlers

import "net/http"

// Handlers is the HTTP surface of the club module.
type Handlers interface {
	HandleListClubs(w http.ResponseWriter, r *http.Request)
	HandleCreateClub(w http.ResponseWriter, r *http.Request)
	HandleSearchClubs(w http.ResponseWriter, r *http.Request)
	HandleGetClub(w http.ResponseWriter, r *http.Request)
	HandleUpdateClub(w http.ResponseWriter, r *http.Request)
	HandleDeleteClub(w http.ResponseWriter, r *http.Request)
	HandleFavoritedBy(w http.ResponseWriter, r *http.Request)
	HandleClubsByTag(w http.ResponseWriter, r *http.Request)
}
