package reviewhandlers

import "net/http"

// Handlers is the HTTP surface of the review module.
type Handlers interface {
	HandleListReviews(w http.ResponseWriter, r *http.Request)
	HandleCreateReview(w http.ResponseWriter, r *http.Request)
	HandleGetReview(w http.ResponseWriter, r *http.Request)
	HandleUpdateReview(w http.ResponseWriter, r *http.Request)
	HandleDeleteReview(w http.ResponseWriter, r *http.Request)
	HandleClubReviews(w http.ResponseWriter, r *http.Request)
	HandleClubStats(w http.ResponseWriter, r *http.Request)
	HandleUserReviews(w http.ResponseWriter, r *http.Request)
	HandleUserClubReview(w http.ResponseWriter, r *http.Request)
}
