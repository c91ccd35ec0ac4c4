package reviewdomain

// Distribution counts reviews per rating. Every rating from MinRating to
// MaxRating is present, zero or not; JSON encodes the keys as strings.
type Distribution map[int]int

// NewDistribution counts ratings. Out-of-range values are ignored.
func NewDistribution(ratings ...int) Distribution {
	d := make(Distribution, MaxRating-MinRating+1)
	for r := MinRating; r <= MaxRating; r++ {
		d[r] = 0
	}
	for _, r := range ratings {
		d.Add(r, 1)
	}
	return d
}

// Add records n reviews with rating.
func (d Distribution) Add(rating, n int) {
	if rating < MinRating || rating > MaxRating {
		return
	}
	d[rating] += n
}

// Total is the number of reviews counted.
func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Average is the mean rating, or 0 when there are no reviews.
func (d Distribution) Average() float64 {
	total, sum := 0, 0
	for rating, n := range d {
		total += n
		sum += rating * n
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}

// AverageRating is the mean of ratings, or 0 when there are none.
func AverageRating(ratings []int) float64 {
	return NewDistribution(ratings...).Average()
}

// RatingDistribution counts ratings into all ten buckets.
func RatingDistribution(ratings []int) Distribution {
	return NewDistribution(ratings...)
}

// Stats summarizes the reviews of one club.
type Stats struct {
	ClubCode           string       `json:"club_code"`
	ClubName           string       `json:"club_name"`
	TotalReviews       int          `json:"total_reviews"`
	AverageRating      float64      `json:"average_rating"`
	RatingDistribution Distribution `json:"rating_distribution"`
}

// NewStats builds the summary for a club from its rating counts.
func NewStats(code, name string, d Distribution) Stats {
	return Stats{
		ClubCode:           code,
		ClubName:           name,
		TotalReviews:       d.Total(),
		AverageRating:      d.Average(),
		RatingDistribution: d,
	}
}
