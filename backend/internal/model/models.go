package model

// Movie is a catalog record. Created at catalog load time and
// immutable thereafter.
type Movie struct {
	ID       string `bson:"_id" json:"movie_id"`
	Title    string `bson:"title" json:"title"`
	Genre    string `bson:"genre" json:"genre"`
	Year     int    `bson:"year" json:"year"`
	Director string `bson:"director" json:"director"`
}

// Rating is a single append-only rating event
type Rating struct {
	ID        string `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string `bson:"user_id" json:"user_id"`
	MovieID   string `bson:"movie_id" json:"movie_id"`
	Rating    int    `bson:"rating" json:"rating"`
	RatedTime int64  `bson:"rated_time" json:"rated_time"` // milliseconds since epoch
}

// TrendEntry is one row of the trend board: a title and its cumulative score
type TrendEntry struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Recommendation is a candidate movie produced by the two-hop traversal.
// Freq counts traversal paths, not distinct co-liking users.
type Recommendation struct {
	MovieID string `json:"movie_id"`
	Title   string `json:"title"`
	Freq    int64  `json:"freq"`
}

// ValidRating reports whether a rating value is in the accepted range
func ValidRating(value int) bool {
	return value >= 1 && value <= 5
}
