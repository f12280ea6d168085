package reddit

import "time"

// Post is a normalized Reddit listing entry used for headlines.
type Post struct {
	Title     string
	Subreddit string
	Link      string
	Date      *time.Time
}

// Image is a wallpaper candidate extracted from a listing post that passed
// the aspect-ratio and direct-image filters.
type Image struct {
	URL       string
	Title     string
	Author    string
	Score     int
	Subreddit string
	Credit    string
}

// Wire types for the public listing endpoint: posts live under
// data.children[].data.

type listing struct {
	Data struct {
		Children []struct {
			Data rawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type rawPost struct {
	Title      string   `json:"title"`
	Author     string   `json:"author"`
	Permalink  string   `json:"permalink"`
	URL        string   `json:"url"`
	Score      int      `json:"score"`
	CreatedUTC *float64 `json:"created_utc"`
	Preview    *preview `json:"preview"`
}

type preview struct {
	Images []previewImage `json:"images"`
}

type previewImage struct {
	Source previewSource `json:"source"`
}

type previewSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
