package content

import "github.com/learnmate/learnmate/internal/model"

// Curated fallback datasets served when a provider is unconfigured or down.
// Keyed by a keyword matched against the search query.

var curatedVideos = map[string][]model.Video{
	"python": {
		{
			Title:       "Python Tutorial - Full Course for Beginners",
			URL:         "https://www.youtube.com/watch?v=_uQrJ0TkZlc",
			Channel:     "Programming with Mosh",
			Description: "Comprehensive Python tutorial for beginners",
		},
		{
			Title:       "Python for Beginners - Full Course",
			URL:         "https://www.youtube.com/watch?v=rfscVS0vtbw",
			Channel:     "freeCodeCamp",
			Description: "Learn Python from scratch",
		},
	},
	"javascript": {
		{
			Title:       "JavaScript Tutorial for Beginners",
			URL:         "https://www.youtube.com/watch?v=W6NZfCO5SIk",
			Channel:     "Programming with Mosh",
			Description: "Master JavaScript basics",
		},
	},
	"go": {
		{
			Title:       "Learn Go Programming - Golang Tutorial for Beginners",
			URL:         "https://www.youtube.com/watch?v=YS4e4q9oBaU",
			Channel:     "freeCodeCamp",
			Description: "Full Go course from the basics to concurrency",
		},
	},
}

var curatedRepos = map[string][]model.Repo{
	"python": {
		{
			Name:        "awesome-python",
			FullName:    "vinta/awesome-python",
			URL:         "https://github.com/vinta/awesome-python",
			Description: "A curated list of awesome Python frameworks, libraries, and resources",
			Stars:       200000,
			Language:    "Python",
		},
	},
	"machine learning": {
		{
			Name:        "awesome-machine-learning",
			FullName:    "josephmisiti/awesome-machine-learning",
			URL:         "https://github.com/josephmisiti/awesome-machine-learning",
			Description: "A curated list of awesome Machine Learning frameworks and libraries",
			Stars:       60000,
			Language:    "Python",
		},
	},
	"go": {
		{
			Name:        "awesome-go",
			FullName:    "avelino/awesome-go",
			URL:         "https://github.com/avelino/awesome-go",
			Description: "A curated list of awesome Go frameworks, libraries and software",
			Stars:       130000,
			Language:    "Go",
		},
	},
}
