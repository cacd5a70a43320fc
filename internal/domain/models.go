package domain

import "strings"

// Reserved delimiters for aggregate repository keys. The backend splits the
// repository field on these to decide whether to compute a comparison.
const (
	StarsDelimiter = " "
	ForksDelimiter = "$"
)

// Mode is the visualization mode a selection asks the backend for
type Mode int

const (
	ModeDefault Mode = iota // single repository issue dashboard
	ModeStars               // star count across all tracked repositories
	ModeForks               // fork count across all tracked repositories
)

func (m Mode) String() string {
	switch m {
	case ModeStars:
		return "stars"
	case ModeForks:
		return "forks"
	default:
		return "default"
	}
}

// ParseMode maps a config "kind" value to a Mode. Unknown values report false.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "repository", "repo":
		return ModeDefault, true
	case "stars", "star":
		return ModeStars, true
	case "forks", "fork":
		return ModeForks, true
	default:
		return ModeDefault, false
	}
}

// RepositorySelection is one selectable catalog entry
type RepositorySelection struct {
	Key   string // single identifier, or identifiers joined by a reserved delimiter
	Label string // human-readable label shown in the list
	Mode  Mode
}

// IsAggregate reports whether the entry stands for all tracked repositories
func (r RepositorySelection) IsAggregate() bool {
	return r.Mode != ModeDefault
}

// Repositories splits the key into its individual repository identifiers
func (r RepositorySelection) Repositories() []string {
	switch r.Mode {
	case ModeStars:
		return strings.Split(r.Key, StarsDelimiter)
	case ModeForks:
		return strings.Split(r.Key, ForksDelimiter)
	default:
		return []string{r.Key}
	}
}

// Point is a single (label, value) pair of a series
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of points
type Series []Point

// Image bundle keys as emitted by the backend
const (
	ImageModelLoss      = "model_loss_image_url"
	ImageLSTMGenerated  = "lstm_generated_image_url"
	ImageAllIssuesData  = "all_issues_data_image"
	ImageCreatedMaxDay  = "created_issues_max_day"
	ImageClosedMaxDay   = "closed_issues_max_day"
	ImageClosedMaxMonth = "closed_issues_max_month"
)

// ImageBundle maps fixed image keys to URLs. A missing key means no image.
type ImageBundle map[string]string

// URL returns the URL stored under key, or "" when absent
func (b ImageBundle) URL(key string) string {
	if b == nil {
		return ""
	}
	return b[key]
}

// AnalyticsResult is the decoded backend response
type AnalyticsResult struct {
	Created            Series      `json:"created"`
	Closed             Series      `json:"closed"`
	CreatedAtImageURLs ImageBundle `json:"createdAtImageUrls"`
	ClosedAtImageURLs  ImageBundle `json:"closedAtImageUrls"`
	PulledAtImageURLs  ImageBundle `json:"pulledAtImageUrls"`
	StarsCount         Series      `json:"starsCount"`
	ForksCount         Series      `json:"forksCount"`
}

// IsEmpty reports whether the result carries no series and no image URLs
func (r AnalyticsResult) IsEmpty() bool {
	return len(r.Created) == 0 && len(r.Closed) == 0 &&
		len(r.StarsCount) == 0 && len(r.ForksCount) == 0 &&
		len(r.CreatedAtImageURLs) == 0 && len(r.ClosedAtImageURLs) == 0 &&
		len(r.PulledAtImageURLs) == 0
}

// FetchStatus is the state of the fetch state machine
type FetchStatus int

const (
	StatusLoading FetchStatus = iota
	StatusReady
)

func (s FetchStatus) String() string {
	if s == StatusReady {
		return "ready"
	}
	return "loading"
}

// FetchState is the state of one fetch cycle. Failures end in StatusReady
// with an empty payload; Err is kept for diagnostics only.
type FetchState struct {
	Status  FetchStatus
	Payload AnalyticsResult
	Seq     uint64
	Err     error
}
