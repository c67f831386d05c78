package assistant

// Keyword lists are plain data, separate from the scoring logic, so they can
// be tuned and tested independently. They are matched case-insensitively as
// substrings of the query.
//
// The lists are disjoint on purpose: a word may only count toward one intent.

var playbackKeywords = []string{
	"play",
	"pause",
	"stop",
	"resume",
	"skip",
	"next song",
	"queue",
	"shuffle",
	"repeat",
	"turn up",
	"turn down",
	"volume",
}

var recommendationKeywords = []string{
	"recommend",
	"suggest",
	"similar",
	"like this",
	"more of",
	"something new",
	"for me",
	"my taste",
	"mood",
	"vibe",
}

var discoveryKeywords = []string{
	"find",
	"search",
	"show",
	"list",
	"browse",
	"looking for",
	"what",
	"who",
	"trending",
	"popular",
	"new releases",
	"latest",
	"genre",
	"artist",
	"track",
	"song",
}

// compileVerbs trigger the playlist compilation path in the normalizer.
var compileVerbs = []string{
	"compile",
	"create",
	"make",
	"build",
	"put together",
	"assemble",
	"curate",
	"generate",
}

// genreVocabulary maps lowercase query fragments to canonical display names.
// Order matters: earlier entries win when a query mentions several genres.
var genreVocabulary = []struct {
	match   string
	display string
}{
	{"amapiano", "Amapiano"},
	{"gqom", "Gqom"},
	{"afro house", "Afro House"},
	{"kwaito", "Kwaito"},
	{"hip hop", "Hip Hop"},
	{"gospel", "Gospel"},
	{"jazz", "Jazz"},
	{"maskandi", "Maskandi"},
	{"soul", "Soul"},
	{"r&b", "R&B"},
	{"house", "House"}, // after afro house so the broader term does not shadow it
}
