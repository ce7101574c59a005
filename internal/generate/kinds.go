package generate

// Kind names one artifact family produced from a transcript.
type Kind string

const (
	KindTitles      Kind = "titles"
	KindDescription Kind = "description"
	KindBlogPost    Kind = "blog_post"
)

// Contract bounds per kind. Counts are runes, not bytes; Japanese output
// makes the distinction load-bearing.
const (
	TitleCount = 3

	DescriptionMinChars = 200
	DescriptionMaxChars = 400

	BlogPostMinChars = 1000
	BlogPostMaxChars = 2000
)

// Style-conditioning limits.
const (
	titleHistoryLimit       = 5
	descriptionHistoryLimit = 3
	blogPostHistoryLimit    = 2

	blogExampleMaxChars = 500
)

func (k Kind) Valid() bool {
	switch k {
	case KindTitles, KindDescription, KindBlogPost:
		return true
	}
	return false
}

// AllKinds returns the artifact kinds in generation order.
func AllKinds() []Kind {
	return []Kind{KindTitles, KindDescription, KindBlogPost}
}

func historyLimit(kind Kind) int {
	switch kind {
	case KindTitles:
		return titleHistoryLimit
	case KindDescription:
		return descriptionHistoryLimit
	case KindBlogPost:
		return blogPostHistoryLimit
	}
	return 0
}

func maxTokens(kind Kind) int64 {
	if kind == KindBlogPost {
		return 2000
	}
	return 500
}
