package domain

// Citation is a deduplicated source reference backing a generated answer.
type Citation struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	URL   string `json:"url"`
}

// CitationName is the short-form projection of a Citation.
type CitationName struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// AnswerResult is the response shape of a single question. Citations never
// contain two entries with the same title, and CitationsNamesWithYear is a
// same-order projection of Citations.
type AnswerResult struct {
	Answer                 string         `json:"answer"`
	Citations              []Citation     `json:"citations"`
	CitationsNamesWithYear []CitationName `json:"citationsNamesWithYear"`
}

// EmptyAnswer returns an AnswerResult with the given answer text and empty,
// non-nil citation lists so the JSON shape stays stable.
func EmptyAnswer(answer string) AnswerResult {
	return AnswerResult{
		Answer:                 answer,
		Citations:              []Citation{},
		CitationsNamesWithYear: []CitationName{},
	}
}

// DedupeCitations collapses chunk metadata into citations, keyed by title.
// The first occurrence of each title wins and input order is preserved.
func DedupeCitations(chunks []RelevantChunk) []Citation {
	citations := make([]Citation, 0, len(chunks))
	seen := make(map[string]struct{}, len(chunks))

	for _, c := range chunks {
		if _, ok := seen[c.Metadata.Title]; ok {
			continue
		}
		seen[c.Metadata.Title] = struct{}{}
		citations = append(citations, Citation{
			Title: c.Metadata.Title,
			Year:  c.Metadata.Year,
			URL:   c.Metadata.URL,
		})
	}

	return citations
}

// CitationNames projects citations into their short form, preserving order.
func CitationNames(citations []Citation) []CitationName {
	names := make([]CitationName, 0, len(citations))
	for _, c := range citations {
		names = append(names, CitationName{Title: c.Title, Year: c.Year})
	}
	return names
}
