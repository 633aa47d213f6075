package webapi

import (
	"sort"

	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

func sortChaptersByWordCount(chapters []twimodel.Chapter) {
	sort.Slice(chapters, func(i, j int) bool {
		return chapters[i].WordCount > chapters[j].WordCount
	})
}
