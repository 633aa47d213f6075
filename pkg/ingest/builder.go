package ingest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/innverse/twistats/pkg/scrape"
	"github.com/innverse/twistats/pkg/textscan"
	"github.com/innverse/twistats/pkg/twidb/stor"
	"github.com/innverse/twistats/pkg/twidb/twimodel"
)

// BuildStats summarizes one build run.
type BuildStats struct {
	ChaptersSeen    int
	ChaptersBuilt   int
	ChaptersSkipped int
	RefTypesCreated int
	TextRefsCreated int
	MentionsSkipped int
}

// Builder ingests archived chapters into the database: volume/book/
// chapter records, chapter lines, and located text references.
type Builder struct {
	stors    *stor.Stors
	resolver Resolver
	disambig *textscan.DisambiguationConfig

	// Clobber forces a rebuild of chapters whose content digest is
	// unchanged.
	Clobber bool

	stats BuildStats
}

type BuilderOption func(*Builder)

func WithResolver(r Resolver) BuilderOption {
	return func(b *Builder) { b.resolver = r }
}

func WithDisambiguation(cfg *textscan.DisambiguationConfig) BuilderOption {
	return func(b *Builder) { b.disambig = cfg }
}

func WithClobber(clobber bool) BuilderOption {
	return func(b *Builder) { b.Clobber = clobber }
}

func NewBuilder(stors *stor.Stors, opts ...BuilderOption) *Builder {
	b := &Builder{
		stors:    stors,
		resolver: AutoResolver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var firstIntRe = regexp.MustCompile(`\d+`)

func parseNumber(s string) (int, bool) {
	m := firstIntRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

// BuildFromArchive walks the chapter archive under root and upserts
// everything into the database.
func (b *Builder) BuildFromArchive(root string) (*BuildStats, error) {
	b.stats = BuildStats{}

	if err := SeedColors(b.stors.ColorStor); err != nil {
		return nil, errors.Wrap(err, "seeding colors")
	}

	archived, err := scrape.WalkArchive(root)
	if err != nil {
		return nil, errors.Wrap(err, "walking chapter archive")
	}

	for _, entry := range archived {
		b.stats.ChaptersSeen++

		book, err := b.upsertVolumeAndBook(entry.Volume, entry.Book)
		if err != nil {
			return nil, err
		}

		data, err := scrape.LoadChapter(entry.Dir)
		if err != nil {
			return nil, errors.Wrapf(err, "loading archived chapter %s", entry.Dir)
		}

		if err := b.buildChapter(book, data); err != nil {
			return nil, errors.Wrapf(err, "building chapter %q", data.Title)
		}
	}

	stats := b.stats
	return &stats, nil
}

func (b *Builder) upsertVolumeAndBook(volumeTitle, bookTitle string) (*twimodel.Book, error) {
	volume, err := b.stors.VolumeStor.GetVolumeByTitle(volumeTitle)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		number, _ := parseNumber(volumeTitle)
		volume, err = b.stors.VolumeStor.CreateVolume(&twimodel.Volume{
			Number: number,
			Title:  volumeTitle,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "creating volume %q", volumeTitle)
		}
		log.WithField("volume", volumeTitle).Info("volume created")

	case err != nil:
		return nil, err
	}

	book, err := b.stors.VolumeStor.GetBookByTitle(volume.ID, bookTitle)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		number, ok := parseNumber(bookTitle)
		if !ok {
			// Unnumbered groupings (audiobook not released yet) sort
			// after every numbered book.
			existing, err := b.stors.VolumeStor.ListBooksForVolume(volume.ID)
			if err != nil {
				return nil, err
			}
			number = len(existing) + 1000
		}
		book, err = b.stors.VolumeStor.CreateBook(&twimodel.Book{
			Number:   number,
			Title:    bookTitle,
			VolumeID: volume.ID,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "creating book %q", bookTitle)
		}
		log.WithField("book", bookTitle).Info("book created")

	case err != nil:
		return nil, err
	}

	return book, nil
}

func (b *Builder) buildChapter(book *twimodel.Book, data *scrape.ChapterData) error {
	chapter, err := b.stors.ChapterStor.GetChapterByTitle(data.Title)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		maxNumber, err := b.stors.ChapterStor.MaxChapterNumber()
		if err != nil {
			return err
		}
		chapter, err = b.stors.ChapterStor.CreateChapter(&twimodel.Chapter{
			Number:               maxNumber + 1,
			Title:                data.Title,
			IsInterlude:          strings.Contains(strings.ToLower(data.Title), "interlude"),
			IsCanon:              !strings.Contains(data.Title, "Non-Canon"),
			IsStatusUpdate:       strings.Contains(data.Title, "Status Update"),
			SourceURL:            data.URL,
			PostDate:             data.PubTime,
			LastUpdate:           data.ModTime,
			DownloadDate:         data.DownloadTime,
			WordCount:            data.WordCount,
			AuthorsNoteWordCount: data.AuthorsNoteWordCount,
			Digest:               data.Digest,
			BookID:               book.ID,
		})
		if err != nil {
			return err
		}
		log.WithField("chapter", data.Title).Info("chapter created")

	case err != nil:
		return err

	default:
		if chapter.Digest == data.Digest && !b.Clobber {
			log.WithField("chapter", data.Title).Debug("content unchanged, skipping")
			b.stats.ChaptersSkipped++
			return nil
		}

		chapter.SourceURL = data.URL
		chapter.PostDate = data.PubTime
		chapter.LastUpdate = data.ModTime
		chapter.DownloadDate = data.DownloadTime
		chapter.WordCount = data.WordCount
		chapter.AuthorsNoteWordCount = data.AuthorsNoteWordCount
		chapter.Digest = data.Digest
		chapter.BookID = book.ID
		if _, err := b.stors.ChapterStor.UpdateChapter(chapter); err != nil {
			return err
		}
		log.WithField("chapter", data.Title).Info("chapter updated")
	}

	if err := b.stors.ChapterStor.ReplaceChapterLines(chapter.ID, data.Lines); err != nil {
		return err
	}

	if err := b.scanChapter(chapter, data); err != nil {
		return err
	}

	b.stats.ChaptersBuilt++
	return nil
}

// scanChapter locates every RefType mention in the chapter's lines and
// stores the resulting TextRefs.
func (b *Builder) scanChapter(chapter *twimodel.Chapter, data *scrape.ChapterData) error {
	lines, err := b.stors.ChapterStor.ListChapterLines(chapter.ID)
	if err != nil {
		return err
	}
	lineIDs := make(map[int]int, len(lines))
	for _, line := range lines {
		lineIDs[line.LineNumber] = line.ID
	}

	refTypes, err := b.stors.RefTypeStor.ListAllRefTypes()
	if err != nil {
		return err
	}

	for _, m := range textscan.ScanMagicWords(data.Lines) {
		refType, err := b.classifyMagicWord(m, chapter, refTypes)
		if err != nil {
			return err
		}
		if refType == nil {
			b.stats.MentionsSkipped++
			continue
		}
		if err := b.storeTextRef(chapter, lineIDs, m, refType, data.ColorSpans); err != nil {
			return err
		}
	}

	matcher, byPhrase, err := b.compileNameMatcher(refTypes)
	if err != nil {
		return err
	}
	if matcher == nil {
		return nil
	}

	for _, m := range matcher.Scan(data.Lines) {
		refType := byPhrase[m.Text]
		if refType == nil {
			continue
		}

		if verdict, entry := b.judge(m); verdict == textscan.VerdictReject {
			b.stats.MentionsSkipped++
			continue
		} else if verdict == textscan.VerdictAccept && entry != nil {
			if rt, err := b.getOrCreateRefType(entry.RefType, entry.Type); err == nil {
				refType = rt
			}
		} else if verdict == textscan.VerdictUnresolved {
			// No allow or deny rule covered the context; the operator
			// decides. The matched RefType leads the candidate list.
			candidates := []twimodel.RefType{*refType}
			for _, c := range fuzzyCandidates(m.Text, refTypes) {
				if c.ID != refType.ID {
					candidates = append(candidates, c)
				}
			}
			resolution, err := b.resolver.ResolveNewRefType(m, chapter.Title, candidates)
			if err != nil {
				return err
			}
			switch {
			case resolution.Existing != nil:
				refType = resolution.Existing
			case resolution.TypeCode != "":
				rt, err := b.getOrCreateRefType(m.Text, resolution.TypeCode)
				if err != nil {
					return err
				}
				refType = rt
			default:
				b.stats.MentionsSkipped++
				continue
			}
		}

		if err := b.storeTextRef(chapter, lineIDs, m, refType, data.ColorSpans); err != nil {
			return err
		}
	}

	return nil
}

func (b *Builder) judge(m textscan.Match) (textscan.Verdict, *textscan.AmbiguousAlias) {
	if b.disambig == nil {
		return textscan.VerdictUnambiguous, nil
	}
	return b.disambig.Judge(m)
}

// classifyMagicWord attributes a bracketed phrase to a RefType,
// creating one when the phrase is new. Returns nil to skip the mention.
func (b *Builder) classifyMagicWord(m textscan.Match, chapter *twimodel.Chapter, known []twimodel.RefType) (*twimodel.RefType, error) {
	existing, err := b.stors.RefTypeStor.ListRefTypesByName(m.Text)
	if err != nil {
		return nil, err
	}
	if len(existing) == 1 {
		return &existing[0], nil
	}
	if len(existing) > 1 {
		// Same phrase stored under multiple types; the disambiguation
		// config decides, otherwise the operator does.
		if verdict, entry := b.judge(m); verdict == textscan.VerdictAccept && entry != nil {
			return b.getOrCreateRefType(entry.RefType, entry.Type)
		} else if verdict == textscan.VerdictReject {
			return nil, nil
		}
		resolution, err := b.resolver.ResolveNewRefType(m, chapter.Title, existing)
		if err != nil {
			return nil, err
		}
		return resolution.Existing, nil
	}

	// Update announcements classify themselves.
	switch {
	case textscan.SkillObtainedRe.MatchString(m.Text):
		return b.getOrCreateRefType(m.Text, twimodel.RefTypeSkillUpdate)
	case textscan.SpellObtainedRe.MatchString(m.Text):
		return b.getOrCreateRefType(m.Text, twimodel.RefTypeSpellUpdate)
	case textscan.ClassObtainedRe.MatchString(m.Text):
		return b.getOrCreateRefType(m.Text, twimodel.RefTypeClassUpdate)
	}

	if verdict, entry := b.judge(m); verdict == textscan.VerdictAccept && entry != nil {
		return b.getOrCreateRefType(entry.RefType, entry.Type)
	} else if verdict == textscan.VerdictReject {
		return nil, nil
	}

	resolution, err := b.resolver.ResolveNewRefType(m, chapter.Title, fuzzyCandidates(m.Text, known))
	if err != nil {
		return nil, err
	}
	switch {
	case resolution.Skip:
		return nil, nil
	case resolution.Existing != nil:
		return resolution.Existing, nil
	case resolution.TypeCode != "":
		return b.getOrCreateRefType(m.Text, resolution.TypeCode)
	}
	return nil, nil
}

func (b *Builder) getOrCreateRefType(name, typeCode string) (*twimodel.RefType, error) {
	refType, err := b.stors.RefTypeStor.GetRefType(name, typeCode)
	if err == nil {
		return refType, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	refType, err = b.stors.RefTypeStor.CreateRefType(&twimodel.RefType{
		Name: name,
		Type: typeCode,
	})
	if err != nil {
		return nil, err
	}

	b.stats.RefTypesCreated++
	log.WithFields(log.Fields{"name": name, "type": typeCode}).Info("reftype created")
	return refType, nil
}

// compileNameMatcher builds one alternation over every stored RefType
// name and alias, plus a reverse index from matched phrase to RefType.
func (b *Builder) compileNameMatcher(refTypes []twimodel.RefType) (*textscan.Matcher, map[string]*twimodel.RefType, error) {
	byPhrase := make(map[string]*twimodel.RefType)
	var phrases []string

	for i := range refTypes {
		rt := &refTypes[i]
		if strings.HasPrefix(rt.Name, "[") {
			// Bracketed phrases are already covered by the magic word
			// scan.
			continue
		}

		aliases, err := b.stors.RefTypeStor.ListAliasesForRefType(rt.ID)
		if err != nil {
			return nil, nil, err
		}
		names := make([]string, 0, len(aliases))
		for _, alias := range aliases {
			names = append(names, alias.Name)
		}

		for _, phrase := range textscan.BuildRefTypePatterns(rt.Name, names) {
			if prev, ok := byPhrase[phrase]; ok && prev.ID != rt.ID {
				log.WithFields(log.Fields{
					"phrase": phrase,
					"first":  prev.Name,
					"second": rt.Name,
				}).Warn("phrase maps to multiple reftypes")
				continue
			}
			byPhrase[phrase] = rt
			phrases = append(phrases, phrase)
		}
	}

	if len(phrases) == 0 {
		return nil, nil, nil
	}

	matcher, err := textscan.CompileMatcher(phrases)
	if err != nil {
		return nil, nil, err
	}
	return matcher, byPhrase, nil
}

func (b *Builder) storeTextRef(chapter *twimodel.Chapter, lineIDs map[int]int, m textscan.Match, refType *twimodel.RefType, spans []scrape.ColorSpan) error {
	lineID, ok := lineIDs[m.LineNumber]
	if !ok {
		return errors.Errorf("chapter %q has no line %d", chapter.Title, m.LineNumber)
	}

	colorID, err := b.colorForMatch(m, spans)
	if err != nil {
		return err
	}

	_, created, err := b.stors.TextRefStor.CreateTextRef(&twimodel.TextRef{
		ChapterLineID: lineID,
		RefTypeID:     refType.ID,
		ColorID:       colorID,
		StartColumn:   m.StartColumn,
		EndColumn:     m.EndColumn,
	})
	if err != nil {
		return err
	}
	if created {
		b.stats.TextRefsCreated++
	}

	_, _, err = b.stors.TextRefStor.GetOrCreateRefTypeChapter(refType.ID, chapter.ID)
	return err
}

// colorForMatch resolves the Color row for a mention covered by a
// colored span, if any.
func (b *Builder) colorForMatch(m textscan.Match, spans []scrape.ColorSpan) (*int, error) {
	for _, span := range spans {
		if !span.Covers(m.LineNumber, m.StartColumn, m.EndColumn) {
			continue
		}

		colors, err := b.stors.ColorStor.GetColorsByRGB(span.RGB)
		if err != nil {
			return nil, err
		}
		if len(colors) == 0 {
			category, err := b.stors.ColorStor.GetOrCreateCategory("Uncategorized")
			if err != nil {
				return nil, err
			}
			color, err := b.stors.ColorStor.GetOrCreateColor(span.RGB, category.ID)
			if err != nil {
				return nil, err
			}
			return &color.ID, nil
		}
		return &colors[0].ID, nil
	}
	return nil, nil
}

// RebuildRefTypeChapters recomputes the RefType/chapter index from the
// stored TextRefs.
func (b *Builder) RebuildRefTypeChapters() error {
	refTypes, err := b.stors.RefTypeStor.ListAllRefTypes()
	if err != nil {
		return err
	}

	for _, rt := range refTypes {
		chapterIDs, err := b.stors.TextRefStor.ListChapterIDsWithTextRefs(rt.ID)
		if err != nil {
			return err
		}
		for _, chapterID := range chapterIDs {
			if _, _, err := b.stors.TextRefStor.GetOrCreateRefTypeChapter(rt.ID, chapterID); err != nil {
				return err
			}
		}
	}
	return nil
}
