// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package textindex

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/animatch/internal/catalog"
)

// SchemaTag identifies the serialized artifact format. Consumers must
// validate it before use.
const SchemaTag = "animatch.textindex.v1"

// ErrEmptyCorpus is returned by Build when no item yields non-blank text.
var ErrEmptyCorpus = errors.New("textindex: empty corpus")

// ErrSchemaMismatch is returned by Load when the artifact schema tag does
// not match SchemaTag.
var ErrSchemaMismatch = errors.New("textindex: schema mismatch")

// Config contains vocabulary pruning parameters.
type Config struct {
	// MinDocFreq drops terms appearing in fewer documents. Default: 2.
	MinDocFreq int `koanf:"min_doc_freq" json:"min_doc_freq"`

	// MaxDocFraction drops terms appearing in more than this fraction of
	// documents. Default: 0.90.
	MaxDocFraction float64 `koanf:"max_doc_fraction" json:"max_doc_fraction"`

	// MaxVocabulary caps the vocabulary size, keeping the highest-weight
	// terms. Default: 30000.
	MaxVocabulary int `koanf:"max_vocabulary" json:"max_vocabulary"`
}

// DefaultConfig returns the default pruning parameters.
func DefaultConfig() Config {
	return Config{
		MinDocFreq:     2,
		MaxDocFraction: 0.90,
		MaxVocabulary:  30000,
	}
}

func (c Config) withDefaults() Config {
	if c.MinDocFreq <= 0 {
		c.MinDocFreq = 2
	}
	if c.MaxDocFraction <= 0 || c.MaxDocFraction > 1 {
		c.MaxDocFraction = 0.90
	}
	if c.MaxVocabulary <= 0 {
		c.MaxVocabulary = 30000
	}
	return c
}

// entry is one nonzero component of a row vector.
type entry struct {
	Term   int
	Weight float64
}

// posting locates one nonzero component of a term column.
type posting struct {
	Row    int
	Weight float64
}

// Index is an immutable TF-IDF vector space with unit-norm rows and a
// bijective id↔row mapping over the items indexed at build time.
type Index struct {
	terms    []string
	vocab    map[string]int
	idf      []float64
	rows     [][]entry
	rowIDs   []int
	idToRow  map[int]int
	postings [][]posting
}

// Build constructs an index from catalog items. Items without usable text
// are excluded; if none remain, ErrEmptyCorpus is returned.
func Build(items []catalog.Item, cfg Config) (*Index, error) {
	cfg = cfg.withDefaults()

	sorted := make([]catalog.Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	type doc struct {
		id     int
		counts map[string]int
	}
	docs := make([]doc, 0, len(sorted))
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)

	for _, item := range sorted {
		text, ok := item.SynopsisText()
		if !ok {
			continue
		}
		counts := termCounts(Tokenize(text))
		if len(counts) == 0 {
			continue
		}
		docs = append(docs, doc{id: item.ID, counts: counts})
		for term, n := range counts {
			docFreq[term]++
			corpusFreq[term] += n
		}
	}

	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	terms := selectVocabulary(docFreq, corpusFreq, len(docs), cfg)
	vocab := make(map[string]int, len(terms))
	for i, t := range terms {
		vocab[t] = i
	}

	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, t := range terms {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[t]))) + 1
	}

	idx := &Index{
		terms:   terms,
		vocab:   vocab,
		idf:     idf,
		rows:    make([][]entry, 0, len(docs)),
		rowIDs:  make([]int, 0, len(docs)),
		idToRow: make(map[int]int, len(docs)),
	}

	for _, d := range docs {
		row := make([]entry, 0, len(d.counts))
		for term, tf := range d.counts {
			col, ok := vocab[term]
			if !ok {
				continue
			}
			w := (1 + math.Log(float64(tf))) * idf[col]
			row = append(row, entry{Term: col, Weight: w})
		}
		sort.Slice(row, func(i, j int) bool { return row[i].Term < row[j].Term })
		normalizeRow(row)

		idx.idToRow[d.id] = len(idx.rows)
		idx.rowIDs = append(idx.rowIDs, d.id)
		idx.rows = append(idx.rows, row)
	}

	idx.buildPostings()
	return idx, nil
}

// selectVocabulary applies the document-frequency band and the vocabulary
// cap. The cap keeps the terms with the highest corpus frequency, breaking
// ties lexicographically for determinism.
func selectVocabulary(docFreq, corpusFreq map[string]int, nDocs int, cfg Config) []string {
	maxDF := int(cfg.MaxDocFraction * float64(nDocs))
	if maxDF < 1 {
		maxDF = 1
	}

	kept := make([]string, 0, len(docFreq))
	for term, df := range docFreq {
		if df < cfg.MinDocFreq || df > maxDF {
			continue
		}
		kept = append(kept, term)
	}

	if len(kept) > cfg.MaxVocabulary {
		sort.Slice(kept, func(i, j int) bool {
			fi, fj := corpusFreq[kept[i]], corpusFreq[kept[j]]
			if fi != fj {
				return fi > fj
			}
			return kept[i] < kept[j]
		})
		kept = kept[:cfg.MaxVocabulary]
	}

	sort.Strings(kept)
	return kept
}

func normalizeRow(row []entry) {
	var sq float64
	for _, e := range row {
		sq += e.Weight * e.Weight
	}
	if sq == 0 {
		return
	}
	inv := 1 / math.Sqrt(sq)
	for i := range row {
		row[i].Weight *= inv
	}
}

func (x *Index) buildPostings() {
	x.postings = make([][]posting, len(x.terms))
	for r, row := range x.rows {
		for _, e := range row {
			x.postings[e.Term] = append(x.postings[e.Term], posting{Row: r, Weight: e.Weight})
		}
	}
}

// Tokenize lowercases text, applies Unicode NFKC normalization, splits on
// non-letter runes, and emits unigrams plus adjacent-pair bigrams joined
// with an underscore.
func Tokenize(text string) []string {
	normed := strings.ToLower(norm.NFKC.String(text))

	words := strings.FieldsFunc(normed, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	tokens := make([]string, 0, 2*len(words))
	tokens = append(tokens, words...)
	for i := 0; i+1 < len(words); i++ {
		tokens = append(tokens, words[i]+"_"+words[i+1])
	}
	return tokens
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// SimilarityToSeeds returns, for every indexed non-seed item, the maximum
// cosine similarity to any seed present in the index. Seeds absent from the
// index are skipped without error; if none are present the result is empty.
func (x *Index) SimilarityToSeeds(seedIDs []int) map[int]float64 {
	seedRows := make([]int, 0, len(seedIDs))
	seedSet := make(map[int]struct{}, len(seedIDs))
	for _, id := range seedIDs {
		if _, dup := seedSet[id]; dup {
			continue
		}
		seedSet[id] = struct{}{}
		if r, ok := x.idToRow[id]; ok {
			seedRows = append(seedRows, r)
		}
	}
	if len(seedRows) == 0 {
		return map[int]float64{}
	}

	best := make([]float64, len(x.rows))
	scores := make([]float64, len(x.rows))
	for _, sr := range seedRows {
		for i := range scores {
			scores[i] = 0
		}
		for _, e := range x.rows[sr] {
			for _, p := range x.postings[e.Term] {
				scores[p.Row] += e.Weight * p.Weight
			}
		}
		for i, s := range scores {
			if s > best[i] {
				best[i] = s
			}
		}
	}

	out := make(map[int]float64, len(x.rows))
	for r, id := range x.rowIDs {
		if _, isSeed := seedSet[id]; isSeed {
			continue
		}
		out[id] = best[r]
	}
	return out
}

// Has reports whether the item was indexed (i.e. has a semantic vector).
func (x *Index) Has(id int) bool {
	_, ok := x.idToRow[id]
	return ok
}

// Len returns the number of indexed documents.
func (x *Index) Len() int {
	return len(x.rows)
}

// VocabularySize returns the number of retained terms.
func (x *Index) VocabularySize() int {
	return len(x.terms)
}

// IDs returns the indexed item ids in row order (ascending id).
func (x *Index) IDs() []int {
	out := make([]int, len(x.rowIDs))
	copy(out, x.rowIDs)
	return out
}

// rowNorm returns the L2 norm of a row. Exposed for tests via Len-indexed
// access in this package.
func (x *Index) rowNorm(r int) float64 {
	var sq float64
	for _, e := range x.rows[r] {
		sq += e.Weight * e.Weight
	}
	return math.Sqrt(sq)
}
