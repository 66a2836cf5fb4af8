package bleve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/token/lowercase"
	"github.com/blevesearch/bleve/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/custodia-labs/sercha-hub/internal/core/domain"
	"github.com/custodia-labs/sercha-hub/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ObjectStore = (*FileIndex)(nil)

const (
	lowercaseKeyword = "lowercase_keyword"

	fieldWorkspace   = "workspace_id"
	fieldChannel     = "channel_id"
	fieldFilename    = "filename"
	fieldContentType = "content_type"
	fieldUploadedAt  = "uploaded_at"
	fieldRecord      = "record"
)

// defaultLimit applies when a search arrives without a limit
const defaultLimit = domain.DefaultSearchLimit

// FileIndex is the file catalog of the object store, kept in a bleve index.
// Filenames and content types are indexed whole and lowercased so that
// substring and prefix matches ignore case; the full record is stored as JSON.
type FileIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it when missing.
// An empty path keeps the index in memory.
func Open(path string) (*FileIndex, error) {
	m, err := newMapping()
	if err != nil {
		return nil, err
	}

	if path == "" {
		idx, err := bleve.NewMemOnly(m)
		if err != nil {
			return nil, fmt.Errorf("create in-memory file index: %w", err)
		}
		return &FileIndex{index: idx}, nil
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, m)
	}
	if err != nil {
		return nil, fmt.Errorf("open file index %s: %w", path, err)
	}
	return &FileIndex{index: idx}, nil
}

func newMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()
	err := im.AddCustomAnalyzer(lowercaseKeyword, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("register analyzer: %w", err)
	}

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	exact.Store = false
	exact.IncludeInAll = false

	folded := bleve.NewTextFieldMapping()
	folded.Analyzer = lowercaseKeyword
	folded.Store = false
	folded.IncludeInAll = false

	uploaded := bleve.NewNumericFieldMapping()
	uploaded.Store = false
	uploaded.IncludeInAll = false

	record := bleve.NewTextFieldMapping()
	record.Index = false
	record.IncludeInAll = false

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(fieldWorkspace, exact)
	doc.AddFieldMappingsAt(fieldChannel, exact)
	doc.AddFieldMappingsAt(fieldFilename, folded)
	doc.AddFieldMappingsAt(fieldContentType, folded)
	doc.AddFieldMappingsAt(fieldUploadedAt, uploaded)
	doc.AddFieldMappingsAt(fieldRecord, record)

	im.DefaultMapping = doc
	im.DefaultAnalyzer = keyword.Name
	im.StoreDynamic = false
	im.IndexDynamic = false
	return im, nil
}

// Put adds or replaces a file's catalog entry
func (f *FileIndex) Put(ctx context.Context, file *domain.File) error {
	if file == nil || file.ID == "" {
		return fmt.Errorf("%w: file id is required", domain.ErrInvalidInput)
	}
	data, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal file %s: %w", file.ID, err)
	}

	entry := map[string]interface{}{
		fieldWorkspace:   file.WorkspaceID,
		fieldFilename:    file.Filename,
		fieldContentType: file.ContentType,
		fieldUploadedAt:  float64(file.UploadedAt.UnixMilli()),
		fieldRecord:      string(data),
	}
	if file.ChannelID != "" {
		entry[fieldChannel] = file.ChannelID
	}
	if err := f.index.Index(file.ID, entry); err != nil {
		return fmt.Errorf("index file %s: %w", file.ID, err)
	}
	return nil
}

// Delete removes a file's catalog entry
func (f *FileIndex) Delete(ctx context.Context, id string) error {
	if err := f.index.Delete(id); err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	return nil
}

// Search returns the workspace's files matching the search, newest upload first
func (f *FileIndex) Search(ctx context.Context, search domain.FileSearch) ([]*domain.File, error) {
	limit := search.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	req := bleve.NewSearchRequestOptions(fileQuery(search), limit, 0, false)
	req.Fields = []string{fieldRecord}
	req.SortBy([]string{"-" + fieldUploadedAt, "_id"})

	res, err := f.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}

	files := make([]*domain.File, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, ok := hit.Fields[fieldRecord].(string)
		if !ok {
			return nil, fmt.Errorf("file %s: stored record missing", hit.ID)
		}
		var file domain.File
		if err := json.Unmarshal([]byte(raw), &file); err != nil {
			return nil, fmt.Errorf("decode file %s: %w", hit.ID, err)
		}
		files = append(files, &file)
	}
	return files, nil
}

// Count returns the number of catalogued files
func (f *FileIndex) Count() (uint64, error) {
	return f.index.DocCount()
}

// Close releases the index
func (f *FileIndex) Close() error {
	return f.index.Close()
}

func fileQuery(search domain.FileSearch) query.Query {
	ws := bleve.NewTermQuery(search.WorkspaceID)
	ws.SetField(fieldWorkspace)
	parts := []query.Query{ws}

	if search.ChannelID != "" {
		ch := bleve.NewTermQuery(search.ChannelID)
		ch.SetField(fieldChannel)
		parts = append(parts, ch)
	}
	if prefix := domain.ContentTypePrefix(search.FileType); prefix != "" {
		ct := bleve.NewPrefixQuery(prefix)
		ct.SetField(fieldContentType)
		parts = append(parts, ct)
	}
	if !search.Text.IsEmpty() {
		// Regexp rather than wildcard so that '*' and '?' in the text stay literal
		name := bleve.NewRegexpQuery(".*" + regexp.QuoteMeta(strings.ToLower(string(search.Text))) + ".*")
		name.SetField(fieldFilename)
		parts = append(parts, name)
	}
	return bleve.NewConjunctionQuery(parts...)
}
